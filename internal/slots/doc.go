// Package slots models the content slots owned by the external
// content-planning store and the adapters used to read and write them.
//
// Slot state is never re-derived from optional fields at call sites: Classify
// turns a slot into exactly one Status variant (Needed, Scheduled, Published)
// and Snapshot caches those variants for a whole campaign. Writes go through a
// closed set of Update variants that are validated before they leave the
// process.
package slots
