// Package api is the caller-facing surface of reelpool. Service wires the
// pool store, inventory, assignment engine, lifecycle machine, publish
// coordinator and stats aggregator together and returns transport-friendly
// DTOs that the CLI and other thin handlers can render without touching
// internal types.
//
// # Key Types
//
// Service: AssignVideos, Unassign, MarkReady, PublishVideos, BucketStats,
// CategoryStats, Folders, Videos, Ingest, ReclaimStaleClaims and Health.
//
// Video, Folder, AssignResult, PublishReport, StatsResponse: DTOs with
// camelCase JSON tags.
//
// # Design Notes
//
// Every call is tagged with a request id (generated when the caller did not
// set one) so log lines from the components it touches can be correlated.
// Operations that need the content-planning store fail with a validation
// error when none is configured; local operations keep working.
package api
