// Package pool persists pool videos and their folders in SQLite and exposes
// the single-row compare-and-swap primitives the inventory, assignment, and
// lifecycle components are built on.
//
// Every mutation is an UPDATE guarded by the row's expected state (status,
// claim token, or binding); zero affected rows means another caller won the
// race and the operation reports that instead of retrying. The schema backs
// the lifecycle rules with CHECK constraints and a unique partial index
// on bound_slot_id so two videos can never share a slot.
//
// Treat this package as the single source of truth for video state; when you
// add columns or statuses, update schema.sql and bump schemaVersion.
package pool
