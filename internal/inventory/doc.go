// Package inventory exposes a folder's Unassigned videos as a claimable pool.
//
// ClaimRandom picks videos through a SelectionStrategy and takes each one with
// a per-row compare-and-swap in the pool store, so concurrent callers never
// receive the same video. A claim holds videos until they are bound or
// released; abandoned claims are returned by ReclaimStale.
package inventory
