// Package lifecycle owns the pool video state machine.
//
// Videos move Unassigned -> Processing when bound to a slot, Processing ->
// Ready when the render pipeline delivers output, and back to Unassigned from
// either bound state on unassign. Every transition is applied with a
// compare-and-swap on the expected source status.
package lifecycle
