package lifecycle

import (
	"fmt"

	"reelpool/internal/pool"
	"reelpool/internal/services"
)

// Event triggers a status transition.
type Event string

const (
	EventBind     Event = "bind"
	EventReady    Event = "ready"
	EventUnassign Event = "unassign"
)

// Transition is one row of the state table.
type Transition struct {
	From  pool.Status
	Event Event
	To    pool.Status
	Guard string
}

// Transitions lists every permitted status change.
var Transitions = []Transition{
	{From: pool.StatusUnassigned, Event: EventBind, To: pool.StatusProcessing, Guard: "slot unbound"},
	{From: pool.StatusProcessing, Event: EventReady, To: pool.StatusReady, Guard: "must be processing"},
	{From: pool.StatusProcessing, Event: EventUnassign, To: pool.StatusUnassigned},
	{From: pool.StatusReady, Event: EventUnassign, To: pool.StatusUnassigned},
}

// Can reports whether event is permitted from status.
func Can(from pool.Status, event Event) bool {
	_, ok := lookup(from, event)
	return ok
}

// Next returns the status reached by applying event to from.
func Next(from pool.Status, event Event) (pool.Status, error) {
	if t, ok := lookup(from, event); ok {
		return t.To, nil
	}
	return "", services.Wrap(
		services.ErrInvalidTransition,
		"lifecycle",
		string(event),
		fmt.Sprintf("cannot %s from %s", event, from),
		nil,
	)
}

func lookup(from pool.Status, event Event) (Transition, bool) {
	for _, t := range Transitions {
		if t.From == from && t.Event == event {
			return t, true
		}
	}
	return Transition{}, false
}
