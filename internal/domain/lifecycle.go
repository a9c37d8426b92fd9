// Request lifecycle state machine.
//
// The transition table below is the single authority on which request
// state changes are legal. "approved" appears as a destination only: an
// approved request is terminal and can never be re-targeted, not even to
// "approved" again. A rejected request stays workable — the owner may
// reopen it to "pending" or approve it outright while the listing is
// still available.
package domain

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"
)

// Lifecycle events. Each event drives the request toward one target state.
const (
	EventApprove = "approve"
	EventReject  = "reject"
	EventReopen  = "reopen"
)

// Transition describes one permitted edge of the request state machine.
type Transition struct {
	Event string
	Src   string
	Dst   string
}

// Transitions enumerates every legal request state change.
var Transitions = []Transition{
	{Event: EventApprove, Src: RequestPending, Dst: RequestApproved},
	{Event: EventApprove, Src: RequestRejected, Dst: RequestApproved},
	{Event: EventReject, Src: RequestPending, Dst: RequestRejected},
	{Event: EventReopen, Src: RequestRejected, Dst: RequestPending},
}

// eventForTarget maps a requested target state to the lifecycle event
// that produces it.
var eventForTarget = map[string]string{
	RequestApproved: EventApprove,
	RequestRejected: EventReject,
	RequestPending:  EventReopen,
}

// events converts Transitions into looplab/fsm EventDesc format,
// consolidating edges that share an event and destination into a single
// descriptor with multiple source states.
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range Transitions {
		k := key{event: t.Event, dst: t.Dst}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], t.Src)
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// TransitionError is returned when a request state change is not allowed
// by the transition table.
type TransitionError struct {
	Current string
	Target  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move request from %q to %q", e.Current, e.Target)
}

// NextStatus validates moving a request from current to target and returns
// the resulting state. A short-lived FSM instance is created per call,
// seeded with the current state, because looplab/fsm tracks state
// internally.
//
// Callers handle the current == target case themselves (idempotent no-op);
// the machine treats it as an invalid self-transition.
func NextStatus(ctx context.Context, current, target string) (string, error) {
	event, ok := eventForTarget[target]
	if !ok {
		return "", &TransitionError{Current: current, Target: target}
	}

	machine := loopfsm.NewFSM(current, events, nil)
	if err := machine.Event(ctx, event); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &TransitionError{Current: current, Target: target}
		}
		return "", err
	}

	return machine.Current(), nil
}
