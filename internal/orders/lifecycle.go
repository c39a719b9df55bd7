// Package orders implements the service-order lifecycle, line-item editing
// and pricing on top of the db collections.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/ukydev/oficina/internal/models"
)

// Lifecycle events, one per target status.
const (
	EventOpen   = "abrir"
	EventStart  = "iniciar"
	EventFinish = "concluir"
	EventCancel = "cancelar"
)

var statusEvents = map[models.OrderStatus]string{
	models.StatusOpen:       EventOpen,
	models.StatusInProgress: EventStart,
	models.StatusFinished:   EventFinish,
	models.StatusCancelled:  EventCancel,
}

// Every status can be reached from every other one; the store never
// forbids edits after an order is closed.
func lifecycleEvents() fsm.Events {
	all := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		all = append(all, string(s))
	}
	events := make(fsm.Events, 0, len(statusEvents))
	for _, status := range models.Statuses {
		events = append(events, fsm.EventDesc{Name: statusEvents[status], Src: all, Dst: string(status)})
	}
	return events
}

// Transition is the outcome of a status change: the status to store and
// whether the exit date must be stamped (when not already set).
type Transition struct {
	From      models.OrderStatus
	To        models.OrderStatus
	StampExit bool
}

// Plan runs the lifecycle machine from current to target. Stored statuses
// that are not recognised are treated as open.
func Plan(ctx context.Context, current, target models.OrderStatus) (Transition, error) {
	event, ok := statusEvents[target]
	if !ok {
		return Transition{}, fmt.Errorf("unknown target status %q", target)
	}
	from, ok := models.ParseStatus(string(current))
	if !ok {
		from = models.StatusOpen
	}

	t := Transition{From: from}
	machine := fsm.NewFSM(
		string(from),
		lifecycleEvents(),
		fsm.Callbacks{
			"enter_" + string(models.StatusFinished): func(_ context.Context, _ *fsm.Event) {
				t.StampExit = true
			},
		},
	)

	err := machine.Event(ctx, event)
	var noTransition fsm.NoTransitionError
	switch {
	case errors.As(err, &noTransition):
		// finishing an already finished order still fills a missing exit date
		t.StampExit = target == models.StatusFinished
	case err != nil:
		return Transition{}, fmt.Errorf("status transition %s -> %s: %w", from, target, err)
	}
	t.To = models.OrderStatus(machine.Current())
	return t, nil
}
