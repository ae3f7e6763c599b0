package cmd

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/school-admin/internal/core/events"
)

// newEventBus returns the bus the list controllers publish to, with
// subscribers that trace collection activity in the log.
func newEventBus(lg *slog.Logger) *events.EventBus {
	bus := events.NewEventBus(lg.With("component", "events"))

	trace := func(ctx context.Context, e events.Event) error {
		lg.DebugContext(ctx, "collection event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		return nil
	}
	bus.Subscribe(events.EventTypeCollectionReloaded, trace)
	bus.Subscribe(events.EventTypeMutationApplied, trace)

	bus.Subscribe(events.EventTypeLoadFailed, func(ctx context.Context, e events.Event) error {
		lg.WarnContext(ctx, "collection load failed", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeMutationFailed, func(ctx context.Context, e events.Event) error {
		lg.WarnContext(ctx, "mutation failed", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	return bus
}
