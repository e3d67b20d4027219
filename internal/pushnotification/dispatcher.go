package pushnotification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skyras/skyras/internal/eventbus"
)

// Dispatcher turns bus events into browser push notifications. Only events
// a user would act on are forwarded: failed delegations and a fully
// completed checklist.
type Dispatcher struct {
	eventBus *eventbus.Bus
	sender   *Sender
}

func NewDispatcher(eventBus *eventbus.Bus, sender *Sender) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		sender:   sender,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(256)
	defer d.eventBus.Unsubscribe(subID)

	slog.Info("push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			switch event.Type {
			case eventbus.EventTypeDelegationFailed:
				d.sender.SendToAll(ctx, &NotificationPayload{
					Title: "Delegation Failed",
					Body:  fmt.Sprintf("%s: %s", event.ResourceID, event.Payload),
					Tag:   event.ID,
				})
			case eventbus.EventTypeChecklistCompleted:
				if event.Metadata["all_completed"] != "true" {
					continue
				}
				d.sender.SendToAll(ctx, &NotificationPayload{
					Title: "Checklist Complete",
					Body:  "Today's checklist is done. A new plan is ready.",
					Tag:   event.ID,
				})
			}
		}
	}
}
