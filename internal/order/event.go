package order

import "context"

// Event classifies a committed order mutation for fan-out. Creation emits
// new_order, a write of the cancelled status emits cancelled, any other
// status write emits status_changed.
type Event string

const (
	EventNewOrder      Event = "new_order"
	EventStatusChanged Event = "status_changed"
	EventCancelled     Event = "cancelled"
)

// Notifier receives committed order mutations for fan-out to live channels.
// Delivery is best effort; implementations never fail the mutation.
type Notifier interface {
	OrderChanged(ctx context.Context, o *Order, event Event)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) OrderChanged(ctx context.Context, o *Order, event Event) {}
