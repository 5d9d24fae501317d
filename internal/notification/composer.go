package notification

import (
	"fmt"
	"strings"
	"time"

	"pulperia-be/internal/order"
)

const (
	TargetOwner    = "owner"
	TargetCustomer = "customer"

	payloadType = "order_update"
)

// EnrichedOrder is the order as broadcast: the persisted fields plus the
// resolved store name.
type EnrichedOrder struct {
	order.Order
	PulperiaName string `json:"pulperia_name"`
}

// Payload is one audience-specific notification frame.
type Payload struct {
	Type       string        `json:"type"`
	Event      order.Event   `json:"event"`
	Target     string        `json:"target"`
	Order      EnrichedOrder `json:"order"`
	Message    string        `json:"message"`
	TotalItems int           `json:"total_items"`
	Sound      bool          `json:"sound"`
	Timestamp  time.Time     `json:"timestamp"`
}

// TotalItems sums item quantities.
func TotalItems(items []order.Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// ItemSummary renders at most the first three items as "<qty>x <name>",
// with a " +<N> más" suffix for the rest.
func ItemSummary(items []order.Item) string {
	parts := make([]string, 0, 3)
	for i, item := range items {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.ProductName))
	}
	summary := strings.Join(parts, ", ")
	if len(items) > 3 {
		summary += fmt.Sprintf(" +%d más", len(items)-3)
	}
	return summary
}

// ComposeOwner builds the store-owner payload. The phrasing depends only on
// the event, never on the status. Deterministic given its inputs.
func ComposeOwner(o *order.Order, pulperiaName string, event order.Event, at time.Time) Payload {
	message := fmt.Sprintf("%s's order was updated", o.CustomerName)
	if event == order.EventNewOrder {
		message = fmt.Sprintf("New order from %s: %s", o.CustomerName, ItemSummary(o.Items))
	}

	return Payload{
		Type:       payloadType,
		Event:      event,
		Target:     TargetOwner,
		Order:      EnrichedOrder{Order: *o, PulperiaName: pulperiaName},
		Message:    message,
		TotalItems: TotalItems(o.Items),
		Sound:      event == order.EventNewOrder,
		Timestamp:  at,
	}
}

// ComposeCustomer builds the customer payload, keyed by the status after the
// transition. Deterministic given its inputs.
func ComposeCustomer(o *order.Order, pulperiaName string, event order.Event, at time.Time) Payload {
	var message string
	switch o.Status {
	case order.StatusPending:
		message = fmt.Sprintf("Your order at %s is pending", pulperiaName)
	case order.StatusAccepted:
		message = fmt.Sprintf("%s accepted your order and is preparing it", pulperiaName)
	case order.StatusReady:
		message = fmt.Sprintf("Your order is ready for pickup at %s", pulperiaName)
	case order.StatusCompleted:
		message = fmt.Sprintf("Order completed at %s", pulperiaName)
	case order.StatusCancelled:
		message = fmt.Sprintf("Your order at %s was cancelled", pulperiaName)
	default:
		message = "Order status updated"
	}

	return Payload{
		Type:       payloadType,
		Event:      event,
		Target:     TargetCustomer,
		Order:      EnrichedOrder{Order: *o, PulperiaName: pulperiaName},
		Message:    message,
		TotalItems: TotalItems(o.Items),
		Sound:      o.Status == order.StatusReady,
		Timestamp:  at,
	}
}
