package notification

import (
	"context"
	"time"

	"pulperia-be/internal/identity"
	"pulperia-be/internal/order"
	"pulperia-be/internal/pulperia"
)

const feedLimit = 20

// Notification is one entry of the fallback feed: a fresh rendering of an
// order for one viewer, merged with the read ledger. notification id ==
// order id, so the feed is a view and never an append-only log.
type Notification struct {
	ID           string       `json:"id"`
	Type         string       `json:"type"`
	Title        string       `json:"title"`
	Message      string       `json:"message"`
	Status       order.Status `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	OrderID      string       `json:"order_id"`
	CustomerName string       `json:"customer_name,omitempty"`
	Items        []order.Item `json:"items"`
	Total        float64      `json:"total"`
	TotalItems   int          `json:"total_items"`
	PulperiaName string       `json:"pulperia_name"`
	Role         string       `json:"role"`
	Read         bool         `json:"read"`
}

// Feed recomputes a user's notification list on demand, independent of any
// live channel. Store failures here are the one error class an interactive
// caller sees.
type Feed interface {
	List(ctx context.Context, user *identity.User) ([]Notification, error)
}

type feed struct {
	orders    order.Repository
	pulperias pulperia.Repository
	ledger    Ledger
}

func NewFeed(orders order.Repository, pulperias pulperia.Repository, ledger Ledger) Feed {
	return &feed{orders: orders, pulperias: pulperias, ledger: ledger}
}

func (f *feed) List(ctx context.Context, user *identity.User) ([]Notification, error) {
	readIDs, err := f.ledger.ReadIDs(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	if user.IsOwner() {
		return f.listForOwner(ctx, user, readIDs)
	}
	return f.listForCustomer(ctx, user, readIDs)
}

func (f *feed) listForCustomer(ctx context.Context, user *identity.User, readIDs map[string]bool) ([]Notification, error) {
	orders, err := f.orders.ListByCustomer(ctx, user.UserID, nil, feedLimit)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	pulperiaIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.PulperiaID != "" && !seen[o.PulperiaID] {
			seen[o.PulperiaID] = true
			pulperiaIDs = append(pulperiaIDs, o.PulperiaID)
		}
	}
	names, err := f.pulperias.NamesByIDs(ctx, pulperiaIDs)
	if err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(orders))
	for _, o := range orders {
		name := names[o.PulperiaID]
		if name == "" {
			name = pulperia.DefaultName
		}
		n := render(o, name, TargetCustomer, readIDs)
		n.Type = "order_status"
		n.Title = "Orden en " + name
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (f *feed) listForOwner(ctx context.Context, user *identity.User, readIDs map[string]bool) ([]Notification, error) {
	owned, err := f.pulperias.ListByOwner(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(owned))
	names := make(map[string]string, len(owned))
	for _, p := range owned {
		ids = append(ids, p.PulperiaID)
		names[p.PulperiaID] = p.Name
	}

	orders, err := f.orders.ListByPulperias(ctx, ids, nil, feedLimit)
	if err != nil {
		return nil, err
	}

	notifications := make([]Notification, 0, len(orders))
	for _, o := range orders {
		name := names[o.PulperiaID]
		if name == "" {
			name = "Tu Pulpería"
		}
		n := render(o, name, TargetOwner, readIDs)
		n.Type = "order_update"
		if o.Status == order.StatusPending {
			n.Type = "new_order"
		}
		n.Title = "Pedido de " + customerName(o)
		n.CustomerName = customerName(o)
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func render(o order.Order, pulperiaName, role string, readIDs map[string]bool) Notification {
	message := ItemSummary(o.Items)
	if message == "" {
		message = "Sin productos"
	}
	return Notification{
		ID:           o.OrderID,
		Message:      message,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		OrderID:      o.OrderID,
		Items:        o.Items,
		Total:        o.Total,
		TotalItems:   TotalItems(o.Items),
		PulperiaName: pulperiaName,
		Role:         role,
		Read:         readIDs[o.OrderID],
	}
}

func customerName(o order.Order) string {
	if o.CustomerName == "" {
		return "Cliente"
	}
	return o.CustomerName
}
