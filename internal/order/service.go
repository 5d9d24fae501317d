package order

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pulperia-be/internal/identity"
	"pulperia-be/internal/logger"
	"pulperia-be/internal/pulperia"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateInput struct {
	CustomerName string  `json:"customer_name"`
	PulperiaID   string  `json:"pulperia_id"`
	Items        []Item  `json:"items"`
	Total        float64 `json:"total"`
	OrderType    string  `json:"order_type"`
}

type ProductCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Stats struct {
	Period       string         `json:"period"`
	TotalOrders  int            `json:"total_orders"`
	TotalRevenue float64        `json:"total_revenue"`
	AverageOrder float64        `json:"average_order"`
	TopProducts  []ProductCount `json:"top_products"`
	Orders       []Order        `json:"orders"`
}

type Service interface {
	Create(ctx context.Context, user *identity.User, in CreateInput) (*Order, error)
	UpdateStatus(ctx context.Context, user *identity.User, orderID string, status Status) (*Order, error)
	ListForUser(ctx context.Context, user *identity.User) ([]Order, error)
	CompletedForUser(ctx context.Context, user *identity.User) ([]Order, error)
	StatsForOwner(ctx context.Context, user *identity.User, period string) (*Stats, error)
}

type service struct {
	repo      Repository
	pulperias pulperia.Repository
	notifier  Notifier
}

func NewService(repo Repository, pulperias pulperia.Repository, notifier Notifier) Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &service{repo: repo, pulperias: pulperias, notifier: notifier}
}

func (s *service) Create(ctx context.Context, user *identity.User, in CreateInput) (*Order, error) {
	if in.PulperiaID == "" || len(in.Items) == 0 {
		return nil, ErrInvalidOrder
	}
	// The total is trusted from the placing client, never recomputed here,
	// but it still has to be a valid amount.
	if in.Total < 0 {
		return nil, ErrInvalidOrder
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidOrder)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidOrder)
		}
	}

	orderType := in.OrderType
	if orderType != TypeOnline && orderType != TypePickup {
		orderType = TypePickup
	}

	o := &Order{
		OrderID:        newOrderID(),
		CustomerUserID: user.UserID,
		CustomerName:   in.CustomerName,
		PulperiaID:     in.PulperiaID,
		Items:          in.Items,
		Total:          in.Total,
		Status:         StatusPending,
		OrderType:      orderType,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, o); err != nil {
		return nil, err
	}

	// The broadcast runs after the order is durably committed and its
	// delivery outcome never fails the creation.
	s.notifier.OrderChanged(ctx, o, EventNewOrder)

	return o, nil
}

func (s *service) UpdateStatus(ctx context.Context, user *identity.User, orderID string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !s.canUpdate(ctx, user, o) {
		return nil, ErrForbidden
	}

	log := logger.FromCtx(ctx).With(
		zap.String("order_id", o.OrderID),
		zap.String("from", string(o.Status)),
		zap.String("to", string(status)),
	)
	if !LegalTransition(o.Status, status) {
		log.Warn("illegal order status transition applied")
	}

	now := time.Now().UTC()
	if err := s.repo.SetStatus(ctx, orderID, status, now); err != nil {
		return nil, err
	}
	o.Status = status
	o.UpdatedAt = now

	event := EventStatusChanged
	if status == StatusCancelled {
		event = EventCancelled
	}
	s.notifier.OrderChanged(ctx, o, event)

	log.Info("order status updated")
	return o, nil
}

// canUpdate allows the store owner and the ordering customer. When the store
// cannot be resolved only the customer side remains.
func (s *service) canUpdate(ctx context.Context, user *identity.User, o *Order) bool {
	if user.UserID == o.CustomerUserID {
		return true
	}
	p, err := s.pulperias.GetByID(ctx, o.PulperiaID)
	if err != nil {
		return false
	}
	return p.OwnerUserID == user.UserID
}

func (s *service) ListForUser(ctx context.Context, user *identity.User) ([]Order, error) {
	if !user.IsOwner() {
		return s.repo.ListByCustomer(ctx, user.UserID, nil, 100)
	}
	ids, err := s.ownedPulperiaIDs(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPulperias(ctx, ids, nil, 100)
}

func (s *service) CompletedForUser(ctx context.Context, user *identity.User) ([]Order, error) {
	completed := StatusCompleted
	if !user.IsOwner() {
		return s.repo.ListByCustomer(ctx, user.UserID, &completed, 1000)
	}
	ids, err := s.ownedPulperiaIDs(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByPulperias(ctx, ids, &completed, 1000)
}

func (s *service) StatsForOwner(ctx context.Context, user *identity.User, period string) (*Stats, error) {
	if !user.IsOwner() {
		return nil, ErrForbidden
	}

	ids, err := s.ownedPulperiaIDs(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var since time.Time
	switch period {
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, 0, -30)
	default:
		period = "day"
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	orders, err := s.repo.CompletedSince(ctx, ids, since)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Period: period, TotalOrders: len(orders), TopProducts: []ProductCount{}, Orders: orders}
	counts := map[string]int{}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
		for _, item := range o.Items {
			counts[item.ProductName] += item.Quantity
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrder = stats.TotalRevenue / float64(stats.TotalOrders)
	}

	for name, qty := range counts {
		stats.TopProducts = append(stats.TopProducts, ProductCount{Name: name, Quantity: qty})
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		if stats.TopProducts[i].Quantity != stats.TopProducts[j].Quantity {
			return stats.TopProducts[i].Quantity > stats.TopProducts[j].Quantity
		}
		return stats.TopProducts[i].Name < stats.TopProducts[j].Name
	})
	if len(stats.TopProducts) > 5 {
		stats.TopProducts = stats.TopProducts[:5]
	}

	return stats, nil
}

func (s *service) ownedPulperiaIDs(ctx context.Context, ownerUserID string) ([]string, error) {
	list, err := s.pulperias.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.PulperiaID)
	}
	return ids, nil
}

func newOrderID() string {
	return "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
