package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pulperia-be/internal/docstore"
)

const collection = "orders"

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	SetStatus(ctx context.Context, orderID string, status Status, at time.Time) error
	ListByCustomer(ctx context.Context, userID string, status *Status, limit int64) ([]Order, error)
	ListByPulperias(ctx context.Context, pulperiaIDs []string, status *Status, limit int64) ([]Order, error)
	CompletedSince(ctx context.Context, pulperiaIDs []string, since time.Time) ([]Order, error)
}

type repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) Insert(ctx context.Context, o *Order) error {
	if err := r.store.InsertOne(ctx, collection, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.store.FindOne(ctx, collection, docstore.M{"order_id": orderID}, &o)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return &o, nil
}

func (r *repository) SetStatus(ctx context.Context, orderID string, status Status, at time.Time) error {
	err := r.store.UpdateOne(
		ctx,
		collection,
		docstore.M{"order_id": orderID},
		docstore.M{"status": string(status), "updated_at": at},
		false,
	)
	if err != nil {
		return fmt.Errorf("set status of order %s: %w", orderID, err)
	}
	return nil
}

func (r *repository) ListByCustomer(ctx context.Context, userID string, status *Status, limit int64) ([]Order, error) {
	filter := docstore.M{"customer_user_id": userID}
	if status != nil {
		filter["status"] = string(*status)
	}
	return r.list(ctx, filter, limit)
}

func (r *repository) ListByPulperias(ctx context.Context, pulperiaIDs []string, status *Status, limit int64) ([]Order, error) {
	if len(pulperiaIDs) == 0 {
		return []Order{}, nil
	}
	filter := docstore.M{"pulperia_id": docstore.M{"$in": pulperiaIDs}}
	if status != nil {
		filter["status"] = string(*status)
	}
	return r.list(ctx, filter, limit)
}

func (r *repository) CompletedSince(ctx context.Context, pulperiaIDs []string, since time.Time) ([]Order, error) {
	if len(pulperiaIDs) == 0 {
		return []Order{}, nil
	}
	filter := docstore.M{
		"pulperia_id": docstore.M{"$in": pulperiaIDs},
		"status":      string(StatusCompleted),
		"created_at":  docstore.M{"$gte": since},
	}
	return r.list(ctx, filter, 10000)
}

func (r *repository) list(ctx context.Context, filter docstore.M, limit int64) ([]Order, error) {
	var orders []Order
	opts := &docstore.FindOptions{SortField: "created_at", SortDesc: true, Limit: limit}
	if err := r.store.Find(ctx, collection, filter, opts, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
