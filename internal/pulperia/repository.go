package pulperia

import (
	"context"
	"errors"
	"fmt"

	"pulperia-be/internal/docstore"
)

const collection = "pulperias"

var ErrNotFound = errors.New("pulperia not found")

// Repository is the read-only view of the pulperias collection this service
// needs: store ownership is managed elsewhere.
type Repository interface {
	GetByID(ctx context.Context, pulperiaID string) (*Pulperia, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pulperia, error)
	NamesByIDs(ctx context.Context, pulperiaIDs []string) (map[string]string, error)
}

type repository struct {
	store docstore.Store
}

func NewRepository(store docstore.Store) Repository {
	return &repository{store: store}
}

func (r *repository) GetByID(ctx context.Context, pulperiaID string) (*Pulperia, error) {
	var p Pulperia
	err := r.store.FindOne(ctx, collection, docstore.M{"pulperia_id": pulperiaID}, &p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pulperia %s: %w", pulperiaID, err)
	}
	return &p, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerUserID string) ([]Pulperia, error) {
	var list []Pulperia
	err := r.store.Find(ctx, collection, docstore.M{"owner_user_id": ownerUserID}, &docstore.FindOptions{Limit: 100}, &list)
	if err != nil {
		return nil, fmt.Errorf("list pulperias for owner %s: %w", ownerUserID, err)
	}
	return list, nil
}

func (r *repository) NamesByIDs(ctx context.Context, pulperiaIDs []string) (map[string]string, error) {
	if len(pulperiaIDs) == 0 {
		return map[string]string{}, nil
	}

	var list []Pulperia
	filter := docstore.M{"pulperia_id": docstore.M{"$in": pulperiaIDs}}
	if err := r.store.Find(ctx, collection, filter, &docstore.FindOptions{Limit: 100}, &list); err != nil {
		return nil, fmt.Errorf("resolve pulperia names: %w", err)
	}

	names := make(map[string]string, len(list))
	for _, p := range list {
		names[p.PulperiaID] = p.Name
	}
	return names, nil
}
