package docstore

import (
	"context"
	"errors"
)

// M is a filter, patch, or projection document.
type M = map[string]any

var ErrNotFound = errors.New("document not found")

// FindOptions bounds and orders a Find call.
type FindOptions struct {
	SortField string
	SortDesc  bool
	Limit     int64
}

// Store is the narrow document-store surface the service needs: lookup by
// filter, bounded sorted listing, upsert-style single-document updates,
// inserts and counts over named collections. Both the Mongo-backed store and
// the in-memory store used in tests satisfy it.
type Store interface {
	FindOne(ctx context.Context, collection string, filter M, out any) error
	Find(ctx context.Context, collection string, filter M, opts *FindOptions, out any) error
	InsertOne(ctx context.Context, collection string, doc any) error
	UpdateOne(ctx context.Context, collection string, filter M, set M, upsert bool) error
	Count(ctx context.Context, collection string, filter M) (int64, error)
}
