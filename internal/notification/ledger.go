package notification

import (
	"context"
	"fmt"
	"time"

	"pulperia-be/internal/docstore"
)

const readCollection = "read_notifications"

type readMarker struct {
	UserID         string    `bson:"user_id"`
	NotificationID string    `bson:"notification_id"`
	ReadAt         time.Time `bson:"read_at"`
}

// Ledger records which notification ids a user has acknowledged.
type Ledger interface {
	MarkRead(ctx context.Context, userID string, notificationIDs []string) error
	ReadIDs(ctx context.Context, userID string) (map[string]bool, error)
}

type ledger struct {
	store docstore.Store
}

func NewLedger(store docstore.Store) Ledger {
	return &ledger{store: store}
}

// MarkRead upserts one marker per (user, notification) pair. Re-marking a
// read id or marking a nonexistent one is not an error.
func (l *ledger) MarkRead(ctx context.Context, userID string, notificationIDs []string) error {
	now := time.Now().UTC()
	for _, id := range notificationIDs {
		err := l.store.UpdateOne(
			ctx,
			readCollection,
			docstore.M{"user_id": userID, "notification_id": id},
			docstore.M{"user_id": userID, "notification_id": id, "read_at": now},
			true,
		)
		if err != nil {
			return fmt.Errorf("mark notification %s read: %w", id, err)
		}
	}
	return nil
}

func (l *ledger) ReadIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var markers []readMarker
	opts := &docstore.FindOptions{Limit: 100}
	if err := l.store.Find(ctx, readCollection, docstore.M{"user_id": userID}, opts, &markers); err != nil {
		return nil, fmt.Errorf("load read markers: %w", err)
	}

	ids := make(map[string]bool, len(markers))
	for _, m := range markers {
		ids[m.NotificationID] = true
	}
	return ids, nil
}
