package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"pulperia-be/internal/docstore"
	"pulperia-be/internal/order"
	"pulperia-be/internal/pulperia"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	sends map[string][]Payload
}

func newFakeSender() *fakeSender {
	return &fakeSender{sends: make(map[string][]Payload)}
}

func (s *fakeSender) Send(userID string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends[userID] = append(s.sends[userID], v.(Payload))
}

func seedPulperia(t *testing.T, store *docstore.Memory) {
	t.Helper()
	err := store.InsertOne(context.Background(), "pulperias", pulperia.Pulperia{
		PulperiaID:  "pulp_01",
		Name:        "La Esquina",
		OwnerUserID: "user_owner_0001",
	})
	require.NoError(t, err)
}

func TestBroadcasterOrderChanged(t *testing.T) {
	ctx := context.Background()

	t.Run("Both audiences receive their payload", func(t *testing.T) {
		store := docstore.NewMemory()
		seedPulperia(t, store)
		sender := newFakeSender()
		b := NewBroadcaster(pulperia.NewRepository(store), sender)

		b.OrderChanged(ctx, sampleOrder(order.StatusPending), order.EventNewOrder)

		ownerPayloads := sender.sends["user_owner_0001"]
		require.Len(t, ownerPayloads, 1)
		assert.Equal(t, TargetOwner, ownerPayloads[0].Target)
		assert.True(t, ownerPayloads[0].Sound)
		assert.Equal(t, "La Esquina", ownerPayloads[0].Order.PulperiaName)

		customerPayloads := sender.sends["user_cliente_01"]
		require.Len(t, customerPayloads, 1)
		assert.Equal(t, TargetCustomer, customerPayloads[0].Target)
		assert.False(t, customerPayloads[0].Sound)
		assert.Contains(t, customerPayloads[0].Message, "is pending")
	})

	t.Run("Missing store skips owner, customer still notified", func(t *testing.T) {
		store := docstore.NewMemory()
		sender := newFakeSender()
		b := NewBroadcaster(pulperia.NewRepository(store), sender)

		b.OrderChanged(ctx, sampleOrder(order.StatusReady), order.EventStatusChanged)

		assert.Len(t, sender.sends, 1)
		customerPayloads := sender.sends["user_cliente_01"]
		require.Len(t, customerPayloads, 1)
		assert.True(t, customerPayloads[0].Sound)
		assert.Equal(t, pulperia.DefaultName, customerPayloads[0].Order.PulperiaName)
	})

	t.Run("Order without customer only reaches the owner", func(t *testing.T) {
		store := docstore.NewMemory()
		seedPulperia(t, store)
		sender := newFakeSender()
		b := NewBroadcaster(pulperia.NewRepository(store), sender)

		o := sampleOrder(order.StatusPending)
		o.CustomerUserID = ""
		b.OrderChanged(ctx, o, order.EventNewOrder)

		assert.Len(t, sender.sends, 1)
		assert.Len(t, sender.sends["user_owner_0001"], 1)
	})

	t.Run("Payload timestamps are fresh", func(t *testing.T) {
		store := docstore.NewMemory()
		seedPulperia(t, store)
		sender := newFakeSender()
		b := NewBroadcaster(pulperia.NewRepository(store), sender)

		before := time.Now().UTC()
		b.OrderChanged(ctx, sampleOrder(order.StatusPending), order.EventNewOrder)

		p := sender.sends["user_cliente_01"][0]
		assert.False(t, p.Timestamp.Before(before))
	})
}
