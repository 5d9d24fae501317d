package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pulperia-be/internal/docstore"
	"pulperia-be/internal/identity"
	"pulperia-be/internal/order"
	"pulperia-be/internal/pulperia"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedFixture(t *testing.T) (Feed, Ledger, order.Repository, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory()
	seedPulperia(t, store)

	orders := order.NewRepository(store)
	pulperias := pulperia.NewRepository(store)
	ledger := NewLedger(store)
	return NewFeed(orders, pulperias, ledger), ledger, orders, store
}

var (
	feedCustomer = &identity.User{UserID: "user_cliente_01", Name: "Ana", UserType: identity.RoleCustomer}
	feedOwner    = &identity.User{UserID: "user_owner_0001", Name: "Don José", UserType: identity.RoleOwner}
)

func insertOrder(t *testing.T, orders order.Repository, id string, status order.Status, at time.Time) {
	t.Helper()
	o := sampleOrder(status)
	o.OrderID = id
	o.CreatedAt = at
	require.NoError(t, orders.Insert(context.Background(), o))
}

func TestFeedCustomerView(t *testing.T) {
	feed, ledger, orders, _ := newFeedFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	insertOrder(t, orders, "order_old", order.StatusCompleted, base)
	insertOrder(t, orders, "order_new", order.StatusPending, base.Add(time.Hour))

	t.Run("Fresh rendering, unread by default", func(t *testing.T) {
		list, err := feed.List(ctx, feedCustomer)
		require.NoError(t, err)
		require.Len(t, list, 2)

		newest := list[0]
		assert.Equal(t, "order_new", newest.ID)
		assert.Equal(t, "order_new", newest.OrderID)
		assert.Equal(t, "order_status", newest.Type)
		assert.Equal(t, "Orden en La Esquina", newest.Title)
		assert.Equal(t, "2x Pan, 1x Leche", newest.Message)
		assert.Equal(t, order.StatusPending, newest.Status)
		assert.Equal(t, 3, newest.TotalItems)
		assert.Equal(t, TargetCustomer, newest.Role)
		assert.False(t, newest.Read)
	})

	t.Run("Read flag merges, entries never disappear", func(t *testing.T) {
		require.NoError(t, ledger.MarkRead(ctx, feedCustomer.UserID, []string{"order_new"}))

		list, err := feed.List(ctx, feedCustomer)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].Read)
		assert.False(t, list[1].Read)
	})

	t.Run("Status change re-renders the same entry", func(t *testing.T) {
		require.NoError(t, orders.SetStatus(ctx, "order_new", order.StatusReady, base.Add(2*time.Hour)))

		list, err := feed.List(ctx, feedCustomer)
		require.NoError(t, err)
		assert.Equal(t, order.StatusReady, list[0].Status)
		assert.True(t, list[0].Read, "read flag survives a status change")
	})
}

func TestFeedOwnerView(t *testing.T) {
	feed, _, orders, _ := newFeedFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	insertOrder(t, orders, "order_pending", order.StatusPending, base.Add(time.Hour))
	insertOrder(t, orders, "order_done", order.StatusCompleted, base)

	list, err := feed.List(ctx, feedOwner)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "new_order", list[0].Type)
	assert.Equal(t, "order_pending", list[0].ID)
	assert.Equal(t, "Pedido de Ana", list[0].Title)
	assert.Equal(t, "Ana", list[0].CustomerName)
	assert.Equal(t, TargetOwner, list[0].Role)

	assert.Equal(t, "order_update", list[1].Type)
}

func TestFeedBounds(t *testing.T) {
	feed, _, orders, _ := newFeedFixture(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		insertOrder(t, orders, fmt.Sprintf("order_%02d", i), order.StatusPending, base.Add(time.Duration(i)*time.Minute))
	}

	list, err := feed.List(ctx, feedCustomer)
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Equal(t, "order_24", list[0].ID, "most recent first")
	assert.Equal(t, "order_05", list[19].ID)
}

func TestFeedEmptyItems(t *testing.T) {
	feed, _, orders, _ := newFeedFixture(t)
	ctx := context.Background()

	o := sampleOrder(order.StatusPending)
	o.OrderID = "order_empty"
	o.Items = nil
	require.NoError(t, orders.Insert(ctx, o))

	list, err := feed.List(ctx, feedCustomer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sin productos", list[0].Message)
	assert.Zero(t, list[0].TotalItems)
}

func TestFeedUnresolvedStoreName(t *testing.T) {
	store := docstore.NewMemory()
	orders := order.NewRepository(store)
	feed := NewFeed(orders, pulperia.NewRepository(store), NewLedger(store))
	ctx := context.Background()

	insertOrder(t, orders, "order_1", order.StatusPending, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	list, err := feed.List(ctx, feedCustomer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, pulperia.DefaultName, list[0].PulperiaName)
	assert.Equal(t, "Orden en Pulpería", list[0].Title)
}
