package order

import (
	"context"
	"testing"
	"time"

	"pulperia-be/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrders(t *testing.T) (Repository, *docstore.Memory) {
	t.Helper()
	store := docstore.NewMemory()
	repo := NewRepository(store)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	orders := []*Order{
		{OrderID: "order_1", CustomerUserID: "u1", PulperiaID: "p1", Status: StatusPending, Total: 10, CreatedAt: base},
		{OrderID: "order_2", CustomerUserID: "u1", PulperiaID: "p2", Status: StatusCompleted, Total: 20, CreatedAt: base.Add(time.Hour)},
		{OrderID: "order_3", CustomerUserID: "u2", PulperiaID: "p1", Status: StatusCompleted, Total: 30, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, o := range orders {
		require.NoError(t, repo.Insert(ctx, o))
	}
	return repo, store
}

func TestRepositoryGetByID(t *testing.T) {
	repo, _ := seedOrders(t)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		o, err := repo.GetByID(ctx, "order_2")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, o.Status)
		assert.Equal(t, 20.0, o.Total)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "order_999")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepositorySetStatus(t *testing.T) {
	repo, _ := seedOrders(t)
	ctx := context.Background()

	at := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	require.NoError(t, repo.SetStatus(ctx, "order_1", StatusAccepted, at))

	o, err := repo.GetByID(ctx, "order_1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)
	assert.True(t, o.UpdatedAt.Equal(at))
	// created_at never moves on a transition
	assert.True(t, o.CreatedAt.Equal(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)))
}

func TestRepositoryListByCustomer(t *testing.T) {
	repo, _ := seedOrders(t)
	ctx := context.Background()

	t.Run("Most recent first", func(t *testing.T) {
		orders, err := repo.ListByCustomer(ctx, "u1", nil, 100)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "order_2", orders[0].OrderID)
		assert.Equal(t, "order_1", orders[1].OrderID)
	})

	t.Run("Status filter", func(t *testing.T) {
		completed := StatusCompleted
		orders, err := repo.ListByCustomer(ctx, "u1", &completed, 100)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order_2", orders[0].OrderID)
	})
}

func TestRepositoryListByPulperias(t *testing.T) {
	repo, _ := seedOrders(t)
	ctx := context.Background()

	t.Run("Across stores", func(t *testing.T) {
		orders, err := repo.ListByPulperias(ctx, []string{"p1", "p2"}, nil, 100)
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("No stores means no orders, not an error", func(t *testing.T) {
		orders, err := repo.ListByPulperias(ctx, nil, nil, 100)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestRepositoryCompletedSince(t *testing.T) {
	repo, _ := seedOrders(t)
	ctx := context.Background()

	since := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	orders, err := repo.CompletedSince(ctx, []string{"p1", "p2"}, since)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order_3", orders[0].OrderID)
}
