package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buahsegar/storefront-backend/pkg/config"
	"github.com/buahsegar/storefront-backend/pkg/db"
	"github.com/buahsegar/storefront-backend/pkg/db/models"
	"github.com/buahsegar/storefront-backend/pkg/enums"
)

func setupOrdersRepo(t *testing.T) *Repository {
	t.Helper()
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:orders_repo_%s?mode=memory&cache=shared", t.Name()),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(&models.Order{}))
	return NewRepository(client.DB())
}

func TestMarkPaidOnlyTouchesPendingRows(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), 50000)
	paidAt := time.Now().UTC()

	changed, err := repo.MarkPaid(ctx, order.ID, paidAt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkPaid(ctx, order.ID, paidAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed, "second transition must find no pending row")

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
	assert.WithinDuration(t, paidAt, *stored.PaidAt, time.Second)
}

func TestUpdateStatusKeepsPaidAt(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), 50000)
	_, err := repo.MarkPaid(ctx, order.ID, time.Now().UTC())
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped))

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, stored.Status)
	assert.NotNil(t, stored.PaidAt)
}

func TestStatusCountsAndPaidTotals(t *testing.T) {
	repo := setupOrdersRepo(t)
	ctx := context.Background()

	first := seedOrder(t, repo, uuid.New(), 40000)
	second := seedOrder(t, repo, uuid.New(), 90000)
	seedOrder(t, repo, uuid.New(), 25000)

	_, err := repo.MarkPaid(ctx, first.ID, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.MarkPaid(ctx, second.ID, time.Now().UTC())
	require.NoError(t, err)
	// Fulfilment moves must not drop the order from revenue.
	require.NoError(t, repo.UpdateStatus(ctx, second.ID, enums.OrderStatusDelivered))

	counts, err := repo.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[enums.OrderStatusPending])
	assert.Equal(t, int64(1), counts[enums.OrderStatusPaid])
	assert.Equal(t, int64(1), counts[enums.OrderStatusDelivered])

	sum, paidCount, err := repo.PaidTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(130000), sum)
	assert.Equal(t, int64(2), paidCount)
}
