package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

func sampleOrder(code string) domain.Order {
	return domain.Order{
		ClientReferenceCode: code,
		Description:         "office chairs",
		ItemCount:           3,
		TotalAmount:         decimal.RequireFromString("310.25"),
		Status:              domain.OrderStatusSubmitted,
		Items: []domain.OrderItem{
			{ItemID: uuid.NewString(), UnitPrice: decimal.NewFromInt(100), Units: 2, TotalPrice: decimal.NewFromInt(200)},
			{ItemID: uuid.NewString(), UnitPrice: decimal.RequireFromString("110.25"), Units: 1, TotalPrice: decimal.RequireFromString("110.25")},
		},
	}
}

func TestOrderStore_PostgresCreateAndFind(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	ctx := context.Background()

	created, err := orders.Create(ctx, sampleOrder("PG-ORDER-1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, found, err := orders.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.ClientReferenceCode, got.ClientReferenceCode)
	require.Equal(t, domain.OrderStatusSubmitted, got.Status)
	require.True(t, got.TotalAmount.Equal(created.TotalAmount), "total amount %s", got.TotalAmount)
	require.True(t, got.CreatedAt.Equal(created.CreatedAt))
	require.Len(t, got.Items, 2)
	for i, item := range got.Items {
		require.Equal(t, created.Items[i].ID, item.ID)
		require.Equal(t, created.Items[i].ItemID, item.ItemID)
		require.Equal(t, i, item.Position)
		require.True(t, item.UnitPrice.Equal(created.Items[i].UnitPrice))
	}

	byCode, found, err := orders.FindByClientReferenceCode(ctx, "PG-ORDER-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created.ID, byCode.ID)

	_, found, err = orders.FindByID(ctx, uuid.NewString())
	require.NoError(t, err)
	require.False(t, found)
}

func TestOrderStore_PostgresDuplicateCode(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	ctx := context.Background()

	_, err := orders.Create(ctx, sampleOrder("PG-DUP"))
	require.NoError(t, err)

	_, err = orders.Create(ctx, sampleOrder("PG-DUP"))
	require.ErrorIs(t, err, domain.ErrDuplicateOrder)
}

func TestOrderStore_PostgresConcurrentDuplicates(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		accepted  atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := orders.Create(ctx, sampleOrder("PG-RACE"))
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domain.ErrDuplicateOrder):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected create error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), accepted.Load())
	require.Equal(t, int32(workers-1), conflicts.Load())

	var itemRows int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM order_items`).Scan(&itemRows))
	require.Equal(t, 2, itemRows)
}

func TestOrderStore_PostgresItemFailureRollsBackOrder(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store, WithOutbox())
	ctx := context.Background()

	broken := sampleOrder("PG-BROKEN")
	broken.Items[1].Units = 0 // нарушает CHECK (units > 0) после вставки заказа

	_, err := orders.Create(ctx, broken)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, found, err := orders.FindByClientReferenceCode(ctx, "PG-BROKEN")
	require.NoError(t, err)
	require.False(t, found)

	var outboxRows int
	require.NoError(t, store.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox_messages`).Scan(&outboxRows))
	require.Zero(t, outboxRows)
}

func TestOrderStore_PostgresFindAllOrdered(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		order := sampleOrder(fmt.Sprintf("PG-LIST-%d", i))
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		created, err := orders.Create(ctx, order)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	all, err := orders.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, order := range all {
		require.Equal(t, ids[i], order.ID)
		require.Len(t, order.Items, 2)
	}
}

func TestOrderStore_PostgresWritesOutboxInSameTx(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store, WithOutbox())
	outbox := NewOutboxRepository(store)
	ctx := context.Background()

	created, err := orders.Create(ctx, sampleOrder("PG-OUTBOX"))
	require.NoError(t, err)

	pending, err := outbox.PullPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, created.ID, pending[0].AggregateID)
	require.Equal(t, domain.EventTypeOrderSubmitted, pending[0].EventType)
}

func TestOrderStore_PostgresCancelledContext(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orders.Create(ctx, sampleOrder("PG-CANCEL"))
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, found, err := orders.FindByClientReferenceCode(context.Background(), "PG-CANCEL")
	require.NoError(t, err)
	require.False(t, found)
}

func TestOrderStore_PostgresMoneyRoundTripsExactly(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderStore(store)
	ctx := context.Background()

	order := sampleOrder("PG-MONEY")
	order.TotalAmount = decimal.RequireFromString("999999999999999.9999")
	order.Items[0].UnitPrice = decimal.RequireFromString("0.1234")

	created, err := orders.Create(ctx, order)
	require.NoError(t, err)

	got, found, err := orders.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, got.TotalAmount.Equal(created.TotalAmount), "total amount %s", got.TotalAmount)
	require.True(t, got.Items[0].UnitPrice.Equal(created.Items[0].UnitPrice), "unit price %s", got.Items[0].UnitPrice)

	tooPrecise := sampleOrder("PG-MONEY-SCALE")
	tooPrecise.Items[0].UnitPrice = decimal.RequireFromString("0.12345")
	_, err = orders.Create(ctx, tooPrecise)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, found, err = orders.FindByClientReferenceCode(ctx, "PG-MONEY-SCALE")
	require.NoError(t, err)
	require.False(t, found)
}

func TestOrderStore_PostgresNumericOverflowIsInvalidInput(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	ctx := context.Background()

	_, err := store.DB().ExecContext(ctx, `
		INSERT INTO orders (id, client_reference_code, description, item_count, total_amount, status, created_at)
		VALUES ($1, 'PG-OVERFLOW', '', 1, $2, 'SUBMITTED', now())
	`, uuid.NewString(), decimal.New(1, 15))
	require.Error(t, err)

	classified := classifyWriteError("insert order", err)
	require.ErrorIs(t, classified, domain.ErrInvalidInput)
	require.True(t, domain.KindOf(classified).ClientCaused())
}
