package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	require.NoError(t, j.RunMigrations())
	return j
}

func testOrder(id string, createdAt time.Time, synced bool) domain.Order {
	return domain.Order{
		ID: id,
		Items: []domain.CartLine{
			{Product: domain.Product{ID: "m1", Name: "Nebula X1", Price: 1500}, Quantity: 2},
		},
		Address:       domain.ShippingAddress{Name: "Rahul", City: "Pune", AddressType: domain.AddressTypeHome},
		PaymentMethod: domain.PaymentMethodCashOnDelivery,
		Total:         3099,
		Status:        domain.OrderStatusOrdered,
		CreatedAt:     createdAt,
		Synced:        synced,
	}
}

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "x", nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	j := openTestJournal(t)
	assert.NoError(t, j.RunMigrations())
}

func TestRecordAndGet(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	order := testOrder("ORDABC123XYZ", base, false)
	order.SyncError = "Server Unreachable"
	require.NoError(t, j.Record(ctx, order))

	got, err := j.GetOrder(ctx, "ORDABC123XYZ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, int64(3099), got.Total)
	assert.False(t, got.Synced)
	assert.Equal(t, "Server Unreachable", got.SyncError)
	assert.Equal(t, order.Items, got.Items)
	assert.True(t, base.Equal(got.CreatedAt))
}

func TestGetOrder_NotFound(t *testing.T) {
	j := openTestJournal(t)

	_, err := j.GetOrder(context.Background(), "ORDMISSING1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestRecord_Duplicate(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, testOrder("ORD1", base, true)))
	assert.ErrorIs(t, j.Record(ctx, testOrder("ORD1", base, true)), ErrDuplicateOrder)
}

func TestOrderPlaced_SwallowsErrors(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	j.OrderPlaced(ctx, testOrder("ORD1", base, true))
	j.OrderPlaced(ctx, testOrder("ORD1", base, true))

	_, err := j.GetOrder(ctx, "ORD1")
	assert.NoError(t, err)
}

func TestOutbox(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, testOrder("ORD2", base.Add(time.Minute), true)))
	require.NoError(t, j.Record(ctx, testOrder("ORD1", base, false)))
	require.NoError(t, j.Record(ctx, testOrder("ORD3", base.Add(2*time.Minute), true)))

	events, err := j.Unpublished(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ORD1", events[0].OrderID)
	assert.Equal(t, "ORD2", events[1].OrderID)
	assert.True(t, base.Equal(events[0].CreatedAt))
	assert.Contains(t, string(events[0].Payload), `"id":"ORD1"`)

	require.NoError(t, j.MarkPublished(ctx, "ORD1"))
	require.NoError(t, j.MarkPublished(ctx, "ORD1"))

	events, err = j.Unpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ORD2", events[0].OrderID)
	assert.Equal(t, "ORD3", events[1].OrderID)
}

func TestRebind(t *testing.T) {
	pg := &Journal{driver: DriverPostgres}
	assert.Equal(t, "UPDATE t SET a = $1 WHERE b = $2", pg.rebind("UPDATE t SET a = ? WHERE b = ?"))

	lite := &Journal{driver: DriverSQLite}
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}
