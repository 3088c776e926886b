package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestDB(t *testing.T) *MongoRepository {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))
	return repo
}

func lines() []domain.CartLine {
	return []domain.CartLine{
		{Product: domain.Product{ID: "m1", Name: "Nebula X1", Price: 1500, Images: []string{"x.png"}}, Quantity: 2},
	}
}

func TestGetCart_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	cart, err := repo.GetCart(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.Nil(t, cart)
}

func TestUpsertCart_CreatesAndReplaces(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.UpsertCart(ctx, &domain.SavedCart{SessionID: "s1", Lines: lines()}))

	got, err := repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Nebula X1", got.Lines[0].Product.Name)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.True(t, first.Equal(got.CreatedAt))

	later := first.Add(time.Hour)
	repo.now = func() time.Time { return later }
	require.NoError(t, repo.UpsertCart(ctx, &domain.SavedCart{SessionID: "s1", Lines: nil}))

	got, err = repo.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got.Lines)
	assert.True(t, first.Equal(got.CreatedAt))
	assert.True(t, later.Equal(got.UpdatedAt))
}

func TestDeleteCart(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertCart(ctx, &domain.SavedCart{SessionID: "s1", Lines: lines()}))
	require.NoError(t, repo.DeleteCart(ctx, "s1"))

	_, err := repo.GetCart(ctx, "s1")
	assert.ErrorIs(t, err, ErrCartNotFound)
	assert.ErrorIs(t, repo.DeleteCart(ctx, "s1"), ErrCartNotFound)
}
