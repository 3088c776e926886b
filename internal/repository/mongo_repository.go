package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartTTL = 30 * 24 * time.Hour

type MongoRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("session_carts"),
		now:        time.Now,
	}
}

func (m *MongoRepository) GetCart(ctx context.Context, sessionID string) (*domain.SavedCart, error) {
	var cart domain.SavedCart
	err := m.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

// UpsertCart replaces the stored lines. CreatedAt is kept from the first write.
func (m *MongoRepository) UpsertCart(ctx context.Context, cart *domain.SavedCart) error {
	now := m.now().UTC()
	cart.UpdatedAt = now

	filter := bson.M{"session_id": cart.SessionID}
	update := bson.M{
		"$set": bson.M{
			"lines":      cart.Lines,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	if _, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}
	return nil
}

func (m *MongoRepository) DeleteCart(ctx context.Context, sessionID string) error {
	result, err := m.collection.DeleteOne(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

// CreateIndexes makes session_id unique and expires idle carts.
func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(cartTTL.Seconds())),
		},
	}
	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
