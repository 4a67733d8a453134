package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{collection: db.Collection("orders")}
}

func (r *MongoRepository) Create(ctx context.Context, ord Order) (Order, error) {
	if ord.ID == "" {
		ord.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, ord); err != nil {
		return Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	return ord, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, owner string) ([]Order, error) {
	return r.find(ctx, bson.M{"owner": owner})
}

func (r *MongoRepository) List(ctx context.Context) ([]Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]Order, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Order, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) MarkPaidByBilling(ctx context.Context, billingID string) (Order, error) {
	update := bson.M{"$set": bson.M{
		"status":     StatusPaid,
		"updated_at": time.Now().UTC(),
	}}

	var updated Order
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"billing_id": billingID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("failed to mark order paid: %w", err)
	}
	return updated, nil
}
