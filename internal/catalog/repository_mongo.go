package catalog

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
	return &MongoRepository{collection: db.Collection("products")}
}

func (r *MongoRepository) List(ctx context.Context) ([]Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	out := make([]Product, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return out, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID().Hex()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		return Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, p Product) (Product, error) {
	p.ID = id
	p.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"image_url":   p.ImageURL,
		"stock":       p.Stock,
		"category":    p.Category,
		"updated_at":  p.UpdatedAt,
	}}

	var updated Product
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
