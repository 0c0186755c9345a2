package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khushipatel79/e-commerce-BE/models"
)

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartRepository{collection: db.Collection("carts")}
}

func (r *cartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	if err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Save upserts the whole cart document keyed by its owner.
func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"totalPrice": cart.TotalPrice,
			"updatedAt":  cart.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": cart.CreatedAt},
	}
	var saved models.Cart
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user": cart.User}, update, opts).Decode(&saved); err != nil {
		return mapError(err)
	}
	cart.ID = saved.ID
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"user": userID}, bson.M{"$set": bson.M{
		"items":      []models.CartItem{},
		"totalPrice": 0,
		"updatedAt":  time.Now().UTC(),
	}})
	return err
}
