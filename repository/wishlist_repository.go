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

type wishlistRepository struct {
	collection *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) WishlistRepository {
	return &wishlistRepository{collection: db.Collection("wishlists")}
}

func (r *wishlistRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	var w models.Wishlist
	if err := r.collection.FindOne(ctx, bson.M{"user": userID}).Decode(&w); err != nil {
		return nil, mapError(err)
	}
	return &w, nil
}

func (r *wishlistRepository) upsert(ctx context.Context, userID primitive.ObjectID, update bson.M) (*models.Wishlist, error) {
	now := time.Now().UTC()
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = now
	update["$set"] = set
	update["$setOnInsert"] = bson.M{"createdAt": now}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var w models.Wishlist
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, opts).Decode(&w); err != nil {
		return nil, mapError(err)
	}
	if w.Products == nil {
		w.Products = []primitive.ObjectID{}
	}
	return &w, nil
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	return r.upsert(ctx, userID, bson.M{"$addToSet": bson.M{"products": productID}})
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error) {
	return r.upsert(ctx, userID, bson.M{"$pull": bson.M{"products": productID}})
}

func (r *wishlistRepository) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	return r.upsert(ctx, userID, bson.M{"$set": bson.M{"products": []primitive.ObjectID{}}})
}
