package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func collectionIndexes() map[string][]mongo.IndexModel {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	return map[string][]mongo.IndexModel{
		"users": {
			unique(bson.D{{Key: "email", Value: 1}}),
			plain(bson.D{{Key: "refreshToken", Value: 1}}),
			plain(bson.D{{Key: "resetPasswordToken", Value: 1}}),
		},
		"categories": {
			unique(bson.D{{Key: "title", Value: 1}}),
			unique(bson.D{{Key: "slug", Value: 1}}),
			plain(bson.D{{Key: "parentCategory", Value: 1}}),
		},
		"products": {
			unique(bson.D{{Key: "slug", Value: 1}}),
			{
				Keys: bson.D{{Key: "sku", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"sku": bson.M{"$type": "string"}}),
			},
			plain(bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}),
			plain(bson.D{{Key: "price", Value: 1}}),
		},
		"carts": {
			unique(bson.D{{Key: "user", Value: 1}}),
		},
		"orders": {
			unique(bson.D{{Key: "orderNumber", Value: 1}}),
			plain(bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}),
			plain(bson.D{{Key: "orderStatus", Value: 1}}),
		},
		"reviews": {
			unique(bson.D{{Key: "user", Value: 1}, {Key: "product", Value: 1}}),
			plain(bson.D{{Key: "product", Value: 1}, {Key: "isApproved", Value: 1}}),
		},
		"wishlists": {
			unique(bson.D{{Key: "user", Value: 1}}),
		},
	}
}

// EnsureIndexes creates the unique and lookup indexes every collection relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, models := range collectionIndexes() {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
