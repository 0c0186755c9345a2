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

type reviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{collection: db.Collection("reviews")}
}

func (r *reviewRepository) Create(ctx context.Context, rv *models.Review) error {
	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now
	if rv.Images == nil {
		rv.Images = []string{}
	}
	res, err := r.collection.InsertOne(ctx, rv)
	if err != nil {
		return mapError(err)
	}
	rv.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *reviewRepository) findOne(ctx context.Context, filter bson.M) (*models.Review, error) {
	var rv models.Review
	if err := r.collection.FindOne(ctx, filter).Decode(&rv); err != nil {
		return nil, mapError(err)
	}
	return &rv, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.Review, error) {
	return r.findOne(ctx, bson.M{"user": userID, "product": productID})
}

func (r *reviewRepository) find(ctx context.Context, filter bson.M, sortDir int) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: sortDir}, {Key: "_id", Value: sortDir}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListApprovedByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return r.find(ctx, bson.M{"product": productID, "isApproved": true}, -1)
}

func (r *reviewRepository) ListPending(ctx context.Context) ([]models.Review, error) {
	return r.find(ctx, bson.M{"isApproved": false}, 1)
}

func (r *reviewRepository) SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) (*models.Review, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rv models.Review
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isApproved": approved,
		"updatedAt":  time.Now().UTC(),
	}}, opts).Decode(&rv)
	if err != nil {
		return nil, mapError(err)
	}
	return &rv, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) RatingStats(ctx context.Context, productID primitive.ObjectID) (models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID, "isApproved": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$product",
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$rating"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Count int     `bson:"count"`
		Avg   float64 `bson:"avg"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.RatingStats{}, err
	}
	if len(rows) == 0 {
		return models.RatingStats{}, nil
	}
	return models.RatingStats{Average: rows[0].Avg, Count: rows[0].Count}, nil
}
