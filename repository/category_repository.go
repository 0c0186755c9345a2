package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khushipatel79/e-commerce-BE/models"
)

type categoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) CategoryRepository {
	return &categoryRepository{collection: db.Collection("categories")}
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Tags == nil {
		c.Tags = []string{}
	}
	res, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return mapError(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *categoryRepository) findOne(ctx context.Context, filter bson.M, activeOnly bool) (*models.Category, error) {
	if activeOnly {
		filter["isActive"] = true
	}
	var c models.Category
	if err := r.collection.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"_id": id}, activeOnly)
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, activeOnly)
}

func (r *categoryRepository) FindByTitle(ctx context.Context, title string) (*models.Category, error) {
	return r.findOne(ctx, bson.M{"title": title}, false)
}

func (r *categoryRepository) List(ctx context.Context, q CategoryQuery, p models.Pagination) ([]models.Category, int64, error) {
	filter := bson.M{"isActive": true}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}
	if q.Parent != nil {
		filter["parentCategory"] = *q.Parent
	} else if q.RootOnly {
		filter["parentCategory"] = bson.M{"$exists": false}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

func (r *categoryRepository) Save(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"isActive":  false,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
