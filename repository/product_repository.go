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

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection("products")}
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	for _, s := range []*[]string{&p.Images, &p.Tags, &p.Colors, &p.Sizes} {
		if *s == nil {
			*s = []string{}
		}
	}
	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return mapError(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *productRepository) findOne(ctx context.Context, filter bson.M, activeOnly bool) (*models.Product, error) {
	if activeOnly {
		filter["isActive"] = true
	}
	var p models.Product
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"_id": id}, activeOnly)
}

func (r *productRepository) FindBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"slug": slug}, activeOnly)
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*models.Product, error) {
	return r.findOne(ctx, bson.M{"sku": sku}, false)
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func buildProductFilter(q ProductQuery) bson.M {
	filter := bson.M{"isActive": true}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}
	if q.CategoryID != nil {
		filter["category"] = *q.CategoryID
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if len(q.Colors) > 0 {
		filter["colors"] = bson.M{"$in": q.Colors}
	}
	if len(q.Sizes) > 0 {
		filter["sizes"] = bson.M{"$in": q.Sizes}
	}
	if q.IsFeatured != nil {
		filter["isFeatured"] = *q.IsFeatured
	}
	return filter
}

func productSort(sort string) bson.D {
	switch sort {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *productRepository) List(ctx context.Context, q ProductQuery, p models.Pagination) ([]models.Product, int64, error) {
	filter := buildProductFilter(q)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(productSort(q.Sort)).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) FindRelated(ctx context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]models.Product, error) {
	filter := bson.M{
		"category": categoryID,
		"_id":      bson.M{"$ne": excludeID},
		"isActive": true,
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (*models.Product, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setStrings := func(key string, v *[]string) {
		if v != nil {
			if *v == nil {
				set[key] = []string{}
			} else {
				set[key] = *v
			}
		}
	}

	setString("title", upd.Title)
	setString("slug", upd.Slug)
	setString("description", upd.Description)
	setString("shortDescription", upd.ShortDescription)
	if upd.SKU != nil {
		// an empty SKU drops it so the partial unique index ignores the product
		if *upd.SKU == "" {
			unset["sku"] = ""
		} else {
			set["sku"] = *upd.SKU
		}
	}
	if upd.Price != nil {
		set["price"] = *upd.Price
	}
	if upd.DiscountPrice != nil {
		set["discountPrice"] = *upd.DiscountPrice
	}
	if upd.Stock != nil {
		set["stock"] = *upd.Stock
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	setStrings("images", upd.Images)
	setStrings("tags", upd.Tags)
	setStrings("colors", upd.Colors)
	setStrings("sizes", upd.Sizes)
	if upd.IsFeatured != nil {
		set["isFeatured"] = *upd.IsFeatured
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Product
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&p); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *productRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *productRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	filter := bson.M{
		"_id":      id,
		"isActive": true,
		"stock":    bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) UpdateRatings(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"ratingsAverage": stats.Average,
		"ratingsCount":   stats.Count,
	}})
	return err
}

func (r *productRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isActive": true})
}

func (r *productRepository) LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "stock", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true, "stock": bson.M{"$lt": threshold}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
