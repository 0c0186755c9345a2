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

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{collection: db.Collection("orders")}
}

func (r *orderRepository) Create(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, o); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *orderRepository) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var o models.Order
	if err := r.collection.FindOne(ctx, filter).Decode(&o); err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	return r.findOne(ctx, bson.M{"orderNumber": orderNumber})
}

func (r *orderRepository) list(ctx context.Context, filter bson.M, p models.Pagination) ([]models.Order, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, p models.Pagination) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"user": userID}, p)
}

func (r *orderRepository) List(ctx context.Context, status string, p models.Pagination) ([]models.Order, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["orderStatus"] = status
	}
	return r.list(ctx, filter, p)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, change models.OrderStatusChange) (*models.Order, error) {
	set := bson.M{"orderStatus": change.To, "updatedAt": time.Now().UTC()}
	if change.PaymentStatus != "" {
		set["paymentStatus"] = change.PaymentStatus
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "orderStatus": change.From},
		bson.M{"$set": set},
		opts,
	).Decode(&o)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConflict
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{
		"user":          userID,
		"orderStatus":   models.OrderStatusDelivered,
		"items.product": productID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *orderRepository) DeliveredRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderStatus": models.OrderStatusDelivered}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalPrice"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (r *orderRepository) Recent(ctx context.Context, limit int) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SalesByCategory totals delivered line revenue per category title.
func (r *orderRepository) SalesByCategory(ctx context.Context) ([]models.CategorySales, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"orderStatus": models.OrderStatusDelivered}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "items.product",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: "$product"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "product.category",
			"foreignField": "_id",
			"as":           "category",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$category", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$ifNull": bson.A{"$category.title", "Uncategorized"}},
			"totalSales": bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.price", "$items.quantity"}}},
			"count":      bson.M{"$sum": "$items.quantity"},
		}}},
		{{Key: "$sort", Value: bson.M{"totalSales": -1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.CategorySales
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
