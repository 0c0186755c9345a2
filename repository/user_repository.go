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

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{collection: db.Collection("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return mapError(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if upd.Role != nil {
		set["role"] = *upd.Role
	}
	if upd.IsBlocked != nil {
		set["isBlocked"] = *upd.IsBlocked
	}
	if upd.Addresses != nil {
		set["addresses"] = *upd.Addresses
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"refreshToken":        tokenHash,
		"refreshTokenExpires": expires.UTC(),
	}})
}

func (r *userRepository) RotateRefreshToken(ctx context.Context, oldHash, newHash string, expires, now time.Time) (*models.User, error) {
	filter := bson.M{
		"refreshToken":        oldHash,
		"refreshTokenExpires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{"$set": bson.M{
		"refreshToken":        newHash,
		"refreshTokenExpires": expires.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$unset": bson.M{
		"refreshToken":        "",
		"refreshTokenExpires": "",
	}})
}

func (r *userRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": expires.UTC(),
	}})
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error) {
	filter := bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set": bson.M{"password": passwordHash, "updatedAt": now.UTC()},
		"$unset": bson.M{
			"resetPasswordToken":   "",
			"resetPasswordExpires": "",
			"refreshToken":         "",
			"refreshTokenExpires":  "",
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, p models.Pagination) ([]models.User, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(p.Skip()).
		SetLimit(int64(p.Limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": role})
}
