package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/khushipatel79/e-commerce-BE/models"
)

// UserUpdate carries the fields of a partial user update; nil fields are left alone.
type UserUpdate struct {
	Name      *string
	Email     *string
	Phone     *string
	Role      *string
	IsBlocked *bool
	Addresses *[]models.Address
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	// RotateRefreshToken swaps an unexpired refresh token hash for a new one in a single
	// conditional write. ErrNotFound means the old token is unknown, expired or already used.
	RotateRefreshToken(ctx context.Context, oldHash, newHash string, expires, now time.Time) (*models.User, error)
	ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error
	// ConsumeResetToken sets a new password and drops the reset token and refresh session,
	// only while the token is unexpired.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
	List(ctx context.Context, p models.Pagination) ([]models.User, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

type CategoryQuery struct {
	Search   string
	Parent   *primitive.ObjectID
	RootOnly bool
}

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Category, error)
	FindByTitle(ctx context.Context, title string) (*models.Category, error)
	List(ctx context.Context, q CategoryQuery, p models.Pagination) ([]models.Category, int64, error)
	Save(ctx context.Context, c *models.Category) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type ProductQuery struct {
	Search     string
	CategoryID *primitive.ObjectID
	MinPrice   *float64
	MaxPrice   *float64
	Colors     []string
	Sizes      []string
	Sort       string
	IsFeatured *bool
}

// ProductUpdate carries the catalog fields of a partial product update. Stock counters
// and rating aggregates have dedicated methods.
type ProductUpdate struct {
	Title            *string
	Slug             *string
	SKU              *string
	Description      *string
	ShortDescription *string
	Price            *float64
	DiscountPrice    *float64
	Stock            *int
	Images           *[]string
	Category         *primitive.ObjectID
	Tags             *[]string
	Colors           *[]string
	Sizes            *[]string
	IsFeatured       *bool
	IsActive         *bool
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID, activeOnly bool) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string, activeOnly bool) (*models.Product, error)
	FindBySKU(ctx context.Context, sku string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	List(ctx context.Context, q ProductQuery, p models.Pagination) ([]models.Product, int64, error)
	FindRelated(ctx context.Context, categoryID, excludeID primitive.ObjectID, limit int) ([]models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, upd ProductUpdate) (*models.Product, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	// DecrementStock subtracts qty only if at least qty units of an active product are left.
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	UpdateRatings(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error
	CountActive(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error)
}

type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, p models.Pagination) ([]models.Order, int64, error)
	List(ctx context.Context, status string, p models.Pagination) ([]models.Order, int64, error)
	// UpdateStatus applies change only while the order is still in change.From.
	// ErrConflict means the status moved underneath the caller.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, change models.OrderStatusChange) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	HasDeliveredProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
	DeliveredRevenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, limit int) ([]models.Order, error)
	SalesByCategory(ctx context.Context) ([]models.CategorySales, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (*models.Review, error)
	ListApprovedByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	ListPending(ctx context.Context) ([]models.Review, error)
	SetApproved(ctx context.Context, id primitive.ObjectID, approved bool) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// RatingStats aggregates the approved reviews of a product; the average is not rounded.
	RatingStats(ctx context.Context, productID primitive.ObjectID) (models.RatingStats, error)
}

type WishlistRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	Add(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error)
	Remove(ctx context.Context, userID, productID primitive.ObjectID) (*models.Wishlist, error)
	Clear(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
}

// IdempotencyStore remembers which request keys already produced a result.
type IdempotencyStore interface {
	// Claim reserves key. When the key already exists it returns its stored value and false.
	Claim(ctx context.Context, key string, ttl time.Duration) (existing string, claimed bool, err error)
	Complete(ctx context.Context, key, value string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
