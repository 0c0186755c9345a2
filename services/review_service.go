package services

import (
	"context"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

const (
	msgReviewNotDelivered = "You can only review products that have been delivered to you."
	msgReviewDuplicate    = "You have already reviewed this product."
)

type ReviewService interface {
	CreateReview(ctx context.Context, userID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, *apperrors.Error)
	GetProductReviews(ctx context.Context, productID string) ([]models.Review, *apperrors.Error)
	ListPendingReviews(ctx context.Context) ([]models.Review, *apperrors.Error)
	SetReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, *apperrors.Error)
	DeleteReview(ctx context.Context, actor Actor, id string) *apperrors.Error
}

type reviewServiceImpl struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	metrics  aws_pkg.MetricsRecorder
	logger   *zap.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	metrics aws_pkg.MetricsRecorder,
	logger *zap.Logger,
) ReviewService {
	return &reviewServiceImpl{
		reviews:  reviews,
		products: products,
		orders:   orders,
		users:    users,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *reviewServiceImpl) CreateReview(ctx context.Context, userID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, *apperrors.Error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperrors.Validation("Rating must be between 1 and 5")
	}
	productID, appErr := parseID(req.ProductID, "product")
	if appErr != nil {
		return nil, appErr
	}

	if _, err := s.products.FindByID(ctx, productID, false); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}

	delivered, err := s.orders.HasDeliveredProduct(ctx, userID, productID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to check purchase history", err)
	}
	if !delivered {
		return nil, apperrors.InvalidState(msgReviewNotDelivered)
	}

	if _, err := s.reviews.FindByUserAndProduct(ctx, userID, productID); err == nil {
		return nil, apperrors.Conflict(msgReviewDuplicate)
	} else if !isNotFound(err) {
		return nil, internalError(ctx, s.logger, "Failed to check existing review", err)
	}

	review := &models.Review{
		User:    userID,
		Product: productID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
		Images:  req.Images,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict(msgReviewDuplicate)
		}
		return nil, internalError(ctx, s.logger, "Failed to create review", err)
	}

	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricReviewsCreated)
	s.logger.Info("Review submitted",
		zap.String("review_id", review.ID.Hex()),
		zap.String("product_id", productID.Hex()),
	)
	return review, nil
}

// withReviewers attaches the public profile of each author.
func (s *reviewServiceImpl) withReviewers(ctx context.Context, reviews []models.Review) []models.Review {
	seen := map[primitive.ObjectID]*models.UserSummary{}
	for i := range reviews {
		uid := reviews[i].User
		summary, ok := seen[uid]
		if !ok {
			if u, err := s.users.FindByID(ctx, uid); err == nil {
				summary = &models.UserSummary{ID: u.ID, Name: u.Name}
			} else if !isNotFound(err) {
				s.logger.Warn("Failed to load reviewer", zap.String("user_id", uid.Hex()), zap.Error(err))
			}
			seen[uid] = summary
		}
		reviews[i].Reviewer = summary
	}
	return reviews
}

func (s *reviewServiceImpl) GetProductReviews(ctx context.Context, productID string) ([]models.Review, *apperrors.Error) {
	pid, appErr := parseID(productID, "product")
	if appErr != nil {
		return nil, appErr
	}
	reviews, err := s.reviews.ListApprovedByProduct(ctx, pid)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return s.withReviewers(ctx, reviews), nil
}

func (s *reviewServiceImpl) ListPendingReviews(ctx context.Context) ([]models.Review, *apperrors.Error) {
	reviews, err := s.reviews.ListPending(ctx)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list pending reviews", err)
	}
	if len(reviews) == 0 {
		return []models.Review{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.Product)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load reviewed products", err)
	}
	byID := make(map[primitive.ObjectID]models.ProductSummary, len(products))
	for i := range products {
		byID[products[i].ID] = products[i].Summary()
	}
	for i := range reviews {
		if summary, ok := byID[reviews[i].Product]; ok {
			summary := summary
			reviews[i].ProductDetails = &summary
		}
	}
	return s.withReviewers(ctx, reviews), nil
}

// refreshRatings recomputes the product's rating aggregate from its approved reviews.
func (s *reviewServiceImpl) refreshRatings(ctx context.Context, productID primitive.ObjectID) error {
	stats, err := s.reviews.RatingStats(ctx, productID)
	if err != nil {
		return err
	}
	if stats.Count == 0 {
		stats.Average = 0
	}
	stats.Average = math.Round(stats.Average*10) / 10
	return s.products.UpdateRatings(ctx, productID, stats)
}

func (s *reviewServiceImpl) SetReviewApproval(ctx context.Context, id string, approved bool) (*models.Review, *apperrors.Error) {
	reviewID, appErr := parseID(id, "review")
	if appErr != nil {
		return nil, appErr
	}
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Review not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load review", err)
	}
	if review.IsApproved == approved {
		return review, nil
	}

	updated, err := s.reviews.SetApproved(ctx, reviewID, approved)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Review not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to update review", err)
	}
	if err := s.refreshRatings(ctx, updated.Product); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to update product ratings", err)
	}
	return updated, nil
}

func (s *reviewServiceImpl) DeleteReview(ctx context.Context, actor Actor, id string) *apperrors.Error {
	reviewID, appErr := parseID(id, "review")
	if appErr != nil {
		return appErr
	}
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("Review not found")
		}
		return internalError(ctx, s.logger, "Failed to load review", err)
	}
	if review.User != actor.UserID && !actor.IsAdmin() {
		return apperrors.Forbidden("You can only delete your own reviews")
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("Review not found")
		}
		return internalError(ctx, s.logger, "Failed to delete review", err)
	}
	if review.IsApproved {
		if err := s.refreshRatings(ctx, review.Product); err != nil {
			return internalError(ctx, s.logger, "Failed to update product ratings", err)
		}
	}
	return nil
}
