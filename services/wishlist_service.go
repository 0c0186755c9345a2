package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

const (
	msgWishlistAdded   = "Product added to wishlist"
	msgWishlistRemoved = "Product removed from wishlist"
)

type WishlistService interface {
	GetWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, *apperrors.Error)
	// ToggleProduct removes productID when it is already wished for and adds it otherwise.
	ToggleProduct(ctx context.Context, userID primitive.ObjectID, productID string) (*models.WishlistToggleResult, *apperrors.Error)
	ClearWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, *apperrors.Error)
}

type wishlistServiceImpl struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	logger    *zap.Logger
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, logger *zap.Logger) WishlistService {
	return &wishlistServiceImpl{wishlists: wishlists, products: products, logger: logger}
}

func (s *wishlistServiceImpl) populate(ctx context.Context, w *models.Wishlist) (*models.Wishlist, *apperrors.Error) {
	w.Items = []models.ProductSummary{}
	if len(w.Products) == 0 {
		return w, nil
	}
	products, err := s.products.FindByIDs(ctx, w.Products)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load wishlist products", err)
	}
	for i := range products {
		if products[i].IsActive {
			w.Items = append(w.Items, products[i].Summary())
		}
	}
	return w, nil
}

func (s *wishlistServiceImpl) GetWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, *apperrors.Error) {
	w, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			return nil, internalError(ctx, s.logger, "Failed to load wishlist", err)
		}
		w = &models.Wishlist{User: userID, Products: []primitive.ObjectID{}}
	}
	return s.populate(ctx, w)
}

func (s *wishlistServiceImpl) ToggleProduct(ctx context.Context, userID primitive.ObjectID, productID string) (*models.WishlistToggleResult, *apperrors.Error) {
	pid, appErr := parseID(productID, "product")
	if appErr != nil {
		return nil, appErr
	}
	if _, err := s.products.FindByID(ctx, pid, false); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}

	current, err := s.wishlists.FindByUser(ctx, userID)
	if err != nil && !isNotFound(err) {
		return nil, internalError(ctx, s.logger, "Failed to load wishlist", err)
	}

	var (
		w      *models.Wishlist
		added  bool
		result = msgWishlistAdded
	)
	if current != nil && current.Contains(pid) {
		w, err = s.wishlists.Remove(ctx, userID, pid)
		result = msgWishlistRemoved
	} else {
		w, err = s.wishlists.Add(ctx, userID, pid)
		added = true
	}
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to update wishlist", err)
	}

	w, appErr = s.populate(ctx, w)
	if appErr != nil {
		return nil, appErr
	}
	return &models.WishlistToggleResult{Message: result, Added: added, Wishlist: w}, nil
}

func (s *wishlistServiceImpl) ClearWishlist(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, *apperrors.Error) {
	w, err := s.wishlists.Clear(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to clear wishlist", err)
	}
	w.Items = []models.ProductSummary{}
	return w, nil
}
