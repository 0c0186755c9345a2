package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

type CartService interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error)
	AddToCart(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	UpdateQuantity(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error)
	// RemoveItem drops the lines of a product; empty color and size match any variant.
	RemoveItem(ctx context.Context, userID primitive.ObjectID, productID, color, size string) (*models.Cart, *apperrors.Error)
	ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error)
}

type cartServiceImpl struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, products: products, logger: logger}
}

func (s *cartServiceImpl) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !isNotFound(err) {
		return nil, internalError(ctx, s.logger, "Failed to load cart", err)
	}
	return &models.Cart{User: userID, Items: []models.CartItem{}}, nil
}

func (s *cartServiceImpl) save(ctx context.Context, cart *models.Cart) (*models.Cart, *apperrors.Error) {
	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to save cart", err)
	}
	return s.populate(ctx, cart)
}

// populate attaches live product summaries to each line.
func (s *cartServiceImpl) populate(ctx context.Context, cart *models.Cart) (*models.Cart, *apperrors.Error) {
	if len(cart.Items) == 0 {
		return cart, nil
	}
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.Product)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load cart products", err)
	}
	byID := make(map[primitive.ObjectID]models.ProductSummary, len(products))
	for i := range products {
		byID[products[i].ID] = products[i].Summary()
	}
	for i := range cart.Items {
		if summary, ok := byID[cart.Items[i].Product]; ok {
			summary := summary
			cart.Items[i].ProductDetails = &summary
		}
	}
	return cart, nil
}

func (s *cartServiceImpl) activeProduct(ctx context.Context, rawID string) (*models.Product, *apperrors.Error) {
	productID, appErr := parseID(rawID, "product")
	if appErr != nil {
		return nil, appErr
	}
	product, err := s.products.FindByID(ctx, productID, true)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}
	return product, nil
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if cart.ID.IsZero() {
		return s.save(ctx, cart)
	}
	return s.populate(ctx, cart)
}

func (s *cartServiceImpl) AddToCart(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	if req.Quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}
	product, appErr := s.activeProduct(ctx, req.ProductID)
	if appErr != nil {
		return nil, appErr
	}
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	idx := -1
	for i, it := range cart.Items {
		if it.Matches(product.ID, req.SelectedColor, req.SelectedSize) {
			idx = i
			break
		}
	}

	newQty := req.Quantity
	if idx >= 0 {
		newQty += cart.Items[idx].Quantity
	}
	if newQty > product.Stock {
		return nil, apperrors.InvalidState(apperrors.MsgInsufficientStock)
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = newQty
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			Product:       product.ID,
			Quantity:      req.Quantity,
			Price:         product.Price,
			SelectedColor: req.SelectedColor,
			SelectedSize:  req.SelectedSize,
		})
	}
	return s.save(ctx, cart)
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, req *models.CartItemRequest) (*models.Cart, *apperrors.Error) {
	if req.Quantity < 1 {
		return nil, apperrors.Validation("Quantity must be at least 1")
	}
	productID, appErr := parseID(req.ProductID, "product")
	if appErr != nil {
		return nil, appErr
	}
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	idx := -1
	for i, it := range cart.Items {
		if it.Matches(productID, req.SelectedColor, req.SelectedSize) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NotFound("Item not found in cart")
	}

	product, appErr := s.activeProduct(ctx, req.ProductID)
	if appErr != nil {
		return nil, appErr
	}
	if req.Quantity > product.Stock {
		return nil, apperrors.InvalidState(apperrors.MsgInsufficientStock)
	}

	cart.Items[idx].Quantity = req.Quantity
	return s.save(ctx, cart)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID primitive.ObjectID, productID, color, size string) (*models.Cart, *apperrors.Error) {
	pid, appErr := parseID(productID, "product")
	if appErr != nil {
		return nil, appErr
	}
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	kept := cart.Items[:0]
	removed := false
	for _, it := range cart.Items {
		match := it.Product == pid &&
			(color == "" || it.SelectedColor == color) &&
			(size == "" || it.SelectedSize == size)
		if match {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return nil, apperrors.NotFound("Item not found in cart")
	}
	cart.Items = kept
	return s.save(ctx, cart)
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, *apperrors.Error) {
	cart, appErr := s.load(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	cart.Items = []models.CartItem{}
	return s.save(ctx, cart)
}
