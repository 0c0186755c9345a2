package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

const relatedProductsLimit = 4

type ProductService interface {
	CreateProduct(ctx context.Context, actor Actor, req *models.CreateProductRequest) (*models.Product, *apperrors.Error)
	ListProducts(ctx context.Context, page, limit int, filter models.ProductFilter) (*models.PageResult[models.Product], *apperrors.Error)
	GetProduct(ctx context.Context, idOrSlug string) (*models.Product, *apperrors.Error)
	GetRelatedProducts(ctx context.Context, idOrSlug string) ([]models.Product, *apperrors.Error)
	UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, *apperrors.Error)
	DeleteProduct(ctx context.Context, id string) *apperrors.Error
	PresignImageUpload(ctx context.Context, id, filename, contentType string, expires time.Duration) (*models.PresignUploadResponse, *apperrors.Error)
}

// UploadConfig locates product images in object storage.
type UploadConfig struct {
	Bucket    string
	Prefix    string
	CDNDomain string
	Endpoint  string
}

type productServiceImpl struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	presigner  aws_pkg.Presigner
	uploads    UploadConfig
	logger     *zap.Logger
}

func NewProductService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	presigner aws_pkg.Presigner,
	uploads UploadConfig,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		products:   products,
		categories: categories,
		presigner:  presigner,
		uploads:    uploads,
		logger:     logger,
	}
}

// resolveCategory accepts a category id or slug.
func (s *productServiceImpl) resolveCategory(ctx context.Context, ref string) (*models.Category, error) {
	if id, err := primitive.ObjectIDFromHex(ref); err == nil {
		c, err := s.categories.FindByID(ctx, id, false)
		if err == nil || !isNotFound(err) {
			return c, err
		}
	}
	return s.categories.FindBySlug(ctx, ref, false)
}

func (s *productServiceImpl) ensureUnique(ctx context.Context, self primitive.ObjectID, slug, sku string) *apperrors.Error {
	if slug != "" {
		p, err := s.products.FindBySlug(ctx, slug, false)
		if err == nil && p.ID != self {
			return apperrors.Conflict("Product with this slug already exists")
		}
		if err != nil && !isNotFound(err) {
			return internalError(ctx, s.logger, "Failed to check product slug", err)
		}
	}
	if sku != "" {
		p, err := s.products.FindBySKU(ctx, sku)
		if err == nil && p.ID != self {
			return apperrors.Conflict("Product with this SKU already exists")
		}
		if err != nil && !isNotFound(err) {
			return internalError(ctx, s.logger, "Failed to check product SKU", err)
		}
	}
	return nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, actor Actor, req *models.CreateProductRequest) (*models.Product, *apperrors.Error) {
	if req.Price < 0 || req.Stock < 0 {
		return nil, apperrors.Validation("Price and stock must not be negative")
	}
	if req.DiscountPrice != nil && *req.DiscountPrice > req.Price {
		return nil, apperrors.Validation("discountPrice must not exceed price")
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load category", err)
	}

	title := strings.TrimSpace(req.Title)
	slug := Slugify(req.Slug)
	if req.Slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, apperrors.Validation("Unable to derive a slug from the title")
	}
	sku := strings.TrimSpace(req.SKU)
	if appErr := s.ensureUnique(ctx, primitive.NilObjectID, slug, sku); appErr != nil {
		return nil, appErr
	}

	product := &models.Product{
		Title:            title,
		Slug:             slug,
		SKU:              sku,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		DiscountPrice:    req.DiscountPrice,
		Stock:            req.Stock,
		Images:           req.Images,
		Category:         category.ID,
		Tags:             req.Tags,
		Colors:           req.Colors,
		Sizes:            req.Sizes,
		IsFeatured:       req.IsFeatured,
		IsActive:         true,
		CreatedBy:        actor.UserID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("Product with this slug or SKU already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to create product", err)
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.Hex()), zap.String("slug", product.Slug))
	return product, nil
}

func (s *productServiceImpl) ListProducts(ctx context.Context, page, limit int, filter models.ProductFilter) (*models.PageResult[models.Product], *apperrors.Error) {
	p := models.Pagination{}
	p.Page, p.Limit = clampPagination(page, limit)

	q := repository.ProductQuery{
		Search:     strings.TrimSpace(filter.Search),
		MinPrice:   filter.MinPrice,
		MaxPrice:   filter.MaxPrice,
		Colors:     filter.Colors,
		Sizes:      filter.Sizes,
		Sort:       filter.Sort,
		IsFeatured: filter.IsFeatured,
	}
	if filter.Category != "" {
		category, err := s.resolveCategory(ctx, filter.Category)
		if err != nil {
			if isNotFound(err) {
				// unknown category filters down to nothing
				return models.NewPageResult[models.Product](nil, p, 0), nil
			}
			return nil, internalError(ctx, s.logger, "Failed to load category", err)
		}
		q.CategoryID = &category.ID
	}

	products, total, err := s.products.List(ctx, q, p)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list products", err)
	}
	return models.NewPageResult(products, p, total), nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, *apperrors.Error) {
	var (
		product *models.Product
		err     error
	)
	if id, perr := primitive.ObjectIDFromHex(idOrSlug); perr == nil {
		product, err = s.products.FindByID(ctx, id, true)
	} else {
		product, err = s.products.FindBySlug(ctx, idOrSlug, true)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}
	return product, nil
}

func (s *productServiceImpl) GetRelatedProducts(ctx context.Context, idOrSlug string) ([]models.Product, *apperrors.Error) {
	product, appErr := s.GetProduct(ctx, idOrSlug)
	if appErr != nil {
		return nil, appErr
	}
	related, err := s.products.FindRelated(ctx, product.Category, product.ID, relatedProductsLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load related products", err)
	}
	if related == nil {
		related = []models.Product{}
	}
	return related, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, id string, req *models.UpdateProductRequest) (*models.Product, *apperrors.Error) {
	productID, appErr := parseID(id, "product")
	if appErr != nil {
		return nil, appErr
	}
	current, err := s.products.FindByID(ctx, productID, false)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}

	upd := repository.ProductUpdate{
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		DiscountPrice:    req.DiscountPrice,
		Stock:            req.Stock,
		Images:           req.Images,
		Tags:             req.Tags,
		Colors:           req.Colors,
		Sizes:            req.Sizes,
		IsFeatured:       req.IsFeatured,
		IsActive:         req.IsActive,
	}

	price := current.Price
	if req.Price != nil {
		price = *req.Price
	}
	if req.DiscountPrice != nil && *req.DiscountPrice > price {
		return nil, apperrors.Validation("discountPrice must not exceed price")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.Validation("Title cannot be empty")
		}
		upd.Title = &title
	}
	var slug, sku string
	if req.Slug != nil {
		slug = Slugify(*req.Slug)
		if slug == "" {
			return nil, apperrors.Validation("Invalid slug")
		}
		upd.Slug = &slug
	}
	if req.SKU != nil {
		sku = strings.TrimSpace(*req.SKU)
		upd.SKU = &sku
	}
	if appErr := s.ensureUnique(ctx, productID, slug, sku); appErr != nil {
		return nil, appErr
	}

	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			if isNotFound(err) {
				return nil, apperrors.NotFound("Category not found")
			}
			return nil, internalError(ctx, s.logger, "Failed to load category", err)
		}
		upd.Category = &category.ID
	}

	product, err := s.products.Update(ctx, productID, upd)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, apperrors.NotFound("Product not found")
		case isDuplicate(err):
			return nil, apperrors.Conflict("Product with this slug or SKU already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to update product", err)
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, id string) *apperrors.Error {
	productID, appErr := parseID(id, "product")
	if appErr != nil {
		return appErr
	}
	if err := s.products.SoftDelete(ctx, productID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("Product not found")
		}
		return internalError(ctx, s.logger, "Failed to delete product", err)
	}
	s.logger.Info("Product deactivated", zap.String("product_id", id))
	return nil
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// IsAllowedImageContentType reports whether uploads of contentType are accepted.
func IsAllowedImageContentType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

func (s *productServiceImpl) PresignImageUpload(ctx context.Context, id, filename, contentType string, expires time.Duration) (*models.PresignUploadResponse, *apperrors.Error) {
	if s.presigner == nil || s.uploads.Bucket == "" {
		return nil, apperrors.InvalidState("Image uploads are not configured")
	}
	if !IsAllowedImageContentType(contentType) {
		return nil, apperrors.Validation("Invalid content type. Allowed: image/gif, image/jpeg, image/jpg, image/png, image/webp")
	}
	productID, appErr := parseID(id, "product")
	if appErr != nil {
		return nil, appErr
	}
	if _, err := s.products.FindByID(ctx, productID, false); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Product not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load product", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}
	key := fmt.Sprintf("%s%s/%s%s", s.uploads.Prefix, productID.Hex(), uuid.NewString(), ext)

	url, headers, err := s.presigner.PresignPut(ctx, s.uploads.Bucket, key, contentType, expires)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to generate presigned upload", err)
	}

	return &models.PresignUploadResponse{
		UploadURL: url,
		Method:    "PUT",
		Key:       key,
		PublicURL: s.publicURL(key),
		ExpiresIn: int64(expires.Seconds()),
		Headers:   headers,
	}, nil
}

func (s *productServiceImpl) publicURL(key string) string {
	switch {
	case s.uploads.CDNDomain != "":
		return fmt.Sprintf("https://%s/%s", strings.TrimRight(s.uploads.CDNDomain, "/"), key)
	case s.uploads.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.uploads.Endpoint, "/"), s.uploads.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.uploads.Bucket, key)
	}
}
