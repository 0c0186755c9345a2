package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

// ParentRoot selects top-level categories when used as the parent filter.
const ParentRoot = "root"

type CategoryService interface {
	CreateCategory(ctx context.Context, actor Actor, req *models.CreateCategoryRequest) (*models.Category, *apperrors.Error)
	ListCategories(ctx context.Context, page, limit int, search, parent string) (*models.PageResult[models.Category], *apperrors.Error)
	GetCategory(ctx context.Context, idOrSlug string) (*models.Category, *apperrors.Error)
	UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, *apperrors.Error)
	DeleteCategory(ctx context.Context, id string) *apperrors.Error
}

type categoryServiceImpl struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{categories: categories, logger: logger}
}

// ensureUnique rejects a title or slug already used by another category, active or not.
func (s *categoryServiceImpl) ensureUnique(ctx context.Context, self primitive.ObjectID, title, slug string) *apperrors.Error {
	if title != "" {
		c, err := s.categories.FindByTitle(ctx, title)
		if err == nil && c.ID != self {
			return apperrors.Conflict("Category with this title already exists")
		}
		if err != nil && !isNotFound(err) {
			return internalError(ctx, s.logger, "Failed to check category title", err)
		}
	}
	if slug != "" {
		c, err := s.categories.FindBySlug(ctx, slug, false)
		if err == nil && c.ID != self {
			return apperrors.Conflict("Category with this slug already exists")
		}
		if err != nil && !isNotFound(err) {
			return internalError(ctx, s.logger, "Failed to check category slug", err)
		}
	}
	return nil
}

func (s *categoryServiceImpl) resolveParent(ctx context.Context, raw string) (*primitive.ObjectID, *apperrors.Error) {
	if raw == "" {
		return nil, nil
	}
	id, appErr := parseID(raw, "parent category")
	if appErr != nil {
		return nil, appErr
	}
	if _, err := s.categories.FindByID(ctx, id, false); err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Parent category not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load parent category", err)
	}
	return &id, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, actor Actor, req *models.CreateCategoryRequest) (*models.Category, *apperrors.Error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.Validation("Title is required")
	}
	slug := Slugify(req.Slug)
	if req.Slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return nil, apperrors.Validation("Unable to derive a slug from the title")
	}

	if appErr := s.ensureUnique(ctx, primitive.NilObjectID, title, slug); appErr != nil {
		return nil, appErr
	}
	parent, appErr := s.resolveParent(ctx, req.ParentCategory)
	if appErr != nil {
		return nil, appErr
	}

	category := &models.Category{
		Title:           title,
		Slug:            slug,
		Description:     req.Description,
		Image:           req.Image,
		Icon:            req.Icon,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		ParentCategory:  parent,
		IsFeatured:      req.IsFeatured,
		IsActive:        true,
		CreatedBy:       actor.UserID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("Category with this title or slug already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to create category", err)
	}

	s.logger.Info("Category created", zap.String("slug", category.Slug))
	return category, nil
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, page, limit int, search, parent string) (*models.PageResult[models.Category], *apperrors.Error) {
	p := models.Pagination{}
	p.Page, p.Limit = clampPagination(page, limit)

	q := repository.CategoryQuery{Search: strings.TrimSpace(search)}
	switch parent {
	case "":
	case ParentRoot:
		q.RootOnly = true
	default:
		id, appErr := parseID(parent, "parent category")
		if appErr != nil {
			return nil, appErr
		}
		q.Parent = &id
	}

	categories, total, err := s.categories.List(ctx, q, p)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list categories", err)
	}
	return models.NewPageResult(categories, p, total), nil
}

func (s *categoryServiceImpl) GetCategory(ctx context.Context, idOrSlug string) (*models.Category, *apperrors.Error) {
	var (
		category *models.Category
		err      error
	)
	if id, perr := primitive.ObjectIDFromHex(idOrSlug); perr == nil {
		category, err = s.categories.FindByID(ctx, id, true)
	} else {
		category, err = s.categories.FindBySlug(ctx, idOrSlug, true)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load category", err)
	}
	return category, nil
}

// createsCycle reports whether making parent the parent of id would loop the tree.
func (s *categoryServiceImpl) createsCycle(ctx context.Context, id, parent primitive.ObjectID) (bool, error) {
	seen := map[primitive.ObjectID]bool{}
	cur := parent
	for {
		if cur == id {
			return true, nil
		}
		if seen[cur] {
			return true, nil
		}
		seen[cur] = true

		c, err := s.categories.FindByID(ctx, cur, false)
		if err != nil {
			if isNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if c.ParentCategory == nil {
			return false, nil
		}
		cur = *c.ParentCategory
	}
}

func (s *categoryServiceImpl) UpdateCategory(ctx context.Context, id string, req *models.UpdateCategoryRequest) (*models.Category, *apperrors.Error) {
	catID, appErr := parseID(id, "category")
	if appErr != nil {
		return nil, appErr
	}
	category, err := s.categories.FindByID(ctx, catID, false)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load category", err)
	}

	var newTitle, newSlug string
	if req.Title != nil {
		newTitle = strings.TrimSpace(*req.Title)
		if newTitle == "" {
			return nil, apperrors.Validation("Title cannot be empty")
		}
		category.Title = newTitle
	}
	if req.Slug != nil {
		newSlug = Slugify(*req.Slug)
		if newSlug == "" {
			return nil, apperrors.Validation("Invalid slug")
		}
		category.Slug = newSlug
	}
	if appErr := s.ensureUnique(ctx, catID, newTitle, newSlug); appErr != nil {
		return nil, appErr
	}

	if req.ParentCategory != nil {
		parent, appErr := s.resolveParent(ctx, *req.ParentCategory)
		if appErr != nil {
			return nil, appErr
		}
		if parent != nil {
			cycle, err := s.createsCycle(ctx, catID, *parent)
			if err != nil {
				return nil, internalError(ctx, s.logger, "Failed to walk category tree", err)
			}
			if cycle {
				return nil, apperrors.Validation("A category cannot be its own ancestor")
			}
		}
		category.ParentCategory = parent
	}

	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Image != nil {
		category.Image = *req.Image
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Tags != nil {
		category.Tags = *req.Tags
	}
	if req.MetaTitle != nil {
		category.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		category.MetaDescription = *req.MetaDescription
	}
	if req.IsFeatured != nil {
		category.IsFeatured = *req.IsFeatured
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.categories.Save(ctx, category); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("Category with this title or slug already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to update category", err)
	}
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, id string) *apperrors.Error {
	catID, appErr := parseID(id, "category")
	if appErr != nil {
		return appErr
	}
	if err := s.categories.SoftDelete(ctx, catID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("Category not found")
		}
		return internalError(ctx, s.logger, "Failed to delete category", err)
	}
	s.logger.Info("Category deactivated", zap.String("category_id", id))
	return nil
}
