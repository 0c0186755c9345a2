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

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error)
	ListUsers(ctx context.Context, page, limit int) (*models.PageResult[models.User], *apperrors.Error)
	UpdateUser(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, *apperrors.Error)
	DeleteUser(ctx context.Context, actor Actor, id string) *apperrors.Error
}

type userServiceImpl struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{users: users, logger: logger}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to load user", err)
	}
	return user, nil
}

// normalizeAddresses keeps at most one default address: the first one flagged wins.
func normalizeAddresses(addrs []models.Address) []models.Address {
	out := make([]models.Address, len(addrs))
	seenDefault := false
	for i, a := range addrs {
		if a.IsDefault {
			if seenDefault {
				a.IsDefault = false
			}
			seenDefault = true
		}
		out[i] = a
	}
	return out
}

func (s *userServiceImpl) checkEmailFree(ctx context.Context, userID primitive.ObjectID, email string) *apperrors.Error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil && existing.ID != userID {
		return apperrors.Conflict("Email already exists")
	}
	if err != nil && !isNotFound(err) {
		return internalError(ctx, s.logger, "Failed to look up user", err)
	}
	return nil
}

func (s *userServiceImpl) apply(ctx context.Context, userID primitive.ObjectID, upd repository.UserUpdate) (*models.User, *apperrors.Error) {
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		upd.Email = &email
		if appErr := s.checkEmailFree(ctx, userID, email); appErr != nil {
			return nil, appErr
		}
	}
	if upd.Addresses != nil {
		addrs := normalizeAddresses(*upd.Addresses)
		upd.Addresses = &addrs
	}

	user, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		switch {
		case isNotFound(err):
			return nil, apperrors.NotFound("User not found")
		case isDuplicate(err):
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to update user", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *models.UpdateProfileRequest) (*models.User, *apperrors.Error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.Validation("Name cannot be empty")
		}
		req.Name = &name
	}
	return s.apply(ctx, userID, repository.UserUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Addresses: req.Addresses,
	})
}

func (s *userServiceImpl) ListUsers(ctx context.Context, page, limit int) (*models.PageResult[models.User], *apperrors.Error) {
	p := models.Pagination{}
	p.Page, p.Limit = clampPagination(page, limit)

	users, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to list users", err)
	}
	return models.NewPageResult(users, p, total), nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id string, req *models.AdminUpdateUserRequest) (*models.User, *apperrors.Error) {
	userID, appErr := parseID(id, "user")
	if appErr != nil {
		return nil, appErr
	}
	user, appErr := s.apply(ctx, userID, repository.UserUpdate{
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		IsBlocked: req.IsBlocked,
		Addresses: req.Addresses,
	})
	if appErr != nil {
		return nil, appErr
	}
	if req.IsBlocked != nil && *req.IsBlocked {
		// a blocked user must not be able to refresh an existing session
		if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
			s.logger.Warn("Failed to clear refresh token of blocked user", zap.Error(err))
		}
	}
	return user, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, actor Actor, id string) *apperrors.Error {
	userID, appErr := parseID(id, "user")
	if appErr != nil {
		return appErr
	}
	if userID == actor.UserID {
		return apperrors.InvalidState("You cannot delete your own account")
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("User not found")
		}
		return internalError(ctx, s.logger, "Failed to delete user", err)
	}
	s.logger.Info("User deleted", zap.String("user_id", id))
	return nil
}
