package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khushipatel79/e-commerce-BE/common/auth"
	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	aws_pkg "github.com/khushipatel79/e-commerce-BE/pkg/aws"
	"github.com/khushipatel79/e-commerce-BE/repository"
	"github.com/khushipatel79/e-commerce-BE/sender"
)

const bcryptCost = 10

type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *apperrors.Error)
	RegisterAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error)
	AdminLogin(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, *apperrors.Error)
	Logout(ctx context.Context, userID primitive.ObjectID) *apperrors.Error
	ForgotPassword(ctx context.Context, email string) *apperrors.Error
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) *apperrors.Error
	ChangePassword(ctx context.Context, userID primitive.ObjectID, req *models.ChangePasswordRequest) *apperrors.Error
	Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error)
	// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type AuthConfig struct {
	RefreshTTL  time.Duration
	ResetTTL    time.Duration
	FrontendURL string
}

type authServiceImpl struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	mailer    sender.EmailSender
	events    EventPublisher
	metrics   aws_pkg.MetricsRecorder
	passwords *PasswordValidator
	cfg       AuthConfig
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	mailer sender.EmailSender,
	events EventPublisher,
	metrics aws_pkg.MetricsRecorder,
	cfg AuthConfig,
	logger *zap.Logger,
) AuthService {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = 15 * time.Minute
	}
	return &authServiceImpl{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		events:    events,
		metrics:   metrics,
		passwords: NewPasswordValidator(),
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authServiceImpl) hashPassword(password string) (string, *apperrors.Error) {
	if err := s.passwords.ValidatePassword(password); err != nil {
		return "", apperrors.Validation(err.Error())
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	return string(hash), nil
}

func (s *authServiceImpl) createUser(ctx context.Context, req *models.RegisterRequest, role string) (*models.User, *apperrors.Error) {
	email := normalizeEmail(req.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.Conflict("Email already exists")
	} else if !isNotFound(err) {
		return nil, internalError(ctx, s.logger, "Failed to look up user", err)
	}

	hash, appErr := s.hashPassword(req.Password)
	if appErr != nil {
		return nil, appErr
	}

	user := &models.User{
		Name:      req.Name,
		Email:     email,
		Password:  hash,
		Role:      role,
		Addresses: []models.Address{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.Conflict("Email already exists")
		}
		return nil, internalError(ctx, s.logger, "Failed to create user", err)
	}
	return user, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, *apperrors.Error) {
	user, appErr := s.createUser(ctx, req, models.RoleUser)
	if appErr != nil {
		return nil, appErr
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.Hex()))
	recordCount(ctx, s.metrics, s.logger, aws_pkg.MetricUsersRegistered)
	publishDetached(ctx, s.events, models.Event{
		EventType: models.EventUserRegistered,
		UserID:    user.ID.Hex(),
		Email:     user.Email,
	})

	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) RegisterAdmin(ctx context.Context, req *models.RegisterRequest) (*models.User, *apperrors.Error) {
	user, appErr := s.createUser(ctx, req, models.RoleAdmin)
	if appErr != nil {
		return nil, appErr
	}
	s.logger.Info("Admin registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// authenticate runs the credential check shared by both login flavours. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *authServiceImpl) authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Unauthorized(apperrors.MsgInvalidCredentials)
		}
		return nil, internalError(ctx, s.logger, "Failed to look up user", err)
	}
	if user.IsBlocked {
		return nil, apperrors.Unauthorized(apperrors.MsgAccountBlocked)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(apperrors.MsgInvalidCredentials)
	}
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error) {
	user, appErr := s.authenticate(ctx, req)
	if appErr != nil {
		return nil, appErr
	}
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) AdminLogin(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *apperrors.Error) {
	user, appErr := s.authenticate(ctx, req)
	if appErr != nil {
		return nil, appErr
	}
	if !user.IsAdmin() {
		return nil, apperrors.Forbidden(apperrors.MsgAdminOnly)
	}
	return s.issueTokens(ctx, user)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, *apperrors.Error) {
	raw, hash, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to generate refresh token", err)
	}
	if err := s.users.SetRefreshToken(ctx, user.ID, hash, s.now().Add(s.cfg.RefreshTTL)); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to store refresh token", err)
	}
	return s.buildAuthResponse(ctx, user, raw)
}

func (s *authServiceImpl) buildAuthResponse(ctx context.Context, user *models.User, refreshToken string) (*models.AuthResponse, *apperrors.Error) {
	access, err := s.tokens.GenerateAccessToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to sign access token", err)
	}
	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		User:         user,
	}, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, *apperrors.Error) {
	raw, newHash, err := s.tokens.NewRefreshToken()
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to generate refresh token", err)
	}

	now := s.now()
	user, err := s.users.RotateRefreshToken(ctx, s.tokens.HashToken(refreshToken), newHash, now.Add(s.cfg.RefreshTTL), now)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.Unauthorized("Invalid or expired refresh token")
		}
		return nil, internalError(ctx, s.logger, "Failed to rotate refresh token", err)
	}

	if user.IsBlocked {
		if err := s.users.ClearRefreshToken(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to clear refresh token of blocked user", zap.Error(err))
		}
		return nil, apperrors.Unauthorized(apperrors.MsgAccountBlocked)
	}
	return s.buildAuthResponse(ctx, user, raw)
}

func (s *authServiceImpl) Logout(ctx context.Context, userID primitive.ObjectID) *apperrors.Error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("User not found")
		}
		return internalError(ctx, s.logger, "Failed to clear refresh token", err)
	}
	return nil
}

func (s *authServiceImpl) ForgotPassword(ctx context.Context, email string) *apperrors.Error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("User with this email does not exist")
		}
		return internalError(ctx, s.logger, "Failed to look up user", err)
	}

	raw, hash, err := s.tokens.NewResetToken()
	if err != nil {
		return internalError(ctx, s.logger, "Failed to generate reset token", err)
	}
	if err := s.users.SetResetToken(ctx, user.ID, hash, s.now().Add(s.cfg.ResetTTL)); err != nil {
		return internalError(ctx, s.logger, "Failed to store reset token", err)
	}

	body, err := sender.Render(sender.TemplateResetPassword, map[string]any{
		"Name":             user.Name,
		"ResetURL":         fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, raw),
		"ExpiresInMinutes": int(s.cfg.ResetTTL.Minutes()),
	})
	if err != nil {
		return internalError(ctx, s.logger, "Failed to render reset email", err)
	}
	if _, err := s.mailer.SendEmail(ctx, user.Email, "Reset Your Password", body); err != nil {
		return internalError(ctx, s.logger, "Failed to send reset email", err)
	}

	s.logger.Info("Password reset requested", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authServiceImpl) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) *apperrors.Error {
	hash, appErr := s.hashPassword(req.Password)
	if appErr != nil {
		return appErr
	}

	user, err := s.users.ConsumeResetToken(ctx, s.tokens.HashToken(req.Token), hash, s.now())
	if err != nil {
		if isNotFound(err) {
			return apperrors.Unauthorized("Invalid or expired reset token")
		}
		return internalError(ctx, s.logger, "Failed to reset password", err)
	}

	s.logger.Info("Password reset", zap.String("user_id", user.ID.Hex()))
	return nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, userID primitive.ObjectID, req *models.ChangePasswordRequest) *apperrors.Error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return apperrors.NotFound("User not found")
		}
		return internalError(ctx, s.logger, "Failed to look up user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return apperrors.Validation("Old password incorrect")
	}

	hash, appErr := s.hashPassword(req.NewPassword)
	if appErr != nil {
		return appErr
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return internalError(ctx, s.logger, "Failed to update password", err)
	}
	return nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, *apperrors.Error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, internalError(ctx, s.logger, "Failed to look up user", err)
	}
	return user, nil
}

func (s *authServiceImpl) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, appErr := s.createUser(ctx, &models.RegisterRequest{Name: "Administrator", Email: email, Password: password}, models.RoleAdmin)
	if appErr == nil {
		s.logger.Info("Bootstrap admin created", zap.String("email", normalizeEmail(email)))
		return nil
	}
	if appErr.Kind == apperrors.KindConflict {
		return nil
	}
	return appErr
}
