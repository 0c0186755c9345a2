package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

func TestUpdateProfile(t *testing.T) {
	users := newMockUserRepo()
	svc := services.NewUserService(users, zap.NewNop())
	ctx := context.Background()
	ann := users.add(&models.User{Name: "Ann", Email: "ann@example.com", Role: models.RoleUser})
	users.add(&models.User{Name: "Bob", Email: "bob@example.com", Role: models.RoleUser})

	taken := "BOB@example.com"
	_, appErr := svc.UpdateProfile(ctx, ann.ID, &models.UpdateProfileRequest{Email: &taken})
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindConflict, appErr.Kind)

	addrs := []models.Address{
		{Street: "1 A St", IsDefault: true},
		{Street: "2 B St", IsDefault: true},
	}
	name := "  Ann Lee "
	updated, appErr := svc.UpdateProfile(ctx, ann.ID, &models.UpdateProfileRequest{Name: &name, Addresses: &addrs})
	require.Nil(t, appErr)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.True(t, updated.Addresses[0].IsDefault)
	assert.False(t, updated.Addresses[1].IsDefault)
}

func TestAdminUserManagement(t *testing.T) {
	users := newMockUserRepo()
	svc := services.NewUserService(users, zap.NewNop())
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	ann := users.add(&models.User{Name: "Ann", Email: "ann@example.com", Role: models.RoleUser, RefreshToken: "hash", RefreshTokenExpires: &expires})
	admin := users.add(&models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})

	blocked := true
	updated, appErr := svc.UpdateUser(ctx, ann.ID.Hex(), &models.AdminUpdateUserRequest{IsBlocked: &blocked})
	require.Nil(t, appErr)
	assert.True(t, updated.IsBlocked)
	assert.Empty(t, users.users[ann.ID].RefreshToken)

	appErr = svc.DeleteUser(ctx, services.Actor{UserID: admin.ID, Role: models.RoleAdmin}, admin.ID.Hex())
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindInvalidState, appErr.Kind)

	require.Nil(t, svc.DeleteUser(ctx, services.Actor{UserID: admin.ID, Role: models.RoleAdmin}, ann.ID.Hex()))
	_, appErr = svc.GetProfile(ctx, ann.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.KindNotFound, appErr.Kind)

	page, appErr := svc.ListUsers(ctx, 1, 10)
	require.Nil(t, appErr)
	assert.Len(t, page.Data, 1)
}
