package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type UserController struct {
	svc services.UserService
}

func NewUserController(svc services.UserService) *UserController {
	return &UserController{svc: svc}
}

// GetProfile handles GET /users/profile
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, appErr := c.svc.GetProfile(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile handles PATCH /users/profile
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, appErr := c.svc.UpdateProfile(ctx.Request.Context(), userID, &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// ListUsers handles GET /users
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	result, appErr := c.svc.ListUsers(ctx.Request.Context(), page, limit)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// UpdateUser handles PATCH /users/:id
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req models.AdminUpdateUserRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, appErr := c.svc.UpdateUser(ctx.Request.Context(), ctx.Param("id"), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser handles DELETE /users/:id
func (c *UserController) DeleteUser(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	if appErr := c.svc.DeleteUser(ctx.Request.Context(), actor, ctx.Param("id")); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
