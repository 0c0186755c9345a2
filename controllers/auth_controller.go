package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/services"
)

type AuthController struct {
	svc services.AuthService
}

func NewAuthController(svc services.AuthService) *AuthController {
	return &AuthController{svc: svc}
}

// Register handles POST /auth/register
func (c *AuthController) Register(ctx *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}
	resp, appErr := c.svc.Register(ctx.Request.Context(), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// RegisterAdmin handles POST /auth/admin/register
func (c *AuthController) RegisterAdmin(ctx *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}
	user, appErr := c.svc.RegisterAdmin(ctx.Request.Context(), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully", "user": user})
}

// Login handles POST /auth/login
func (c *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}
	resp, appErr := c.svc.Login(ctx.Request.Context(), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// AdminLogin handles POST /auth/admin/login
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}
	resp, appErr := c.svc.AdminLogin(ctx.Request.Context(), &req)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req models.RefreshRequest
	if !bindJSON(ctx, &req) {
		return
	}
	resp, appErr := c.svc.Refresh(ctx.Request.Context(), req.RefreshToken)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Logout handles POST /auth/logout
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	if appErr := c.svc.Logout(ctx.Request.Context(), userID); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ForgotPassword handles POST /auth/forgot-password
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req models.ForgotPasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if appErr := c.svc.ForgotPassword(ctx.Request.Context(), req.Email); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email"})
}

// ResetPassword handles POST /auth/reset-password
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req models.ResetPasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if appErr := c.svc.ResetPassword(ctx.Request.Context(), &req); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

// ChangePassword handles POST /auth/change-password
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}
	if appErr := c.svc.ChangePassword(ctx.Request.Context(), userID, &req); appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// Profile handles GET /auth/profile
func (c *AuthController) Profile(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	user, appErr := c.svc.Profile(ctx.Request.Context(), userID)
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}
