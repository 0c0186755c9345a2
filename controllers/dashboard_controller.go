package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/services"
)

type DashboardController struct {
	svc services.DashboardService
}

func NewDashboardController(svc services.DashboardService) *DashboardController {
	return &DashboardController{svc: svc}
}

// GetAdminStats handles GET /dashboard/admin/stats
func (c *DashboardController) GetAdminStats(ctx *gin.Context) {
	stats, appErr := c.svc.GetAdminStats(ctx.Request.Context())
	if appErr != nil {
		respondError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"stats": stats})
}
