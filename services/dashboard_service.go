package services

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/khushipatel79/e-commerce-BE/common/errors"
	"github.com/khushipatel79/e-commerce-BE/models"
	"github.com/khushipatel79/e-commerce-BE/repository"
)

const (
	lowStockThreshold = 10
	lowStockLimit     = 10
	recentOrdersLimit = 5
)

type DashboardService interface {
	GetAdminStats(ctx context.Context) (*models.DashboardStats, *apperrors.Error)
}

type dashboardServiceImpl struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	logger   *zap.Logger
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, logger *zap.Logger) DashboardService {
	return &dashboardServiceImpl{orders: orders, products: products, users: users, logger: logger}
}

func (s *dashboardServiceImpl) GetAdminStats(ctx context.Context) (*models.DashboardStats, *apperrors.Error) {
	var (
		stats models.DashboardStats
		err   error
	)
	if stats.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to count orders", err)
	}
	if stats.TotalProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to count products", err)
	}
	if stats.TotalUsers, err = s.users.CountByRole(ctx, models.RoleUser); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to count users", err)
	}

	revenue, err := s.orders.DeliveredRevenue(ctx)
	if err != nil {
		return nil, internalError(ctx, s.logger, "Failed to compute revenue", err)
	}
	stats.TotalRevenue = models.RoundMoney(revenue)

	if stats.LowStockProducts, err = s.products.LowStock(ctx, lowStockThreshold, lowStockLimit); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load low stock products", err)
	}
	if stats.RecentOrders, err = s.orders.Recent(ctx, recentOrdersLimit); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to load recent orders", err)
	}
	if stats.SalesByCategory, err = s.orders.SalesByCategory(ctx); err != nil {
		return nil, internalError(ctx, s.logger, "Failed to aggregate sales", err)
	}

	if stats.LowStockProducts == nil {
		stats.LowStockProducts = []models.Product{}
	}
	if stats.RecentOrders == nil {
		stats.RecentOrders = []models.Order{}
	}
	if stats.SalesByCategory == nil {
		stats.SalesByCategory = []models.CategorySales{}
	}
	for i := range stats.SalesByCategory {
		stats.SalesByCategory[i].TotalSales = models.RoundMoney(stats.SalesByCategory[i].TotalSales)
	}
	return &stats, nil
}
