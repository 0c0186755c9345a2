package models

type CategorySales struct {
	Category   string  `json:"category" bson:"_id"`
	TotalSales float64 `json:"totalSales" bson:"totalSales"`
	Count      int     `json:"count" bson:"count"`
}

type DashboardStats struct {
	TotalOrders      int64           `json:"totalOrders"`
	TotalProducts    int64           `json:"totalProducts"`
	TotalUsers       int64           `json:"totalUsers"`
	TotalRevenue     float64         `json:"totalRevenue"`
	LowStockProducts []Product       `json:"lowStockProducts"`
	RecentOrders     []Order         `json:"recentOrders"`
	SalesByCategory  []CategorySales `json:"salesByCategory"`
}
