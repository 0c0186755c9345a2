package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/khushipatel79/e-commerce-BE/common/auth"
	"github.com/khushipatel79/e-commerce-BE/controllers"
	"github.com/khushipatel79/e-commerce-BE/middleware"
)

// Controllers groups every HTTP handler set the API exposes.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Category  *controllers.CategoryController
	Product   *controllers.ProductController
	Cart      *controllers.CartController
	Order     *controllers.OrderController
	Review    *controllers.ReviewController
	Wishlist  *controllers.WishlistController
	Dashboard *controllers.DashboardController
}

func RegisterRoutes(r *gin.Engine, c Controllers, tokens *auth.TokenManager) {
	authed := middleware.AuthMiddleware(tokens)
	admin := middleware.AdminOnly()

	RegisterAuthRoutes(r, c.Auth, authed, admin)
	RegisterUserRoutes(r, c.User, authed, admin)
	RegisterCatalogRoutes(r, c.Category, c.Product, authed, admin)
	RegisterCartRoutes(r, c.Cart, authed)
	RegisterOrderRoutes(r, c.Order, authed, admin)
	RegisterReviewRoutes(r, c.Review, authed, admin)
	RegisterWishlistRoutes(r, c.Wishlist, authed)
	RegisterDashboardRoutes(r, c.Dashboard, authed, admin)
}

func RegisterAuthRoutes(r *gin.Engine, ac *controllers.AuthController, authed, admin gin.HandlerFunc) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", ac.Register)
		authRoutes.POST("/login", ac.Login)
		authRoutes.POST("/admin/login", ac.AdminLogin)
		authRoutes.POST("/refresh", ac.Refresh)
		authRoutes.POST("/forgot-password", ac.ForgotPassword)
		authRoutes.POST("/reset-password", ac.ResetPassword)

		authRoutes.POST("/logout", authed, ac.Logout)
		authRoutes.POST("/change-password", authed, ac.ChangePassword)
		authRoutes.GET("/profile", authed, ac.Profile)
		authRoutes.POST("/admin/register", authed, admin, ac.RegisterAdmin)
	}
}

func RegisterUserRoutes(r *gin.Engine, uc *controllers.UserController, authed, admin gin.HandlerFunc) {
	userRoutes := r.Group("/users")
	userRoutes.Use(authed)
	{
		userRoutes.GET("/profile", uc.GetProfile)
		userRoutes.PATCH("/profile", uc.UpdateProfile)

		userRoutes.GET("", admin, uc.ListUsers)
		userRoutes.PATCH("/:id", admin, uc.UpdateUser)
		userRoutes.DELETE("/:id", admin, uc.DeleteUser)
	}
}

func RegisterCatalogRoutes(r *gin.Engine, cc *controllers.CategoryController, pc *controllers.ProductController, authed, admin gin.HandlerFunc) {
	categoryRoutes := r.Group("/categories")
	{
		categoryRoutes.GET("", cc.ListCategories)
		categoryRoutes.GET("/:id", cc.GetCategory)
		categoryRoutes.POST("", authed, admin, cc.CreateCategory)
		categoryRoutes.PATCH("/:id", authed, admin, cc.UpdateCategory)
		categoryRoutes.DELETE("/:id", authed, admin, cc.DeleteCategory)
	}

	productRoutes := r.Group("/products")
	{
		productRoutes.GET("", pc.ListProducts)
		productRoutes.GET("/:id", pc.GetProduct)
		productRoutes.GET("/:id/related", pc.GetRelatedProducts)
		productRoutes.POST("", authed, admin, pc.CreateProduct)
		productRoutes.PATCH("/:id", authed, admin, pc.UpdateProduct)
		productRoutes.DELETE("/:id", authed, admin, pc.DeleteProduct)
		productRoutes.POST("/:id/images/presign", authed, admin, pc.PresignImageUpload)
	}
}

func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController, authed gin.HandlerFunc) {
	cartRoutes := r.Group("/cart")
	cartRoutes.Use(authed)
	{
		cartRoutes.GET("", cc.GetCart)
		cartRoutes.POST("", cc.AddToCart)
		cartRoutes.PATCH("", cc.UpdateQuantity)
		cartRoutes.DELETE("", cc.ClearCart)
		cartRoutes.DELETE("/items/:productId", cc.RemoveItem)
	}
}

func RegisterOrderRoutes(r *gin.Engine, oc *controllers.OrderController, authed, admin gin.HandlerFunc) {
	orderRoutes := r.Group("/orders")
	orderRoutes.Use(authed)
	{
		orderRoutes.POST("/checkout", oc.Checkout)
		orderRoutes.GET("/my-orders", oc.ListMyOrders)
		orderRoutes.GET("/my-orders/:id", oc.GetOrder)
		orderRoutes.PATCH("/my-orders/:id/cancel", oc.CancelOrder)

		adminRoutes := orderRoutes.Group("/admin")
		adminRoutes.Use(admin)
		adminRoutes.GET("/all", oc.ListAllOrders)
		adminRoutes.PATCH("/:id/status", oc.UpdateOrderStatus)
	}
}

func RegisterReviewRoutes(r *gin.Engine, rc *controllers.ReviewController, authed, admin gin.HandlerFunc) {
	reviewRoutes := r.Group("/reviews")
	{
		reviewRoutes.GET("/product/:productId", rc.GetProductReviews)
		reviewRoutes.POST("", authed, rc.CreateReview)
		reviewRoutes.DELETE("/:id", authed, rc.DeleteReview)

		reviewRoutes.GET("/admin/pending", authed, admin, rc.ListPendingReviews)
		reviewRoutes.PATCH("/admin/:id/status", authed, admin, rc.SetReviewStatus)
	}
}

func RegisterWishlistRoutes(r *gin.Engine, wc *controllers.WishlistController, authed gin.HandlerFunc) {
	wishlistRoutes := r.Group("/wishlist")
	wishlistRoutes.Use(authed)
	{
		wishlistRoutes.GET("", wc.GetWishlist)
		wishlistRoutes.POST("/:productId", wc.ToggleProduct)
		wishlistRoutes.DELETE("", wc.ClearWishlist)
	}
}

func RegisterDashboardRoutes(r *gin.Engine, dc *controllers.DashboardController, authed, admin gin.HandlerFunc) {
	r.GET("/dashboard/admin/stats", authed, admin, dc.GetAdminStats)
}
