package routes

import (
	cartControllers "github.com/JhonatanVeri/PeakSport/controllers/cart"
	productcontroller "github.com/JhonatanVeri/PeakSport/controllers/product"
	reviewControllers "github.com/JhonatanVeri/PeakSport/controllers/review"
	userControllers "github.com/JhonatanVeri/PeakSport/controllers/user"
	"github.com/JhonatanVeri/PeakSport/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAPIRoutes registers all "/api/*" storefront endpoints.
func SetupAPIRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api")
	{
		// ──────────────── Browse Products ────────────────
		api.GET("/products", productcontroller.GetProducts(db))                 // GET /api/products
		api.GET("/products/recommended", productcontroller.GetRecommended(db))  // GET /api/products/recommended
		api.GET("/products/slug/:slug", productcontroller.GetProductBySlug(db)) // GET /api/products/slug/:slug
		api.GET("/categories", productcontroller.GetAllCategories(db))          // GET /api/categories

		// ──────────────── Product Reviews ────────────────
		api.GET("/products/:id/reviews", middleware.OptionalUser, reviewControllers.ListProductReviews(db))
		api.GET("/products/:id/reviews/stats", reviewControllers.ProductStats(db))
		api.POST("/products/:id/reviews", middleware.RequireUser, reviewControllers.CreateReview(db))
		api.GET("/reviews/:id", reviewControllers.GetReview(db))
		api.PUT("/reviews/:id", middleware.RequireUser, reviewControllers.UpdateReview(db))
		api.DELETE("/reviews/:id", middleware.RequireUser, reviewControllers.DeleteReview(db))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := api.Group("/cart")
		cartGroup.Use(middleware.CartIdentity)
		{
			cartGroup.GET("", cartControllers.GetCart(db))                          // GET /api/cart
			cartGroup.GET("/totals", cartControllers.GetTotals(db))                 // GET /api/cart/totals
			cartGroup.POST("/items", cartControllers.AddItem(db))                   // POST /api/cart/items
			cartGroup.PUT("/items/:item_id", cartControllers.UpdateQuantity(db))    // PUT /api/cart/items/:item_id
			cartGroup.DELETE("/items/:item_id", cartControllers.RemoveItem(db))     // DELETE /api/cart/items/:item_id
			cartGroup.DELETE("", cartControllers.ClearCart(db))                     // DELETE /api/cart
			cartGroup.POST("/migrate", cartControllers.MigrateCart(db))             // POST /api/cart/migrate
		}

		// ──────────────── User Profile ────────────────
		userGroup := api.Group("/user")
		userGroup.Use(middleware.RequireUser)
		{
			userGroup.GET("", userControllers.GetUser(db))                 // GET /api/user
			userGroup.PUT("", userControllers.UpdateUser(db))              // PUT /api/user
			userGroup.GET("/reviews", reviewControllers.MyReviews(db))     // GET /api/user/reviews
		}
	}
}
