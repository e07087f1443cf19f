package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, API, and Admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public Auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Storefront API routes (catalog public, cart/reviews identity-aware)
	SetupAPIRoutes(r, db)

	// Admin routes (API-Key-protected)
	SetupAdminRoutes(r, db)
}
