package productcontroller

import (
	"errors"
	"net/http"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/products/slug/:slug
//
// Public product detail. Inactive products stay hidden from the storefront;
// the admin surface reads them through its own endpoints.
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Product slug is required"})
			return
		}

		var product models.Product
		err := db.Preload("Categories").Preload("Images").
			Where("slug = ?", slug).
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch product"})
			}
			return
		}

		if !product.Active {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			return
		}

		// View counter, best effort.
		db.Model(&product).UpdateColumn("views", gorm.Expr("views + 1"))

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"product": ToCard(db, product),
		})
	}
}
