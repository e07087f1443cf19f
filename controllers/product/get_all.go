package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/products?q&category_id&active&page&per_page
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Filtering params
		search := c.Query("q")
		categoryID := c.Query("category_id")
		active := c.Query("active")

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
		if page < 1 {
			page = 1
		}
		if perPage < 1 || perPage > 100 {
			perPage = 20
		}

		query := db.Model(&models.Product{}).Preload("Categories").Preload("Images")

		if search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("lower(name) LIKE ? OR lower(description) LIKE ?", likePattern, likePattern)
		}

		if active != "" {
			query = query.Where("active = ?", strings.EqualFold(active, "true"))
		}

		if categoryID != "" {
			cid, err := strconv.ParseUint(categoryID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid category_id"})
				return
			}
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", uint(cid))
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}

		var products []models.Product
		err := query.Order("created_at desc").
			Offset((page - 1) * perPage).
			Limit(perPage).
			Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"products": toCards(db, products),
			"total":    total,
			"page":     page,
			"per_page": perPage,
		})
	}
}

// GET /api/products/recommended
//
// First 8 active products, storefront landing strip.
func GetRecommended(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.Preload("Categories").Preload("Images").
			Where("active = ?", true).
			Order("created_at desc").
			Limit(8).
			Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch recommended products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"products": toCards(db, products),
			"total":    len(products),
		})
	}
}
