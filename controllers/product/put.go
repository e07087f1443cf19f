package productcontroller

import (
	"errors"
	"net/http"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name        *string             `json:"name"`
	Slug        *string             `json:"slug"`
	Description *string             `json:"description"`
	PriceCents  *int64              `json:"price_cents"`
	Currency    *string             `json:"currency"`
	Stock       *int                `json:"stock"`
	SKU         *string             `json:"sku"`
	Active      *bool               `json:"active"`
	CategoryIDs []uint              `json:"category_ids"`
	Images      []ProductImageInput `json:"images"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("Images").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch product"})
			}
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Slug != nil {
			product.Slug = *input.Slug
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.PriceCents != nil {
			if *input.PriceCents < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "price_cents must not be negative"})
				return
			}
			product.PriceCents = *input.PriceCents
		}
		if input.Currency != nil {
			product.Currency = *input.Currency
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.SKU != nil {
			product.SKU = *input.SKU
		}
		if input.Active != nil {
			product.Active = *input.Active
		}

		tx := db.Begin()

		if err := tx.Save(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update product"})
			return
		}

		if input.CategoryIDs != nil {
			var categories []models.Category
			if err := tx.Where("id IN ?", input.CategoryIDs).Find(&categories).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch categories"})
				return
			}
			if err := tx.Model(&product).Association("Categories").Replace(categories); err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update categories"})
				return
			}
		}

		if input.Images != nil {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update images"})
				return
			}
			for i, img := range input.Images {
				image := models.ProductImage{
					ProductID: product.ID,
					URL:       img.URL,
					AltText:   img.AltText,
					IsCover:   img.IsCover,
					Position:  i,
				}
				if err := tx.Create(&image).Error; err != nil {
					tx.Rollback()
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update images"})
					return
				}
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update product"})
			return
		}

		var updated models.Product
		if err := db.Preload("Images").Preload("Categories").First(&updated, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"product": ToCard(db, updated),
		})
	}
}
