package productcontroller

import (
	"net/http"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductImageInput struct {
	URL     string `json:"url" binding:"required"`
	AltText string `json:"alt_text"`
	IsCover bool   `json:"is_cover"`
}

type CreateProductInput struct {
	Name        string              `json:"name" binding:"required"`
	Slug        string              `json:"slug" binding:"required"`
	Description string              `json:"description"`
	PriceCents  int64               `json:"price_cents" binding:"required"`
	Currency    string              `json:"currency"`
	Stock       int                 `json:"stock"`
	SKU         string              `json:"sku"`
	Active      *bool               `json:"active"`
	CategoryIDs []uint              `json:"category_ids"`
	Images      []ProductImageInput `json:"images"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name, slug and price_cents are required"})
			return
		}
		if input.PriceCents < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "price_cents must not be negative"})
			return
		}

		var categories []models.Category
		if len(input.CategoryIDs) > 0 {
			if err := db.Where("id IN ?", input.CategoryIDs).Find(&categories).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch categories"})
				return
			}
		}

		active := true
		if input.Active != nil {
			active = *input.Active
		}
		currency := input.Currency
		if currency == "" {
			currency = "COP"
		}

		product := models.Product{
			Name:        input.Name,
			Slug:        input.Slug,
			Description: input.Description,
			PriceCents:  input.PriceCents,
			Currency:    currency,
			Stock:       input.Stock,
			SKU:         input.SKU,
			Active:      active,
			Categories:  categories,
		}
		for i, img := range input.Images {
			product.Images = append(product.Images, models.ProductImage{
				URL:      img.URL,
				AltText:  img.AltText,
				IsCover:  img.IsCover,
				Position: i,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create product"})
			return
		}
		// The column default is true; an explicit false needs its own write.
		if !active {
			if err := db.Model(&product).Update("active", false).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create product"})
				return
			}
			product.Active = false
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"product": ToCard(db, product),
		})
	}
}
