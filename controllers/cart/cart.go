package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/JhonatanVeri/PeakSport/services/cart"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type UpdateQuantityInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

type MigrateInput struct {
	SessionID string `json:"session_id" binding:"required"`
}

// currentIdentity reads what the CartIdentity middleware resolved.
func currentIdentity(c *gin.Context) (*uint, *string) {
	var userID *uint
	var sessionID *string
	if v, ok := c.Get("user_id"); ok {
		id := v.(uint)
		userID = &id
	}
	if v, ok := c.Get("session_id"); ok {
		sid := v.(string)
		sessionID = &sid
	}
	return userID, sessionID
}

// respondError translates an engine error into the JSON envelope. Internal
// failures get a generic message; everything else is user-correctable and
// keeps its text.
func respondError(c *gin.Context, err error, internalMsg string) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = internalMsg
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

// GET /api/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, sessionID := currentIdentity(c)

		current, err := cart.GetOrCreateActive(db, userID, sessionID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}

		items, err := cart.ListItems(db, current.ID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"cart":    cart.SerializeCart(current, items),
			"totals":  cart.ComputeTotals(db, current.ID),
		})
	}
}

// POST /api/cart/items
func AddItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "product_id and quantity are required"})
			return
		}

		userID, sessionID := currentIdentity(c)
		current, err := cart.GetOrCreateActive(db, userID, sessionID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}

		item, err := cart.AddItem(db, current.ID, input.ProductID, input.Quantity)
		if err != nil {
			respondError(c, err, "Failed to add product to cart")
			return
		}

		totals := cart.ComputeTotals(db, current.ID)
		logger.L.Info("product added to cart", "cart_id", current.ID, "product_id", input.ProductID)

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"message":          "Product added to cart",
			"item":             cart.SerializeItem(*item),
			"cart_total_items": totals.TotalItems,
			"totals":           totals,
		})
	}
}

// PUT /api/cart/items/:item_id
func UpdateQuantity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid item_id"})
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "quantity is required"})
			return
		}

		item, err := cart.UpdateQuantity(db, uint(itemID), input.Quantity)
		if err != nil {
			respondError(c, err, "Failed to update quantity")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Quantity updated",
			"item":    cart.SerializeItem(*item),
			"totals":  cart.ComputeTotals(db, item.CartID),
		})
	}
}

// DELETE /api/cart/items/:item_id
func RemoveItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid item_id"})
			return
		}

		// Capture the owning cart before the delete so totals can be
		// recomputed afterwards.
		var item models.CartItem
		if err := db.First(&item, uint(itemID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to remove product"})
			return
		}

		removed, err := cart.RemoveItem(db, uint(itemID))
		if err != nil {
			respondError(c, err, "Failed to remove product")
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Cart item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Product removed from cart",
			"totals":  cart.ComputeTotals(db, item.CartID),
		})
	}
}

// DELETE /api/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, sessionID := currentIdentity(c)

		current, err := cart.GetOrCreateActive(db, userID, sessionID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}

		if err := cart.Clear(db, current.ID); err != nil {
			respondError(c, err, "Failed to clear cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Cart cleared"})
	}
}

// GET /api/cart/totals
func GetTotals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, sessionID := currentIdentity(c)

		current, err := cart.GetOrCreateActive(db, userID, sessionID)
		if err != nil {
			respondError(c, err, "Failed to compute totals")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"totals":  cart.ComputeTotals(db, current.ID),
		})
	}
}

// POST /api/cart/migrate
//
// Called right after login: folds the caller's pre-login session cart into
// their durable user cart.
func MigrateCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "You must be logged in"})
			return
		}
		userID := userIDVal.(uint)

		var input MigrateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "session_id is required"})
			return
		}

		if err := cart.MigrateSessionCart(db, input.SessionID, userID); err != nil {
			respondError(c, err, "Failed to migrate cart")
			return
		}

		current, err := cart.GetOrCreateActive(db, &userID, nil)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}
		items, err := cart.ListItems(db, current.ID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Cart migrated",
			"cart":    cart.SerializeCart(current, items),
			"totals":  cart.ComputeTotals(db, current.ID),
		})
	}
}
