package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/JhonatanVeri/PeakSport/services/cart"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /admin/user-cart/:user_id
func GetAdminUserCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid user id"})
			return
		}

		var activeCart models.Cart
		err = db.Where("user_id = ? AND active = ?", uint(userID), true).
			First(&activeCart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "No active cart for user"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch cart"})
			}
			return
		}

		items, err := cart.ListItems(db, activeCart.ID)
		if err != nil {
			respondError(c, err, "Failed to fetch cart items")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"cart":    cart.SerializeCart(&activeCart, items),
			"totals":  cart.ComputeTotals(db, activeCart.ID),
		})
	}
}
