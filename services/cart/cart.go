// Package cart owns the shopping-cart lifecycle: lookup-or-create per owner
// identity, line-item merging, quantity updates, session-to-user migration
// and totals. Handlers stay thin; every rule lives here.
package cart

import (
	"errors"
	"fmt"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/models"
	"gorm.io/gorm"
)

// persistence logs a raw database error and translates it so it never
// crosses the engine boundary.
func persistence(op string, err error) error {
	logger.L.Error("cart engine persistence failure", "op", op, "err", err)
	return fmt.Errorf("%w: %s", apperrors.ErrPersistence, op)
}

// GetOrCreateActive returns the active cart for the given owner identity,
// creating one if none exists. The user identity wins when both are present.
func GetOrCreateActive(db *gorm.DB, userID *uint, sessionID *string) (*models.Cart, error) {
	if userID == nil && (sessionID == nil || *sessionID == "") {
		return nil, fmt.Errorf("%w: a user or session identifier is required", apperrors.ErrValidation)
	}

	query := db.Where("active = ?", true)
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	} else {
		query = query.Where("session_id = ?", *sessionID)
	}

	var cart models.Cart
	err := query.First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistence("lookup active cart", err)
	}

	cart = models.Cart{UserID: userID, SessionID: sessionID, Active: true}
	if err := db.Create(&cart).Error; err != nil {
		return nil, persistence("create cart", err)
	}

	logger.L.Info("cart created", "cart_id", cart.ID, "user_id", userID, "session_id", sessionID)
	return &cart, nil
}

// ListItems returns the cart's items ordered by insertion, with product and
// image data fully materialized.
func ListItems(db *gorm.DB, cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Product").Preload("Product.Images").
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, persistence("list cart items", err)
	}
	return items, nil
}

// AddItem adds a product to the cart. If the product is already in the cart
// the quantities merge; stock is validated against the merged quantity. New
// lines freeze the product's current price as the unit price.
func AddItem(db *gorm.DB, cartID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", apperrors.ErrValidation)
	}

	var result *models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.First(&cart, cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart %d", apperrors.ErrNotFound, cartID)
			}
			return persistence("load cart", err)
		}

		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
			}
			return persistence("load product", err)
		}
		if !product.Active {
			return fmt.Errorf("%w: product %d", apperrors.ErrProductInactive, productID)
		}
		if product.Stock < quantity {
			return fmt.Errorf("%w: available %d, requested %d", apperrors.ErrInsufficientStock, product.Stock, quantity)
		}

		var item models.CartItem
		err := tx.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
		if err == nil {
			// Quantities merge, they do not replace.
			merged := item.Quantity + quantity
			if product.Stock < merged {
				return fmt.Errorf("%w: available %d, requested %d", apperrors.ErrInsufficientStock, product.Stock, merged)
			}
			item.Quantity = merged
			if err := tx.Save(&item).Error; err != nil {
				return persistence("update cart item", err)
			}
			result = &item
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return persistence("load cart item", err)
		}

		newItem := models.CartItem{
			CartID:         cartID,
			ProductID:      productID,
			Quantity:       quantity,
			UnitPriceCents: product.PriceCents,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			return persistence("create cart item", err)
		}
		result = &newItem
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L.Info("cart item added", "cart_id", cartID, "product_id", productID, "quantity", result.Quantity)
	return result, nil
}

// UpdateQuantity replaces an item's quantity in place after re-checking the
// linked product's current stock.
func UpdateQuantity(db *gorm.DB, itemID uint, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be greater than zero", apperrors.ErrValidation)
	}

	var result *models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart item %d", apperrors.ErrNotFound, itemID)
			}
			return persistence("load cart item", err)
		}

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, item.ProductID)
			}
			return persistence("load product", err)
		}
		if product.Stock < quantity {
			return fmt.Errorf("%w: available %d, requested %d", apperrors.ErrInsufficientStock, product.Stock, quantity)
		}

		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return persistence("update cart item", err)
		}
		result = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes a single item. The delete is idempotent; the boolean
// reports whether an item was actually found and removed.
func RemoveItem(db *gorm.DB, itemID uint) (bool, error) {
	result := db.Delete(&models.CartItem{}, itemID)
	if result.Error != nil {
		return false, persistence("delete cart item", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Clear bulk-deletes every item in the cart.
func Clear(db *gorm.DB, cartID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.First(&cart, cartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: cart %d", apperrors.ErrNotFound, cartID)
			}
			return persistence("load cart", err)
		}
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return persistence("clear cart", err)
		}
		logger.L.Info("cart cleared", "cart_id", cartID)
		return nil
	})
}

// MigrateSessionCart transfers an anonymous session cart into the user's
// durable cart at login. Items whose product already exists in the target
// cart have their quantities summed; other items are re-parented. The source
// cart is marked inactive, never deleted. An absent or empty session cart is
// a successful no-op.
func MigrateSessionCart(db *gorm.DB, sessionID string, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var src models.Cart
		err := tx.Preload("Items").
			Where("session_id = ? AND active = ?", sessionID, true).
			First(&src).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return persistence("load session cart", err)
		}
		if len(src.Items) == 0 {
			return nil
		}

		var dst models.Cart
		err = tx.Where("user_id = ? AND active = ?", userID, true).First(&dst).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dst = models.Cart{UserID: &userID, Active: true}
			if err := tx.Create(&dst).Error; err != nil {
				return persistence("create user cart", err)
			}
		} else if err != nil {
			return persistence("load user cart", err)
		}

		for _, srcItem := range src.Items {
			var existing models.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", dst.ID, srcItem.ProductID).
				First(&existing).Error
			if err == nil {
				existing.Quantity += srcItem.Quantity
				if err := tx.Save(&existing).Error; err != nil {
					return persistence("merge cart item", err)
				}
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return persistence("load target cart item", err)
			}
			if err := tx.Model(&models.CartItem{}).
				Where("id = ?", srcItem.ID).
				Update("cart_id", dst.ID).Error; err != nil {
				return persistence("re-parent cart item", err)
			}
		}

		if err := tx.Model(&src).Update("active", false).Error; err != nil {
			return persistence("deactivate session cart", err)
		}

		logger.L.Info("session cart migrated", "session_id", sessionID, "user_id", userID, "items", len(src.Items))
		return nil
	})
}
