package cart

import (
	"time"

	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/shopspring/decimal"
)

// ItemProduct is the product snapshot embedded in a serialized cart item.
type ItemProduct struct {
	ID           uint                 `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	CurrentPrice float64              `json:"current_price"`
	Stock        int                  `json:"stock"`
	Active       bool                 `json:"active"`
	Currency     string               `json:"currency"`
	Image        *models.ProductImage `json:"image,omitempty"`
}

// ItemDTO is the client-facing shape of a cart line. Prices cross the
// boundary in decimal currency units.
type ItemDTO struct {
	ID        uint         `json:"id"`
	CartID    uint         `json:"cart_id"`
	ProductID uint         `json:"product_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	Subtotal  float64      `json:"subtotal"`
	Product   *ItemProduct `json:"product,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// CartDTO is the client-facing cart summary.
type CartDTO struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"user_id"`
	SessionID  *string   `json:"session_id"`
	Active     bool      `json:"active"`
	Items      []ItemDTO `json:"items"`
	TotalItems int       `json:"total_items"`
	Subtotal   float64   `json:"subtotal"`
}

// SerializeItem maps a cart item (with its product preloaded, when present)
// to the client-facing shape.
func SerializeItem(item models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: centsToUnits(decimal.NewFromInt(item.UnitPriceCents)),
		Subtotal:  centsToUnits(decimal.NewFromInt(int64(item.Quantity) * item.UnitPriceCents)),
		CreatedAt: item.CreatedAt,
	}

	if item.Product != nil {
		dto.Product = &ItemProduct{
			ID:           item.Product.ID,
			Name:         item.Product.Name,
			Slug:         item.Product.Slug,
			Description:  item.Product.Description,
			CurrentPrice: centsToUnits(decimal.NewFromInt(item.Product.PriceCents)),
			Stock:        item.Product.Stock,
			Active:       item.Product.Active,
			Currency:     item.Product.Currency,
			Image:        item.Product.CoverImage(),
		}
	}
	return dto
}

// SerializeCart maps a cart and its materialized items to the client-facing
// summary, including the running subtotal.
func SerializeCart(c *models.Cart, items []models.CartItem) CartDTO {
	dto := CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		SessionID: c.SessionID,
		Active:    c.Active,
		Items:     make([]ItemDTO, 0, len(items)),
	}

	var subtotalCents int64
	for _, item := range items {
		dto.Items = append(dto.Items, SerializeItem(item))
		dto.TotalItems += item.Quantity
		subtotalCents += int64(item.Quantity) * item.UnitPriceCents
	}
	dto.Subtotal = centsToUnits(decimal.NewFromInt(subtotalCents))
	return dto
}
