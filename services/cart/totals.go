package cart

import (
	"errors"

	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// ShippingFlatCents is charged below the free-shipping threshold.
	ShippingFlatCents = 1500
	// FreeShippingThresholdCents waives shipping at or above this subtotal.
	FreeShippingThresholdCents = 100000
)

var taxRate = decimal.NewFromFloat(0.10)

// Totals carries the cart's monetary summary in decimal currency units,
// converted from the integer cents used in storage.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	Shipping     float64 `json:"shipping"`
	Total        float64 `json:"total"`
	TotalItems   int     `json:"total_items"`
	FreeShipping bool    `json:"free_shipping"`
}

// centsToUnits converts integer cents to decimal currency units rounded to
// two places.
func centsToUnits(cents decimal.Decimal) float64 {
	return cents.Div(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// ComputeTotals sums the cart and applies tax and shipping. A missing cart
// (or a read failure) yields an all-zero result rather than an error so the
// storefront can always render a summary; no shipping is charged for a cart
// that does not exist.
func ComputeTotals(db *gorm.DB, cartID uint) Totals {
	var c models.Cart
	if err := db.First(&c, cartID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.L.Error("compute totals failed", "cart_id", cartID, "err", err)
		}
		return Totals{}
	}

	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		logger.L.Error("compute totals failed", "cart_id", cartID, "err", err)
		return Totals{}
	}

	var subtotalCents int64
	totalItems := 0
	for _, item := range items {
		subtotalCents += int64(item.Quantity) * item.UnitPriceCents
		totalItems += item.Quantity
	}

	subtotal := decimal.NewFromInt(subtotalCents)
	tax := subtotal.Mul(taxRate)

	freeShipping := subtotalCents >= FreeShippingThresholdCents
	shipping := decimal.NewFromInt(ShippingFlatCents)
	if freeShipping {
		shipping = decimal.Zero
	}

	total := subtotal.Add(tax).Add(shipping)

	return Totals{
		Subtotal:     centsToUnits(subtotal),
		Tax:          centsToUnits(tax),
		Shipping:     centsToUnits(shipping),
		Total:        centsToUnits(total),
		TotalItems:   totalItems,
		FreeShipping: freeShipping,
	}
}
