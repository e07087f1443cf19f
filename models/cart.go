package models

import "time"

// Cart belongs to either an authenticated user or an anonymous session,
// never both in practice. Exactly one active cart per owner identity is an
// application-level invariant, not a database constraint.
type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint      `gorm:"index" json:"user_id"`
	SessionID *string    `gorm:"index;size:255" json:"session_id"`
	Active    bool       `gorm:"not null;default:true" json:"active"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem freezes the product price at insertion time; it is never
// recomputed from the current product price.
type CartItem struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID         uint      `gorm:"index;not null" json:"cart_id"`
	ProductID      uint      `gorm:"index;not null" json:"product_id"`
	Quantity       int       `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null;check:unit_price_cents >= 0" json:"unit_price_cents"`
	Product        *Product  `gorm:"foreignKey:ProductID" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
