package models

import "time"

// Review is unique per (product, user); the uniqueness is enforced by a
// pre-insert check in the review engine, not by a database constraint.
type Review struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID        uint      `gorm:"index:idx_reviews_product_created;not null" json:"product_id"`
	UserID           uint      `gorm:"index:idx_reviews_user_created;not null" json:"user_id"`
	Rating           int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment          string    `gorm:"type:text;not null" json:"comment"`
	VerifiedPurchase bool      `gorm:"not null;default:false" json:"verified_purchase"`
	User             *User     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt        time.Time `gorm:"index:idx_reviews_product_created;index:idx_reviews_user_created" json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
