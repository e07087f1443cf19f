package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description string         `json:"description"`
	PriceCents  int64          `gorm:"not null;check:price_cents >= 0" json:"price_cents"` // stored in cents, presented in decimal units
	Currency    string         `gorm:"not null;default:COP" json:"currency"`
	Stock       int            `gorm:"not null;default:0" json:"stock"`
	SKU         string         `json:"sku"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	Views       int            `gorm:"not null;default:0" json:"views"`
	Categories  []Category     `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	Images      []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
	AltText   string `json:"alt_text"`
	IsCover   bool   `gorm:"not null;default:false" json:"is_cover"`
	Position  int    `gorm:"not null;default:0" json:"position"`
}

// CoverImage returns the flagged cover, falling back to the first image.
func (p *Product) CoverImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsCover {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}
