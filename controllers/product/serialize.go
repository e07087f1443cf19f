package productcontroller

import (
	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/JhonatanVeri/PeakSport/services/review"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CategoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Card is the storefront-facing product shape: prices in decimal units, the
// cover image resolved, and the review summary attached.
type Card struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	Price        float64               `json:"price"`
	PriceCents   int64                 `json:"price_cents"`
	Currency     string                `json:"currency"`
	Stock        int                   `json:"stock"`
	SKU          string                `json:"sku"`
	Active       bool                  `json:"active"`
	Views        int                   `json:"views"`
	CoverImage   *models.ProductImage  `json:"cover_image,omitempty"`
	Images       []models.ProductImage `json:"images"`
	Categories   []CategoryRef         `json:"categories"`
	RatingAvg    float64               `json:"rating_average"`
	TotalReviews int64                 `json:"total_reviews"`
}

func centsToUnits(cents int64) float64 {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).Round(2).InexactFloat64()
}

// ToCard serializes a product (with images and categories preloaded) plus
// its review aggregate.
func ToCard(db *gorm.DB, p models.Product) Card {
	stats := review.ProductStatistics(db, p.ID)

	categories := make([]CategoryRef, 0, len(p.Categories))
	for _, cat := range p.Categories {
		categories = append(categories, CategoryRef{ID: cat.ID, Name: cat.Name, Slug: cat.Slug})
	}

	images := p.Images
	if images == nil {
		images = []models.ProductImage{}
	}

	return Card{
		ID:           p.ID,
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        centsToUnits(p.PriceCents),
		PriceCents:   p.PriceCents,
		Currency:     p.Currency,
		Stock:        p.Stock,
		SKU:          p.SKU,
		Active:       p.Active,
		Views:        p.Views,
		CoverImage:   p.CoverImage(),
		Images:       images,
		Categories:   categories,
		RatingAvg:    stats.Average,
		TotalReviews: stats.Total,
	}
}

func toCards(db *gorm.DB, products []models.Product) []Card {
	cards := make([]Card, 0, len(products))
	for _, p := range products {
		cards = append(cards, ToCard(db, p))
	}
	return cards
}
