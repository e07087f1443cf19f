package review

import (
	"math"

	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/models"
	"gorm.io/gorm"
)

// Statistics aggregates a product's reviews: count, average rating and the
// star distribution with percentages. Ratings with no reviews stay
// zero-filled.
type Statistics struct {
	Total        int64           `json:"total"`
	Average      float64         `json:"average"`
	Distribution map[int]int64   `json:"distribution"`
	Percentages  map[int]float64 `json:"percentages"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func emptyStatistics() Statistics {
	s := Statistics{
		Distribution: map[int]int64{},
		Percentages:  map[int]float64{},
	}
	for star := 1; star <= 5; star++ {
		s.Distribution[star] = 0
		s.Percentages[star] = 0
	}
	return s
}

// ProductStatistics computes the review aggregate for a product. Zero
// reviews yield an all-zero result, not an error.
func ProductStatistics(db *gorm.DB, productID uint) Statistics {
	var reviews []models.Review
	if err := db.Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		logger.L.Error("product statistics failed", "product_id", productID, "err", err)
		return emptyStatistics()
	}

	stats := emptyStatistics()
	stats.Total = int64(len(reviews))
	if stats.Total == 0 {
		return stats
	}

	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
		stats.Distribution[r.Rating]++
	}
	stats.Average = round1(float64(sum) / float64(stats.Total))

	for star := 1; star <= 5; star++ {
		stats.Percentages[star] = round1(float64(stats.Distribution[star]) / float64(stats.Total) * 100)
	}
	return stats
}
