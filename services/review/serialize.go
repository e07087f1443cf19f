package review

import (
	"fmt"
	"time"

	"github.com/JhonatanVeri/PeakSport/models"
)

// DTO is the client-facing shape of a review.
type DTO struct {
	ID               uint      `json:"id"`
	ProductID        uint      `json:"product_id"`
	UserID           uint      `json:"user_id"`
	UserName         string    `json:"user_name"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	TimeAgo          string    `json:"time_ago"`
}

// Serialize maps a review (with its author preloaded, when present) to the
// client-facing shape.
func Serialize(r models.Review) DTO {
	userName := "User"
	if r.User != nil && r.User.FullName != "" {
		userName = r.User.FullName
	}
	return DTO{
		ID:               r.ID,
		ProductID:        r.ProductID,
		UserID:           r.UserID,
		UserName:         userName,
		Rating:           r.Rating,
		Comment:          r.Comment,
		VerifiedPurchase: r.VerifiedPurchase,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		TimeAgo:          timeAgo(r.CreatedAt, time.Now()),
	}
}

// SerializeAll maps a page of reviews.
func SerializeAll(reviews []models.Review) []DTO {
	out := make([]DTO, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, Serialize(r))
	}
	return out
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// timeAgo renders a coarse human-readable elapsed time since creation.
func timeAgo(createdAt, now time.Time) string {
	if createdAt.IsZero() {
		return "just now"
	}
	d := now.Sub(createdAt)

	switch {
	case d >= 365*24*time.Hour:
		years := int(d.Hours() / 24 / 365)
		return fmt.Sprintf("%d year%s ago", years, plural(years))
	case d >= 30*24*time.Hour:
		months := int(d.Hours() / 24 / 30)
		return fmt.Sprintf("%d month%s ago", months, plural(months))
	case d >= 24*time.Hour:
		days := int(d.Hours() / 24)
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	case d >= time.Hour:
		hours := int(d.Hours())
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case d >= time.Minute:
		minutes := int(d.Minutes())
		return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
	default:
		return "just now"
	}
}
