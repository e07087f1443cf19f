// Package review owns the product-review lifecycle: creation with
// one-review-per-user-per-product, partial updates, author-checked deletion,
// paginated listings and per-product statistics.
package review

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/models"
	"gorm.io/gorm"
)

const minCommentLength = 10

// Sort orders accepted by ListForProduct.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortHighestRated = "highest_rated"
	SortLowestRated  = "lowest_rated"
)

func persistence(op string, err error) error {
	logger.L.Error("review engine persistence failure", "op", op, "err", err)
	return fmt.Errorf("%w: %s", apperrors.ErrPersistence, op)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", apperrors.ErrValidation)
	}
	return nil
}

func validateComment(comment string) (string, error) {
	comment = strings.TrimSpace(comment)
	// Length is counted in characters, not bytes: accented comments must not
	// pass on byte count alone.
	if utf8.RuneCountInString(comment) < minCommentLength {
		return "", fmt.Errorf("%w: comment must be at least %d characters", apperrors.ErrValidation, minCommentLength)
	}
	return comment, nil
}

// Create inserts a new review after validating the rating, the comment, the
// existence of both product and user, and the one-review-per-(product,user)
// rule. Purchase verification is not wired yet, so VerifiedPurchase is
// always false at creation.
// TODO: set VerifiedPurchase from the user's order history once orders land.
func Create(db *gorm.DB, productID, userID uint, rating int, comment string) (*models.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	comment, err := validateComment(comment)
	if err != nil {
		return nil, err
	}

	var result *models.Review
	err = db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", apperrors.ErrNotFound, productID)
			}
			return persistence("load product", err)
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", apperrors.ErrNotFound, userID)
			}
			return persistence("load user", err)
		}

		var existing models.Review
		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&existing).Error
		if err == nil {
			return fmt.Errorf("%w: review for product %d by user %d", apperrors.ErrDuplicate, productID, userID)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return persistence("check existing review", err)
		}

		r := models.Review{
			ProductID:        productID,
			UserID:           userID,
			Rating:           rating,
			Comment:          comment,
			VerifiedPurchase: false,
		}
		if err := tx.Create(&r).Error; err != nil {
			return persistence("create review", err)
		}
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L.Info("review created", "review_id", result.ID, "product_id", productID, "user_id", userID)
	return result, nil
}

// Get returns a review by ID with its author preloaded.
func Get(db *gorm.DB, id uint) (*models.Review, error) {
	var r models.Review
	if err := db.Preload("User").First(&r, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review %d", apperrors.ErrNotFound, id)
		}
		return nil, persistence("load review", err)
	}
	return &r, nil
}

// Update applies a partial update: only rating and comment can change and
// each is validated only when supplied. Author authorization belongs to the
// caller.
func Update(db *gorm.DB, id uint, rating *int, comment *string) (*models.Review, error) {
	if rating != nil {
		if err := validateRating(*rating); err != nil {
			return nil, err
		}
	}
	var trimmed string
	if comment != nil {
		var err error
		trimmed, err = validateComment(*comment)
		if err != nil {
			return nil, err
		}
	}

	var result *models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var r models.Review
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: review %d", apperrors.ErrNotFound, id)
			}
			return persistence("load review", err)
		}

		if rating != nil {
			r.Rating = *rating
		}
		if comment != nil {
			r.Comment = trimmed
		}
		if err := tx.Save(&r).Error; err != nil {
			return persistence("update review", err)
		}
		result = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a review. When actingUserID is given it must match the
// review's author; a nil actingUserID means the caller already performed
// authorization.
func Delete(db *gorm.DB, id uint, actingUserID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var r models.Review
		if err := tx.First(&r, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: review %d", apperrors.ErrNotFound, id)
			}
			return persistence("load review", err)
		}
		if actingUserID != nil && r.UserID != *actingUserID {
			return fmt.Errorf("%w: user %d is not the author of review %d", apperrors.ErrForbidden, *actingUserID, id)
		}
		if err := tx.Delete(&r).Error; err != nil {
			return persistence("delete review", err)
		}
		logger.L.Info("review deleted", "review_id", id)
		return nil
	})
}

// ListForProduct returns one page of a product's reviews plus the total
// count. Rating sorts break ties newest-first.
func ListForProduct(db *gorm.DB, productID uint, page, perPage int, sort string) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("product_id = ?", productID)

	switch sort {
	case SortOldest:
		query = query.Order("created_at asc")
	case SortHighestRated:
		query = query.Order("rating desc").Order("created_at desc")
	case SortLowestRated:
		query = query.Order("rating asc").Order("created_at desc")
	default: // SortNewest
		query = query.Order("created_at desc")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, persistence("count product reviews", err)
	}

	var reviews []models.Review
	err := query.Preload("User").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, persistence("list product reviews", err)
	}
	return reviews, total, nil
}

// ListForUser returns one page of a user's reviews, newest first.
func ListForUser(db *gorm.DB, userID uint, page, perPage int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("user_id = ?", userID).Order("created_at desc")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, persistence("count user reviews", err)
	}

	var reviews []models.Review
	err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&reviews).Error
	if err != nil {
		return nil, 0, persistence("list user reviews", err)
	}
	return reviews, total, nil
}

// CanReview reports whether the user has not yet reviewed the product.
func CanReview(db *gorm.DB, productID, userID uint) bool {
	var count int64
	err := db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	if err != nil {
		logger.L.Error("can-review check failed", "product_id", productID, "user_id", userID, "err", err)
		return false
	}
	return count == 0
}
