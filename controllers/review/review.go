package reviewControllers

import (
	"net/http"
	"strconv"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/cache"
	"github.com/JhonatanVeri/PeakSport/logger"
	"github.com/JhonatanVeri/PeakSport/services/review"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func respondError(c *gin.Context, err error, internalMsg string) {
	status := apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = internalMsg
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

// pagination normalizes page/per_page query params to sane bounds before
// they reach the engine.
func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 50 {
		perPage = 10
	}
	return page, perPage
}

func totalPages(total int64, perPage int) int64 {
	return (total + int64(perPage) - 1) / int64(perPage)
}

// productStatistics serves the aggregate from Redis when possible, falling
// back to the database and repopulating the cache.
func productStatistics(c *gin.Context, db *gorm.DB, productID uint) review.Statistics {
	var stats review.Statistics
	if cache.GetProductStats(c.Request.Context(), productID, &stats) {
		return stats
	}
	stats = review.ProductStatistics(db, productID)
	cache.SetProductStats(c.Request.Context(), productID, stats)
	return stats
}

// GET /api/products/:id/reviews
func ListProductReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product ID"})
			return
		}

		page, perPage := pagination(c)
		sort := c.DefaultQuery("sort", review.SortNewest)

		reviews, total, err := review.ListForProduct(db, uint(productID), page, perPage, sort)
		if err != nil {
			respondError(c, err, "Failed to fetch reviews")
			return
		}

		canReview := false
		authenticated := false
		if v, ok := c.Get("user_id"); ok {
			authenticated = true
			canReview = review.CanReview(db, uint(productID), v.(uint))
		}

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"reviews":       review.SerializeAll(reviews),
			"total":         total,
			"page":          page,
			"per_page":      perPage,
			"total_pages":   totalPages(total, perPage),
			"statistics":    productStatistics(c, db, uint(productID)),
			"can_review":    canReview,
			"authenticated": authenticated,
		})
	}
}

// POST /api/products/:id/reviews
func CreateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product ID"})
			return
		}
		userID := c.MustGet("user_id").(uint)

		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "rating and comment are required"})
			return
		}

		created, err := review.Create(db, uint(productID), userID, input.Rating, input.Comment)
		if err != nil {
			respondError(c, err, "Failed to create review")
			return
		}

		cache.InvalidateProductStats(c.Request.Context(), uint(productID))
		logger.L.Info("review published", "review_id", created.ID, "user_id", userID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Review published",
			"data":    review.Serialize(*created),
		})
	}
}

// GET /api/reviews/:id
func GetReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
			return
		}

		r, err := review.Get(db, uint(id))
		if err != nil {
			respondError(c, err, "Failed to fetch review")
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "data": review.Serialize(*r)})
	}
}

// PUT /api/reviews/:id
func UpdateReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
			return
		}
		userID := c.MustGet("user_id").(uint)

		existing, err := review.Get(db, uint(id))
		if err != nil {
			respondError(c, err, "Failed to fetch review")
			return
		}
		if existing.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "You cannot edit someone else's review"})
			return
		}

		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil || (input.Rating == nil && input.Comment == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "rating or comment is required"})
			return
		}

		updated, err := review.Update(db, uint(id), input.Rating, input.Comment)
		if err != nil {
			respondError(c, err, "Failed to update review")
			return
		}

		cache.InvalidateProductStats(c.Request.Context(), updated.ProductID)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Review updated",
			"data":    review.Serialize(*updated),
		})
	}
}

// DELETE /api/reviews/:id
func DeleteReview(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid review ID"})
			return
		}
		userID := c.MustGet("user_id").(uint)

		// Resolve the product before the delete so the cached aggregate can
		// be invalidated afterwards.
		existing, err := review.Get(db, uint(id))
		if err != nil {
			respondError(c, err, "Failed to fetch review")
			return
		}

		if err := review.Delete(db, uint(id), &userID); err != nil {
			respondError(c, err, "Failed to delete review")
			return
		}

		cache.InvalidateProductStats(c.Request.Context(), existing.ProductID)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
	}
}

// GET /api/products/:id/reviews/stats
func ProductStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product ID"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    productStatistics(c, db, uint(productID)),
		})
	}
}

// GET /api/user/reviews
func MyReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("user_id").(uint)
		page, perPage := pagination(c)

		reviews, total, err := review.ListForUser(db, userID, page, perPage)
		if err != nil {
			respondError(c, err, "Failed to fetch your reviews")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"reviews":     review.SerializeAll(reviews),
			"total":       total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": totalPages(total, perPage),
		})
	}
}
