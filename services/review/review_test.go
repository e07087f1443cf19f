package review

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/JhonatanVeri/PeakSport/apperrors"
	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Review{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := models.User{Email: email, FullName: "Test User"}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()
	p := models.Product{Name: "Trail Shoe", Slug: slug, PriceCents: 5000, Stock: 10, Active: true}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

const validComment = "Great fit and very comfortable on long runs."

func TestCreateValidation(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	_, err := Create(db, product.ID, user.ID, 0, validComment)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = Create(db, product.ID, user.ID, 6, validComment)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = Create(db, product.ID, user.ID, 4, "short")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	// Whitespace does not count toward the minimum length.
	_, err = Create(db, product.ID, user.ID, 4, "   ok    \t\n")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	// Nine characters in eleven bytes: multibyte runes count once each.
	_, err = Create(db, product.ID, user.ID, 4, "añejo mañ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	// Ten characters including multibyte runes is enough.
	_, err = Create(db, product.ID, user.ID, 4, "añejo maña")
	assert.NoError(t, err)
}

func TestCreateTrimsComment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	r, err := Create(db, product.ID, user.ID, 5, "  "+validComment+"  ")
	require.NoError(t, err)
	assert.Equal(t, validComment, r.Comment)
	assert.False(t, r.VerifiedPurchase)
}

func TestCreateMissingProductOrUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	_, err := Create(db, 999, user.ID, 4, validComment)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = Create(db, product.ID, 999, 4, validComment)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	_, err := Create(db, product.ID, user.ID, 4, validComment)
	require.NoError(t, err)
	_, err = Create(db, product.ID, user.ID, 2, validComment)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// A different user can still review the same product.
	other := seedUser(t, db, "b@example.com")
	_, err = Create(db, product.ID, other.ID, 5, validComment)
	assert.NoError(t, err)
}

func TestCanReview(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	assert.True(t, CanReview(db, product.ID, user.ID))

	r, err := Create(db, product.ID, user.ID, 4, validComment)
	require.NoError(t, err)
	assert.False(t, CanReview(db, product.ID, user.ID))

	require.NoError(t, Delete(db, r.ID, &user.ID))
	assert.True(t, CanReview(db, product.ID, user.ID))
}

func TestUpdatePartial(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	product := seedProduct(t, db, "trail-shoe")

	r, err := Create(db, product.ID, user.ID, 4, validComment)
	require.NoError(t, err)

	rating := 2
	updated, err := Update(db, r.ID, &rating, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, validComment, updated.Comment)

	comment := "Changed my mind after the sole wore out."
	updated, err = Update(db, r.ID, nil, &comment)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Rating)
	assert.Equal(t, comment, updated.Comment)

	bad := 9
	_, err = Update(db, r.ID, &bad, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = Update(db, 999, &rating, nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteAuthorization(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "a@example.com")
	stranger := seedUser(t, db, "b@example.com")
	product := seedProduct(t, db, "trail-shoe")

	r, err := Create(db, product.ID, author.ID, 4, validComment)
	require.NoError(t, err)

	err = Delete(db, r.ID, &stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Nil acting user means authorization happened upstream.
	require.NoError(t, Delete(db, r.ID, nil))
	assert.ErrorIs(t, Delete(db, r.ID, &author.ID), apperrors.ErrNotFound)
}

func seedReviewAt(t *testing.T, db *gorm.DB, productID, userID uint, rating int, at time.Time) *models.Review {
	t.Helper()
	r, err := Create(db, productID, userID, rating, validComment)
	require.NoError(t, err)
	require.NoError(t, db.Model(r).Update("created_at", at).Error)
	r.CreatedAt = at
	return r
}

func TestListForProductSorting(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "trail-shoe")
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	var ids [4]uint
	ratings := []int{5, 3, 4, 5}
	for i, rating := range ratings {
		user := seedUser(t, db, fmt.Sprintf("u%d@example.com", i))
		r := seedReviewAt(t, db, product.ID, user.ID, rating, base.Add(time.Duration(i)*time.Hour))
		ids[i] = r.ID
	}

	collect := func(sort string) []uint {
		reviews, total, err := ListForProduct(db, product.ID, 1, 10, sort)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		var got []uint
		for _, r := range reviews {
			got = append(got, r.ID)
		}
		return got
	}

	assert.Equal(t, []uint{ids[3], ids[2], ids[1], ids[0]}, collect(SortNewest))
	assert.Equal(t, []uint{ids[0], ids[1], ids[2], ids[3]}, collect(SortOldest))
	// Equal ratings break ties newest-first.
	assert.Equal(t, []uint{ids[3], ids[0], ids[2], ids[1]}, collect(SortHighestRated))
	assert.Equal(t, []uint{ids[1], ids[2], ids[3], ids[0]}, collect(SortLowestRated))
}

func TestListForProductPagination(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "trail-shoe")
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		user := seedUser(t, db, fmt.Sprintf("u%d@example.com", i))
		seedReviewAt(t, db, product.ID, user.ID, 4, base.Add(time.Duration(i)*time.Minute))
	}

	page1, total, err := ListForProduct(db, product.ID, 1, 2, SortNewest)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := ListForProduct(db, product.ID, 3, 2, SortNewest)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

func TestListForUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	other := seedUser(t, db, "b@example.com")
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		product := seedProduct(t, db, fmt.Sprintf("shoe-%d", i))
		seedReviewAt(t, db, product.ID, user.ID, 4, base.Add(time.Duration(i)*time.Minute))
		if i == 0 {
			_, err := Create(db, product.ID, other.ID, 5, validComment)
			require.NoError(t, err)
		}
	}

	reviews, total, err := ListForUser(db, user.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, reviews, 3)
	for _, r := range reviews {
		assert.Equal(t, user.ID, r.UserID)
	}
}

func TestProductStatistics(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "trail-shoe")

	for i, rating := range []int{5, 5, 4, 3} {
		user := seedUser(t, db, fmt.Sprintf("u%d@example.com", i))
		_, err := Create(db, product.ID, user.ID, rating, validComment)
		require.NoError(t, err)
	}

	stats := ProductStatistics(db, product.ID)
	assert.EqualValues(t, 4, stats.Total)
	assert.Equal(t, 4.3, stats.Average)
	assert.Equal(t, map[int]int64{1: 0, 2: 0, 3: 1, 4: 1, 5: 2}, stats.Distribution)
	assert.Equal(t, map[int]float64{1: 0, 2: 0, 3: 25.0, 4: 25.0, 5: 50.0}, stats.Percentages)
}

func TestProductStatisticsNoReviews(t *testing.T) {
	db := newTestDB(t)
	product := seedProduct(t, db, "trail-shoe")

	stats := ProductStatistics(db, product.ID)
	assert.EqualValues(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.Average)
	for star := 1; star <= 5; star++ {
		assert.EqualValues(t, 0, stats.Distribution[star])
		assert.Equal(t, 0.0, stats.Percentages[star])
	}
}
