package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JhonatanVeri/PeakSport/auth"
	"github.com/JhonatanVeri/PeakSport/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_API_KEY", "test-api-key")
	gin.SetMode(gin.TestMode)

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
		&models.Cart{},
		&models.CartItem{},
		&models.Review{},
	))

	r := gin.New()
	SetupRoutes(r, db)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func seedProduct(t *testing.T, db *gorm.DB, slug string, priceCents int64, stock int) *models.Product {
	t.Helper()
	p := models.Product{Name: "Trail Shoe", Slug: slug, PriceCents: priceCents, Stock: stock, Active: true}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedUser(t *testing.T, db *gorm.DB, email string) (*models.User, string) {
	t.Helper()
	u := models.User{Email: email, FullName: "Test User"}
	require.NoError(t, db.Create(&u).Error)
	token, err := auth.IssueUserToken(u.ID)
	require.NoError(t, err)
	return &u, token
}

func TestCartFlowWithSessionIdentity(t *testing.T) {
	r, db := newTestServer(t)
	product := seedProduct(t, db, "trail-shoe", 5000, 10)

	// Mint an anonymous session.
	w, body := doJSON(t, r, http.MethodPost, "/auth/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// No token at all is rejected on cart routes.
	w, _ = doJSON(t, r, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Add an item twice; quantities merge.
	payload := map[string]any{"product_id": product.ID, "quantity": 2}
	w, _ = doJSON(t, r, http.MethodPost, "/api/cart/items", token, payload)
	require.Equal(t, http.StatusOK, w.Code)
	payload["quantity"] = 3
	w, body = doJSON(t, r, http.MethodPost, "/api/cart/items", token, payload)
	require.Equal(t, http.StatusOK, w.Code)
	item := body["item"].(map[string]any)
	assert.EqualValues(t, 5, item["quantity"])
	assert.EqualValues(t, 5, body["cart_total_items"])

	// Over-stock is a 400 and leaves the cart alone.
	payload["quantity"] = 6
	w, _ = doJSON(t, r, http.MethodPost, "/api/cart/items", token, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cartBody := body["cart"].(map[string]any)
	assert.Len(t, cartBody["items"].([]any), 1)
	totals := body["totals"].(map[string]any)
	assert.EqualValues(t, 250, totals["subtotal"])

	// Clear empties the cart.
	w, _ = doJSON(t, r, http.MethodDelete, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, body = doJSON(t, r, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["cart"].(map[string]any)["items"])
}

func TestCartMigrationEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	product := seedProduct(t, db, "trail-shoe", 5000, 10)
	_, userToken := seedUser(t, db, "a@example.com")

	// Build up a session cart.
	w, body := doJSON(t, r, http.MethodPost, "/auth/session", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sessionToken := body["token"].(string)
	sessionID := body["session_id"].(string)

	payload := map[string]any{"product_id": product.ID, "quantity": 2}
	w, _ = doJSON(t, r, http.MethodPost, "/api/cart/items", sessionToken, payload)
	require.Equal(t, http.StatusOK, w.Code)

	// A session token cannot migrate; a user token can.
	migrate := map[string]any{"session_id": sessionID}
	w, _ = doJSON(t, r, http.MethodPost, "/api/cart/migrate", sessionToken, migrate)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body = doJSON(t, r, http.MethodPost, "/api/cart/migrate", userToken, migrate)
	require.Equal(t, http.StatusOK, w.Code)
	cartBody := body["cart"].(map[string]any)
	items := cartBody["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].(map[string]any)["quantity"])
}

func TestReviewEndpoints(t *testing.T) {
	r, db := newTestServer(t)
	product := seedProduct(t, db, "trail-shoe", 5000, 10)
	_, authorToken := seedUser(t, db, "a@example.com")
	_, strangerToken := seedUser(t, db, "b@example.com")

	reviewsPath := fmt.Sprintf("/api/products/%d/reviews", product.ID)
	payload := map[string]any{"rating": 5, "comment": "Great fit and very comfortable on long runs."}

	// Anonymous creation is rejected.
	w, _ := doJSON(t, r, http.MethodPost, reviewsPath, "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := doJSON(t, r, http.MethodPost, reviewsPath, authorToken, payload)
	require.Equal(t, http.StatusOK, w.Code)
	reviewID := uint(body["data"].(map[string]any)["id"].(float64))

	// Duplicate from the same user is a 400.
	w, _ = doJSON(t, r, http.MethodPost, reviewsPath, authorToken, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Listing carries statistics and the caller's can_review flag.
	w, body = doJSON(t, r, http.MethodGet, reviewsPath, authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, false, body["can_review"])
	stats := body["statistics"].(map[string]any)
	assert.EqualValues(t, 1, stats["total"])
	assert.EqualValues(t, 5, stats["average"])

	// Only the author can update or delete.
	update := map[string]any{"rating": 3}
	reviewPath := fmt.Sprintf("/api/reviews/%d", reviewID)
	w, _ = doJSON(t, r, http.MethodPut, reviewPath, strangerToken, update)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, body = doJSON(t, r, http.MethodPut, reviewPath, authorToken, update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, body["data"].(map[string]any)["rating"])

	w, _ = doJSON(t, r, http.MethodDelete, reviewPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, reviewPath, authorToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodGet, reviewPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductStatsEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	product := seedProduct(t, db, "trail-shoe", 5000, 10)

	for i, rating := range []int{5, 5, 4, 3} {
		user, _ := seedUser(t, db, fmt.Sprintf("u%d@example.com", i))
		require.NoError(t, db.Create(&models.Review{
			ProductID: product.ID,
			UserID:    user.ID,
			Rating:    rating,
			Comment:   "Great fit and very comfortable on long runs.",
		}).Error)
	}

	w, body := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/products/%d/reviews/stats", product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 4, stats["total"])
	assert.EqualValues(t, 4.3, stats["average"])
}

func TestAdminRoutesRequireAPIKey(t *testing.T) {
	r, db := newTestServer(t)
	seedProduct(t, db, "trail-shoe", 5000, 10)

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("X-API-KEY", "test-api-key")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminProductImportExcel(t *testing.T) {
	r, db := newTestServer(t)
	existing := seedProduct(t, db, "trail-shoe", 5000, 10)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	for _, cells := range [][]string{
		{"ID", "Name", "Slug", "Description", "PriceCents", "Currency", "Stock", "SKU", "Active", "Views", "CategoryIDs"},
		{fmt.Sprint(existing.ID), "Trail Shoe v2", "trail-shoe", "Updated", "5500", "COP", "8", "TS-2", "true", "0", ""},
		{"", "Road Shoe", "road-shoe", "New", "7000", "COP", "4", "RS-1", "true", "0", ""},
		{"", "Broken Row", "", "missing slug", "1000", "COP", "1", "", "true", "0", ""},
	} {
		row := sheet.AddRow()
		for _, cell := range cells {
			row.AddCell().SetValue(cell)
		}
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	require.NoError(t, file.Write(part))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import-excel", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-API-KEY", "test-api-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["created_count"])
	assert.EqualValues(t, 1, body["updated_count"])
	assert.EqualValues(t, 1, body["skipped_count"])

	var updated models.Product
	require.NoError(t, db.First(&updated, existing.ID).Error)
	assert.Equal(t, "Trail Shoe v2", updated.Name)
	assert.EqualValues(t, 5500, updated.PriceCents)
	assert.Equal(t, 8, updated.Stock)

	var created models.Product
	require.NoError(t, db.Where("slug = ?", "road-shoe").First(&created).Error)
	assert.EqualValues(t, 7000, created.PriceCents)
}

func TestCatalogEndpoints(t *testing.T) {
	r, db := newTestServer(t)
	visible := seedProduct(t, db, "trail-shoe", 5000, 10)
	hidden := seedProduct(t, db, "road-shoe", 7000, 10)
	require.NoError(t, db.Model(hidden).Update("active", false).Error)

	w, body := doJSON(t, r, http.MethodGet, "/api/products?active=true", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["total"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/products/slug/"+visible.Slug, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Inactive products stay hidden on the storefront detail route.
	w, _ = doJSON(t, r, http.MethodGet, "/api/products/slug/"+hidden.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
