package storeapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomatostore/grocer/internal/domain"
)

func TestListItemsEmpty(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodGet, "/items", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// empty catalog is an empty array, not null
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListItemsSearchAndSort(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 1, "Whole Milk", 329, 156)
	seedItem(t, a, 2, "Sourdough Bread", 459, 24)
	seedItem(t, a, 3, "Milk Chocolate", 199, 80)

	rec := doRequest(t, http.MethodGet, "/items?search=milk&sort=price", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Item
	decodeJSON(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk Chocolate", items[0].Name)
	assert.Equal(t, "Whole Milk", items[1].Name)
}

func TestListItemsSortDescending(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 1, "A", 100, 1)
	seedItem(t, a, 2, "B", 300, 1)
	seedItem(t, a, 3, "C", 200, 1)

	rec := doRequest(t, http.MethodGet, "/items?sort=price&order=desc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Item
	decodeJSON(t, rec, &items)
	require.Len(t, items, 3)
	assert.Equal(t, int64(300), items[0].Price)
	assert.Equal(t, int64(100), items[2].Price)
}

func TestListItemsIgnoresUnknownSortColumn(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 1, "A", 100, 1)

	rec := doRequest(t, http.MethodGet, "/items?sort=total_price%3Bdrop", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetItemWireFormat(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 42, "Organic Banana", 199, 122)

	rec := doRequest(t, http.MethodGet, "/items/42", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// IDs travel as strings, prices as integer cents
	body := rec.Body.String()
	assert.Contains(t, body, `"itemID":"42"`)
	assert.Contains(t, body, `"itemPrice":199`)
	assert.Contains(t, body, `"itemQuantity":122`)
}

func TestGetItemNotFound(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodGet, "/items/999", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, rec).Code)
}

func TestCreateItemRequiresToken(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodPost, "/items",
		`{"name":"Avocado","itemPrice":249,"itemQuantity":67}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateItem(t *testing.T) {
	a := setupServer(t)

	rec := doRequest(t, http.MethodPost, "/items",
		`{"name":"Organic Avocado","description":"Ripe","itemPrice":249,"itemQuantity":67,"isOnSale":true}`,
		testToken(t))
	require.Equal(t, http.StatusCreated, rec.Code)

	var count int64
	a.DB().Model(&domain.Item{}).Where("name = ?", "Organic Avocado").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateItemValidation(t *testing.T) {
	setupServer(t)

	// missing price and quantity
	rec := doRequest(t, http.MethodPost, "/items", `{"name":"X"}`, testToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Code)

	// negative price
	rec = doRequest(t, http.MethodPost, "/items",
		`{"name":"X","itemPrice":-1,"itemQuantity":0}`, testToken(t))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 5, "Red Bell Pepper", 179, 43)

	rec := doRequest(t, http.MethodPut, "/items/5",
		`{"name":"Red Bell Pepper","itemPrice":159,"itemQuantity":40,"discountCode":"VEGGIE5"}`,
		testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var item domain.Item
	require.NoError(t, a.DB().First(&item, 5).Error)
	assert.Equal(t, int64(159), item.Price)
	assert.Equal(t, 40, item.Quantity)
	require.NotNil(t, item.DiscountCode)
	assert.Equal(t, "VEGGIE5", *item.DiscountCode)
}

func TestUpdateItemNotFound(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodPut, "/items/999",
		`{"name":"X","itemPrice":1,"itemQuantity":1}`, testToken(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ITEM_NOT_FOUND", decodeError(t, rec).Code)
}

func TestDeleteItem(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 5, "Red Bell Pepper", 179, 43)

	rec := doRequest(t, http.MethodDelete, "/items/5", "", testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	a.DB().Model(&domain.Item{}).Count(&count)
	assert.Zero(t, count)
}

func TestExportItemsCSV(t *testing.T) {
	a := setupServer(t)
	seedItem(t, a, 1, "Whole Milk", 329, 156)

	rec := doRequest(t, http.MethodGet, "/items/export", "", testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "items.csv")
	assert.Contains(t, rec.Body.String(), "Whole Milk")
	assert.Contains(t, rec.Body.String(), "329")
}
