package storeapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomatostore/grocer/internal/domain"
)

func TestListOrdersPreloadsLines(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, false,
		domain.OrderItem{ID: 11, Name: "Whole Milk", Quantity: 2, UnitPrice: 329},
		domain.OrderItem{ID: 12, Name: "Sourdough Bread", Quantity: 1, UnitPrice: 459})

	rec := doRequest(t, http.MethodGet, "/orders", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []domain.Order
	decodeJSON(t, rec, &orders)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 2)
	assert.Equal(t, int64(2*329+459), orders[0].TotalPrice)
}

func TestListOrdersSortByPriceDesc(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, false, domain.OrderItem{ID: 11, Name: "A", Quantity: 1, UnitPrice: 100})
	seedOrder(t, a, 2, 1002, false, domain.OrderItem{ID: 12, Name: "B", Quantity: 1, UnitPrice: 900})

	rec := doRequest(t, http.MethodGet, "/orders?sort=price&order=desc", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []domain.Order
	decodeJSON(t, rec, &orders)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
}

func TestListOrdersInvalidTimeWindow(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodGet, "/orders?from=not-a-time", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_TIME", decodeError(t, rec).Code)
}

func TestGetOrderWireFormat(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 77, 1001, false,
		domain.OrderItem{ID: 11, Name: "Organic Banana", Quantity: 3, UnitPrice: 199})

	rec := doRequest(t, http.MethodGet, "/orders/77", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"orderID":"77"`)
	assert.Contains(t, body, `"orderStatus":false`)
	assert.Contains(t, body, `"orderPrice":597`)
	// line item ids stay internal
	assert.NotContains(t, body, `"11"`)
}

func TestGetOrderNotFound(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodGet, "/orders/999", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, rec).Code)
}

func TestExecuteOrderRequiresToken(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, false, domain.OrderItem{ID: 11, Name: "A", Quantity: 1, UnitPrice: 100})

	rec := doRequest(t, http.MethodPost, "/orders/1/execute", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExecuteOrder(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, false, domain.OrderItem{ID: 11, Name: "A", Quantity: 1, UnitPrice: 100})

	rec := doRequest(t, http.MethodPost, "/orders/1/execute", "", testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	require.NoError(t, a.DB().First(&order, 1).Error)
	assert.True(t, order.Executed)
}

func TestExecuteOrderTwiceConflicts(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, false, domain.OrderItem{ID: 11, Name: "A", Quantity: 1, UnitPrice: 100})

	rec := doRequest(t, http.MethodPost, "/orders/1/execute", "", testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, http.MethodPost, "/orders/1/execute", "", testToken(t))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ORDER_ALREADY_EXECUTED", decodeError(t, rec).Code)

	// still exactly one executed order, the effect never double-applies
	var count int64
	a.DB().Model(&domain.Order{}).Where("executed = ?", true).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestExecuteOrderNotFound(t *testing.T) {
	setupServer(t)

	rec := doRequest(t, http.MethodPost, "/orders/999/execute", "", testToken(t))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, rec).Code)
}

func TestOrderSummary(t *testing.T) {
	a := setupServer(t)
	seedOrder(t, a, 1, 1001, true, domain.OrderItem{ID: 11, Name: "A", Quantity: 1, UnitPrice: 100})
	seedOrder(t, a, 2, 1002, true, domain.OrderItem{ID: 12, Name: "B", Quantity: 1, UnitPrice: 300})
	seedOrder(t, a, 3, 1003, false, domain.OrderItem{ID: 13, Name: "C", Quantity: 1, UnitPrice: 500})

	rec := doRequest(t, http.MethodGet, "/orders/summary", "", testToken(t))
	require.Equal(t, http.StatusOK, rec.Code)

	var sum map[string]interface{}
	decodeJSON(t, rec, &sum)
	assert.EqualValues(t, 3, sum["count"])
	assert.EqualValues(t, 1, sum["pending"])
	assert.EqualValues(t, 2, sum["executed"])
	assert.EqualValues(t, 400, sum["revenue"])
	assert.EqualValues(t, 200, sum["mean"])
}
