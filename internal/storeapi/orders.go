package storeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/tomatostore/grocer/internal/app"
	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/internal/webserver"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerOrderRoutes registers order endpoints. Execution is the only
// mutating action and requires a token.
func registerOrderRoutes() {
	webserver.PubGET("/orders", listOrders)
	webserver.PubGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders/:id/execute", executeOrder)
	webserver.ApiGET("/orders/summary", orderSummary)
}

var orderSortColumns = map[string]string{
	"time":       "order_time",
	"order_time": "order_time",
	"price":      "total_price",
	"customer":   "customer_id",
	"id":         "id",
}

// listOrders returns orders with line items preloaded, optionally
// ordered and restricted to an order-time window (from/to accept any
// reasonable timestamp format).
func listOrders(c echo.Context) error {
	db := GetDB(c).Model(&domain.Order{})

	if from := strings.TrimSpace(c.QueryParam("from")); from != "" {
		t, err := dateparse.ParseAny(from)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_TIME", "Unable to parse 'from' time", err.Error())
		}
		db = db.Where("order_time >= ?", t)
	}
	if to := strings.TrimSpace(c.QueryParam("to")); to != "" {
		t, err := dateparse.ParseAny(to)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_TIME", "Unable to parse 'to' time", err.Error())
		}
		db = db.Where("order_time <= ?", t)
	}

	sortCol := orderSortColumns[strings.TrimSpace(c.QueryParam("sort"))]
	if sortCol == "" {
		sortCol = "id"
	}
	order := "ASC"
	if strings.EqualFold(strings.TrimSpace(c.QueryParam("order")), "desc") {
		order = "DESC"
	}

	orders := make([]domain.Order, 0)
	if err := db.Preload("Items").Order(sortCol + " " + order).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return ok(c, orders)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var order domain.Order
	err = GetDB(c).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, order)
}

// executeOrder flips a pending order to executed. The guarded UPDATE makes
// the transition atomic: a concurrent or repeated execute finds zero rows
// and is rejected, so the monetary effect can never double-apply.
func executeOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	res := GetDB(c).Model(&domain.Order{}).
		Where("id = ? AND executed = ?", id, false).
		Update("executed", true)
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to execute order", res.Error.Error())
	}
	if res.RowsAffected == 0 {
		var count int64
		GetDB(c).Model(&domain.Order{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
		}
		return fail(c, http.StatusConflict, "ORDER_ALREADY_EXECUTED", "Order has already been executed", nil)
	}

	GetApp(c).Bus().Publish(app.EventOrderExecuted, id, currentOprName(c))
	zap.L().Info("order executed", zap.Int64("id", id), zap.String("opr", currentOprName(c)))

	return ok(c, map[string]interface{}{"orderID": id, "orderStatus": true})
}

// orderSummary aggregates executed-order revenue for the dashboard.
func orderSummary(c echo.Context) error {
	db := GetDB(c)

	var pending, executed int64
	db.Model(&domain.Order{}).Where("executed = ?", false).Count(&pending)
	db.Model(&domain.Order{}).Where("executed = ?", true).Count(&executed)

	var totals []float64
	db.Model(&domain.Order{}).Where("executed = ?", true).Pluck("total_price", &totals)

	summary := map[string]interface{}{
		"count":    pending + executed,
		"pending":  pending,
		"executed": executed,
		"revenue":  int64(0),
		"mean":     int64(0),
		"median":   int64(0),
	}
	if len(totals) > 0 {
		if sum, err := stats.Sum(totals); err == nil {
			summary["revenue"] = int64(sum)
		}
		if mean, err := stats.Mean(totals); err == nil {
			summary["mean"] = int64(mean)
		}
		if median, err := stats.Median(totals); err == nil {
			summary["median"] = int64(median)
		}
	}
	return ok(c, summary)
}
