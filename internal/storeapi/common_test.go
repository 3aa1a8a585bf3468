package storeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/tomatostore/grocer/config"
	"github.com/tomatostore/grocer/internal/app"
	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/internal/webserver"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-0123456789"

// setupServer boots the full route table against an in-memory database
// and returns the seeded application.
func setupServer(t *testing.T) *app.Application {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig
	cfg.System.Workdir = t.TempDir()
	cfg.Web.Secret = testSecret
	cfg.Web.JwtExps = 3600

	application := app.NewTestApplication(cfg, db)
	webserver.Init(application)
	InitRouter()
	return application
}

func seedItem(t *testing.T, a *app.Application, id int64, name string, price int64, quantity int) domain.Item {
	t.Helper()
	item := domain.Item{
		ID:        id,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, a.DB().Create(&item).Error)
	return item
}

func seedOrder(t *testing.T, a *app.Application, id, customerID int64, executed bool, lines ...domain.OrderItem) domain.Order {
	t.Helper()
	order := domain.Order{
		ID:         id,
		CustomerID: customerID,
		OrderTime:  time.Now(),
		Executed:   executed,
		Items:      lines,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	order.TotalPrice = order.ComputeTotal()
	require.NoError(t, a.DB().Create(&order).Error)
	return order
}

// testToken signs a short-lived operator token the way loginOpr does.
func testToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin",
		"uid":   int64(1),
		"level": "super",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, method, target string, body string, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	webserver.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
		fmt.Sprintf("body: %s", rec.Body.String()))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	decodeJSON(t, rec, &er)
	return er
}
