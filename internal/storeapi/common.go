package storeapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/tomatostore/grocer/internal/app"
	"github.com/tomatostore/grocer/internal/webserver"
	"gorm.io/gorm"
)

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// InitRouter registers all store API routes.
func InitRouter() {
	registerItemRoutes()
	registerOrderRoutes()
	registerAuthRoutes()
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

// GetApp returns the application context.
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.ContextAppKey).(app.AppContext)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Detail: detail})
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func handleValidationError(c echo.Context, err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fe.Field()+" "+fe.Tag())
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", details)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
}

// currentOprName extracts the operator username from the JWT, empty for
// unauthenticated requests.
func currentOprName(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	name, _ := claims["sub"].(string)
	return name
}
