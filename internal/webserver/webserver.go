package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tomatostore/grocer/internal/app"
	"go.uber.org/zap"
)

// Echo context keys for the gorm handle and the application context.
const (
	ContextDBKey  = "grocer_db"
	ContextAppKey = "grocer_app"
)

var server *WebServer

// WebServer wraps the echo instance with a public group and a JWT
// protected api group.
type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
}

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// Init creates the global web server instance.
func Init(ac app.AppContext) {
	server = NewWebServer(ac)
}

func NewWebServer(ac app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(injectAppContext(ac))
	e.Use(requestLogger())

	s := &WebServer{
		appCtx: ac,
		root:   e,
		pub:    e.Group(""),
		api:    e.Group(""),
	}

	s.api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(ac.Config().Web.Secret),
	}))

	return s
}

// injectAppContext exposes the gorm handle and app context to handlers.
func injectAppContext(ac app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextDBKey, ac.DB())
			c.Set(ContextAppKey, ac)
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	}
}

// Echo returns the underlying echo instance (used in tests).
func Echo() *echo.Echo {
	return server.root
}

// Instance returns the global web server.
func Instance() *WebServer {
	return server
}

// Listen starts the HTTP listener and blocks until shutdown.
func Listen() error {
	cfg := server.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	err := server.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener gracefully.
func Shutdown(ctx context.Context) error {
	return server.root.Shutdown(ctx)
}

// Public routes (no authentication)

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Authenticated api routes

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
