package storeapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/internal/webserver"
	"github.com/tomatostore/grocer/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Realname string `json:"realname" validate:"omitempty,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", registerOpr)
	webserver.PubPOST("/auth/login", loginOpr)
}

func registerOpr(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse register parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Username = strings.TrimSpace(payload.Username)

	var exists int64
	GetDB(c).Model(&domain.SysOpr{}).Where("username = ?", payload.Username).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "OPR_EXISTS", "Username already exists", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_FAILED", "Failed to hash password", nil)
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  payload.Realname,
		Email:     payload.Email,
		Username:  payload.Username,
		Password:  string(hashed),
		Level:     "opr",
		Status:    common.ENABLED,
		LastLogin: time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create operator", err.Error())
	}

	zap.L().Info("operator registered", zap.String("username", opr.Username))
	return created(c, opr)
}

func loginOpr(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusForbidden, "OPR_DISABLED", "Operator account is disabled", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	cfg := GetApp(c).Config()
	exp := time.Now().Add(time.Duration(cfg.Web.JwtExps) * time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   opr.Username,
		"uid":   opr.ID,
		"level": opr.Level,
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_FAILED", "Failed to sign token", nil)
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).
		Update("last_login", time.Now())

	zap.L().Info("operator login", zap.String("username", opr.Username))
	return ok(c, map[string]interface{}{
		"token":    signed,
		"username": opr.Username,
		"level":    opr.Level,
		"expire":   exp.Unix(),
	})
}
