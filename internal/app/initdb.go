package app

import (
	"errors"
	"strings"
	"time"

	"github.com/tomatostore/grocer/internal/domain"
	"github.com/tomatostore/grocer/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "grocerstore"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default super admin password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  string(hashed),
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = string(hashed)
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

type configDefault struct {
	Type   string
	Name   string
	Value  string
	Remark string
}

var configDefaults = []configDefault{
	{"store", "PageSize", "50", "Items shown per catalog page"},
	{"store", "Currency", "USD", "Display currency"},
	{"store", "OprLogRetentionDays", "365", "Operator audit log retention"},
}

func (a *Application) checkSettings() {
	for sortid, item := range configDefaults {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", item.Type, item.Name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     0,
				Sort:   sortid,
				Type:   item.Type,
				Name:   item.Name,
				Value:  item.Value,
				Remark: item.Remark,
			})
			zap.L().Info("initialized config",
				zap.String("key", item.Type+"."+item.Name),
				zap.String("default", item.Value))
		}
	}
}

func strptr(s string) *string { return &s }

// checkItems seeds the demo catalog on an empty database.
func (a *Application) checkItems() {
	defaultItems := []domain.Item{
		{Name: "Organic Banana", Description: "Fresh organic bananas from Costa Rica",
			ImageID: "banana001.jpg", Price: 199, Quantity: 122, DiscountCode: strptr("FRUIT99"), OnSale: true},
		{Name: "Fresh Strawberries", Description: "Sweet and juicy strawberries from local farms",
			ImageID: "strawberry001.jpg", Price: 399, Quantity: 85, DiscountCode: strptr("BERRY10"), OnSale: false},
		{Name: "Organic Avocado", Description: "Creamy organic avocados perfect for toast",
			ImageID: "avocado001.jpg", Price: 249, Quantity: 67, DiscountCode: nil, OnSale: true},
		{Name: "Red Bell Pepper", Description: "Crisp red bell peppers rich in vitamins",
			ImageID: "pepper001.jpg", Price: 179, Quantity: 43, DiscountCode: strptr("VEGGIE5"), OnSale: false},
		{Name: "Whole Milk", Description: "Fresh whole milk from local dairy farms",
			ImageID: "milk001.jpg", Price: 329, Quantity: 156, DiscountCode: strptr("DAIRY15"), OnSale: true},
		{Name: "Sourdough Bread", Description: "Artisan sourdough bread baked fresh daily",
			ImageID: "bread001.jpg", Price: 459, Quantity: 24, DiscountCode: nil, OnSale: false},
	}

	var count int64
	a.gormDB.Model(&domain.Item{}).Count(&count)
	if count > 0 {
		return
	}

	for _, item := range defaultItems {
		item.ID = common.UUIDint64()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&item).Error; err != nil {
			zap.L().Error("failed to create default item", zap.String("name", item.Name), zap.Error(err))
		} else {
			zap.L().Info("initialized default item", zap.String("name", item.Name))
		}
	}
}

// checkOrders seeds a few pending demo orders referencing the catalog.
func (a *Application) checkOrders() {
	var count int64
	a.gormDB.Model(&domain.Order{}).Count(&count)
	if count > 0 {
		return
	}

	demoOrders := []domain.Order{
		{
			CustomerID: 1001,
			OrderTime:  time.Now().Add(-48 * time.Hour),
			Items: []domain.OrderItem{
				{Name: "Organic Banana", Quantity: 6, UnitPrice: 199, ImageID: "banana001.jpg"},
				{Name: "Whole Milk", Quantity: 2, UnitPrice: 329, ImageID: "milk001.jpg"},
			},
		},
		{
			CustomerID: 1002,
			OrderTime:  time.Now().Add(-24 * time.Hour),
			Items: []domain.OrderItem{
				{Name: "Fresh Strawberries", Quantity: 3, UnitPrice: 399, ImageID: "strawberry001.jpg"},
			},
		},
		{
			CustomerID: 1001,
			OrderTime:  time.Now().Add(-2 * time.Hour),
			Items: []domain.OrderItem{
				{Name: "Sourdough Bread", Quantity: 1, UnitPrice: 459, ImageID: "bread001.jpg"},
				{Name: "Organic Avocado", Quantity: 4, UnitPrice: 249, ImageID: "avocado001.jpg"},
			},
		},
	}

	for _, order := range demoOrders {
		order.ID = common.UUIDint64()
		order.TotalPrice = order.ComputeTotal()
		order.CreatedAt = time.Now()
		order.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&order).Error; err != nil {
			zap.L().Error("failed to create default order", zap.Int64("customer_id", order.CustomerID), zap.Error(err))
		} else {
			zap.L().Info("initialized default order", zap.Int64("order_id", order.ID))
		}
	}
}
