package app

import (
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/tomatostore/grocer/internal/domain"
	"go.uber.org/zap"
)

const configCacheTTL = 30 * time.Second

// ConfigManager reads runtime settings from sys_config with a short cache.
type ConfigManager struct {
	app      DBProvider
	mu       sync.RWMutex
	cache    map[string]string
	cachedAt time.Time
}

func NewConfigManager(app DBProvider) *ConfigManager {
	return &ConfigManager{app: app, cache: make(map[string]string)}
}

func (m *ConfigManager) reload() {
	var rows []domain.SysConfig
	if err := m.app.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to load sys_config", zap.Error(err))
		return
	}
	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[row.Type+"."+row.Name] = row.Value
	}
	m.cache = fresh
	m.cachedAt = time.Now()
}

func (m *ConfigManager) value(category, name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Since(m.cachedAt) > configCacheTTL {
		m.reload()
	}
	return m.cache[category+"."+name]
}

func (m *ConfigManager) GetString(category, name string) string {
	return m.value(category, name)
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.value(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.value(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.value(category, name))
}

// SetValue updates or creates a setting and refreshes the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var count int64
	m.app.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, name).Count(&count)
	var err error
	if count == 0 {
		err = m.app.DB().Create(&domain.SysConfig{
			Type: category, Name: name, Value: value,
		}).Error
	} else {
		err = m.app.DB().Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", value).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.reload()
	m.mu.Unlock()
	return nil
}
