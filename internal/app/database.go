package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/tomatostore/grocer/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDatabase opens the configured database. Postgres is the production
// target; sqlite keeps development and tests self-contained under workdir.
func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(filepath.Join(workdir, cfg.Name+".db"))
	default:
		dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Name, cfg.Passwd)
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		zap.S().Panicf("open database error %s", err.Error())
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Panicf("fetch database handle error %s", err.Error())
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}
