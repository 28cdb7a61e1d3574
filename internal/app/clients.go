package app

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// connectPostgres opens the gorm connection and sizes the pool: 5 idle,
// up to 10 open, recycled after 10 minutes. It pings once at boot and
// only logs a failure; no ping on connection checkout is configured here.
func connectPostgres(databaseURL string, log *logger.Logger) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("app: DATABASE_URL is required")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("app: connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("app: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		if log != nil {
			log.Warn("app: postgres ping failed at boot", "error", err.Error())
		}
	}
	return db, nil
}
