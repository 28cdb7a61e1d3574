// Package store is the Postgres persistence layer (gorm) backing all three
// memory buckets. The in-process dense/lexical search indexes live in
// package bucketindex; this package is the source of truth those indexes
// are (re)built from. The gorm column codec for domain.Embedding lives on
// the type itself (domain.Embedding.Value/Scan).
package store

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// AutoMigrate runs gorm's schema migration over the four persisted tables,
// grounded on the app-wiring pattern of calling one AutoMigrateAll step
// at boot.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.ElderlyProfile{},
		&domain.ShortTermMemory{},
		&domain.LongTermMemory{},
		&domain.HealthcareRecord{},
	)
}
