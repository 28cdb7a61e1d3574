package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// ShortTermRepo persists and loads ShortTermMemory rows.
type ShortTermRepo struct{ db *gorm.DB }

func NewShortTermRepo(db *gorm.DB) *ShortTermRepo { return &ShortTermRepo{db: db} }

func (r *ShortTermRepo) Insert(ctx context.Context, rec *domain.ShortTermMemory) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("short_term_memory insert: %w: %v", domain.ErrStore, err)
	}
	return nil
}

func (r *ShortTermRepo) ListByElderly(ctx context.Context, elderlyID uuid.UUID) ([]domain.ShortTermMemory, error) {
	var out []domain.ShortTermMemory
	if err := r.db.WithContext(ctx).Where("elderly_id = ?", elderlyID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("short_term_memory list: %w: %v", domain.ErrStore, err)
	}
	return out, nil
}

// LongTermRepo persists and loads LongTermMemory rows. Insertion is out of
// the retrieval/rerank core's scope per §4.4, so only reads are exposed.
type LongTermRepo struct{ db *gorm.DB }

func NewLongTermRepo(db *gorm.DB) *LongTermRepo { return &LongTermRepo{db: db} }

func (r *LongTermRepo) ListByElderly(ctx context.Context, elderlyID uuid.UUID) ([]domain.LongTermMemory, error) {
	var out []domain.LongTermMemory
	if err := r.db.WithContext(ctx).Where("elderly_id = ?", elderlyID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("long_term_memory list: %w: %v", domain.ErrStore, err)
	}
	return out, nil
}

// HealthcareRepo persists and loads HealthcareRecord rows. Insertion is out
// of the retrieval/rerank core's scope per §4.4, so only reads are exposed.
type HealthcareRepo struct{ db *gorm.DB }

func NewHealthcareRepo(db *gorm.DB) *HealthcareRepo { return &HealthcareRepo{db: db} }

func (r *HealthcareRepo) ListByElderly(ctx context.Context, elderlyID uuid.UUID) ([]domain.HealthcareRecord, error) {
	var out []domain.HealthcareRecord
	if err := r.db.WithContext(ctx).Where("elderly_id = ?", elderlyID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("healthcare_records list: %w: %v", domain.ErrStore, err)
	}
	return out, nil
}
