// Package insertion implements C4: appending a new short-term record with
// embedding. LTM/HCM insertion interfaces are declared for completeness of
// the wider system's CRUD surface but have no writer implementation here —
// the retrieval/rerank core does not write to those buckets (§4.4).
package insertion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/embedding"
)

// Result is the return shape of InsertShortTerm.
type Result struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// Repo is the persistence seam InsertShortTerm writes through.
type Repo interface {
	Insert(ctx context.Context, rec *domain.ShortTermMemory) error
}

// Writer is C4.
type Writer struct {
	repo     Repo
	embedder embedding.Gateway
}

func New(repo Repo, embedder embedding.Gateway) *Writer {
	return &Writer{repo: repo, embedder: embedder}
}

// InsertShortTerm requires non-empty elderlyID and trimmed content. If
// precomputed is nil, the embedding is computed via C1. Returns StoreError
// (transient) or ValidationError (permanent) per §4.4/§7.
func (w *Writer) InsertShortTerm(ctx context.Context, elderlyID uuid.UUID, content string, precomputed domain.Embedding) (Result, error) {
	content = strings.TrimSpace(content)
	if elderlyID == uuid.Nil {
		return Result{}, fmt.Errorf("insertion: missing elderly_id: %w", domain.ErrValidation)
	}
	if content == "" {
		return Result{}, fmt.Errorf("insertion: empty content: %w", domain.ErrValidation)
	}

	emb := precomputed
	if len(emb) == 0 {
		var err error
		emb, err = w.embedder.Embed(ctx, content)
		if err != nil {
			return Result{}, fmt.Errorf("insertion: embed: %w", err)
		}
	}

	rec := &domain.ShortTermMemory{
		ID:        uuid.New(),
		ElderlyID: elderlyID,
		Content:   content,
		Embedding: emb,
		CreatedAt: time.Now(),
	}
	if err := w.repo.Insert(ctx, rec); err != nil {
		return Result{}, err // already wrapped with domain.ErrStore by the repo
	}
	return Result{ID: rec.ID, CreatedAt: rec.CreatedAt}, nil
}

// LongTermWriter is declared for interface completeness; no implementation
// ships in this core (out of scope per §4.4).
type LongTermWriter interface {
	InsertLongTerm(ctx context.Context, elderlyID uuid.UUID, category domain.LongTermCategory, key, value string) (Result, error)
}

// HealthcareWriter is declared for interface completeness; no
// implementation ships in this core (out of scope per §4.4).
type HealthcareWriter interface {
	InsertHealthcare(ctx context.Context, elderlyID uuid.UUID, recordType domain.HealthcareRecordType, description string, diagnosisDate *time.Time) (Result, error)
}
