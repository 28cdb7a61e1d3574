package bucketindex

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

func unitVec(x, y float32) domain.Embedding { return domain.Embedding{x, y} }

func TestSearch_FiltersByElderlyViaLoader(t *testing.T) {
	elderlyA := uuid.New()
	elderlyB := uuid.New()
	recA := domain.ShortTermMemory{ID: uuid.New(), ElderlyID: elderlyA, Content: "vitamin D supplement", Embedding: unitVec(1, 0), CreatedAt: time.Now()}
	recB := domain.ShortTermMemory{ID: uuid.New(), ElderlyID: elderlyB, Content: "vitamin D supplement", Embedding: unitVec(1, 0), CreatedAt: time.Now()}

	loader := func(ctx context.Context, elderlyID uuid.UUID) ([]domain.ShortTermMemory, error) {
		var out []domain.ShortTermMemory
		for _, r := range []domain.ShortTermMemory{recA, recB} {
			if r.ElderlyID == elderlyID {
				out = append(out, r)
			}
		}
		return out, nil
	}

	idx := New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, loader, nil)
	out, err := idx.Search(context.Background(), elderlyA, "vitamin D", unitVec(1, 0), DefaultConfig(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0].ID != recA.ID {
		t.Fatalf("expected only elderlyA's record, got %+v", out)
	}
}

func TestSearch_HybridScoreFormula(t *testing.T) {
	elderly := uuid.New()
	rec := domain.ShortTermMemory{ID: uuid.New(), ElderlyID: elderly, Content: "took my vitamin D supplement this morning", Embedding: unitVec(1, 0), CreatedAt: time.Now()}
	loader := func(ctx context.Context, elderlyID uuid.UUID) ([]domain.ShortTermMemory, error) {
		return []domain.ShortTermMemory{rec}, nil
	}
	idx := New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, loader, nil)
	out, err := idx.Search(context.Background(), elderly, "vitamin D supplement", unitVec(1, 0), DefaultConfig(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	c := out[0]
	want := 0.5*c.BM25Score + 0.5*c.EmbScore
	if c.HybridScore != want {
		t.Fatalf("hybrid_score mismatch: got %v want %v", c.HybridScore, want)
	}
	if c.EmbScore < 0.99 {
		t.Fatalf("expected near-identical embedding to score ~1, got %v", c.EmbScore)
	}
}

func TestSearch_EmptyQueryIsValidationError(t *testing.T) {
	idx := New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, func(ctx context.Context, elderlyID uuid.UUID) ([]domain.ShortTermMemory, error) {
		return nil, nil
	}, nil)
	_, err := idx.Search(context.Background(), uuid.New(), "", unitVec(1, 0), DefaultConfig(10))
	if err == nil {
		t.Fatalf("expected validation error for empty query")
	}
}

func TestSearch_LoaderErrorDegradesToEmpty(t *testing.T) {
	idx := New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, func(ctx context.Context, elderlyID uuid.UUID) ([]domain.ShortTermMemory, error) {
		return nil, errStore
	}, nil)
	out, err := idx.Search(context.Background(), uuid.New(), "anything", unitVec(1, 0), DefaultConfig(10))
	if err != nil {
		t.Fatalf("expected graceful degradation, got error: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty result, got %+v", out)
	}
}

var errStore = &storeErr{}

type storeErr struct{}

func (e *storeErr) Error() string { return "simulated store error" }
