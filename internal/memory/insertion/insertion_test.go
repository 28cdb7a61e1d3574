package insertion

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

type fakeRepo struct {
	inserted *domain.ShortTermMemory
	err      error
}

func (f *fakeRepo) Insert(ctx context.Context, rec *domain.ShortTermMemory) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = rec
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	return domain.Embedding{1, 0, 0}, nil
}
func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	return nil, nil
}
func (fakeEmbedder) RerankScore(ctx context.Context, query string, texts []string) ([]float64, error) {
	return nil, nil
}

func TestInsertShortTerm_ComputesEmbeddingWhenMissing(t *testing.T) {
	repo := &fakeRepo{}
	w := New(repo, fakeEmbedder{})
	res, err := w.InsertShortTerm(context.Background(), uuid.New(), "took my vitamin D", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID == uuid.Nil {
		t.Fatalf("expected non-nil id")
	}
	if repo.inserted == nil || len(repo.inserted.Embedding) == 0 {
		t.Fatalf("expected embedding to be computed and persisted")
	}
}

func TestInsertShortTerm_EmptyContentIsValidationError(t *testing.T) {
	w := New(&fakeRepo{}, fakeEmbedder{})
	_, err := w.InsertShortTerm(context.Background(), uuid.New(), "   ", nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInsertShortTerm_MissingElderlyIDIsValidationError(t *testing.T) {
	w := New(&fakeRepo{}, fakeEmbedder{})
	_, err := w.InsertShortTerm(context.Background(), uuid.Nil, "hello", nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInsertShortTerm_StoreErrorPropagates(t *testing.T) {
	repo := &fakeRepo{err: errors.New("boom")}
	w := New(repo, fakeEmbedder{})
	_, err := w.InsertShortTerm(context.Background(), uuid.New(), "hello", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestInsertShortTerm_UsesPrecomputedEmbeddingWhenGiven(t *testing.T) {
	repo := &fakeRepo{}
	w := New(repo, fakeEmbedder{})
	precomputed := domain.Embedding{0, 1, 0}
	_, err := w.InsertShortTerm(context.Background(), uuid.New(), "hello", precomputed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted.Embedding[1] != 1 {
		t.Fatalf("expected precomputed embedding to be used, got %v", repo.inserted.Embedding)
	}
}
