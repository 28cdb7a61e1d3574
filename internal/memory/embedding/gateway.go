// Package embedding defines C1: the Embedding Gateway. Model identity is
// configuration, not part of the contract — callers depend only on this
// interface, never on a concrete provider.
package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// Gateway wraps a dense sentence encoder and a cross-encoder. Implementations
// must be safe for concurrent callers; any underlying model/client loading is
// one-shot and idempotent.
type Gateway interface {
	// Embed encodes a single text into an L2-normalised vector of the
	// configured dimension. Fails with domain.ErrValidation on empty input.
	Embed(ctx context.Context, text string) (domain.Embedding, error)

	// EmbedBatch encodes multiple texts, preserving order. Fails if any
	// element is empty.
	EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error)

	// RerankScore returns one raw relevance score per (query, text) pair.
	// No normalisation is required from this layer; the Reranker normalises.
	RerankScore(ctx context.Context, query string, texts []string) ([]float64, error)
}

// Client is the minimal wire-level contract an embedding provider must
// satisfy; Gateway implementations adapt a concrete Client.
type Client interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
	ScorePairs(ctx context.Context, query string, texts []string) ([]float64, error)
}

type gateway struct {
	client Client
	dim    int
}

// New builds a Gateway over the given wire client, enforcing embeddings of
// dimension `dim`.
func New(client Client, dim int) Gateway {
	return &gateway{client: client, dim: dim}
}

func (g *gateway) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	out, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (g *gateway) EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("embedding: empty batch: %w", domain.ErrValidation)
	}
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			return nil, fmt.Errorf("embedding: empty input at index %d: %w", i, domain.ErrValidation)
		}
	}
	raw, err := g.client.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: %w: %v", domain.ErrEmbedding, err)
	}
	out := make([]domain.Embedding, len(raw))
	for i, vec := range raw {
		if g.dim > 0 && len(vec) != g.dim {
			return nil, fmt.Errorf("embedding: got dimension %d, want %d: %w", len(vec), g.dim, domain.ErrEmbedding)
		}
		out[i] = normalize(vec)
	}
	return out, nil
}

func (g *gateway) RerankScore(ctx context.Context, query string, texts []string) ([]float64, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("embedding: empty query: %w", domain.ErrValidation)
	}
	if len(texts) == 0 {
		return nil, nil
	}
	scores, err := g.client.ScorePairs(ctx, query, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding: rerank score: %w: %v", domain.ErrReranker, err)
	}
	return scores, nil
}

// normalize L2-normalises a vector; a zero vector is returned unchanged
// (the Embed contract guarantees non-empty input, but a degenerate
// all-zero model output should not divide by zero).
func normalize(v []float32) domain.Embedding {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return domain.Embedding(v)
	}
	norm := math.Sqrt(sumSq)
	out := make(domain.Embedding, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
