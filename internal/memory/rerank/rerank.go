// Package rerank implements C5: MMR selection balancing cross-encoder
// relevance, intra-result diversity, and recency. Grounded on
// rerank_with_mmr_and_recency in the original Python service, with the
// fixes the spec requires over that source: candidates are never mutated
// in place (the embedding-pop bug), and ties are broken by ascending id
// rather than list-encounter order.
package rerank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/embedding"
	"github.com/yungbote/neurobridge-backend/internal/memory/recency"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Params controls the MMR selection. Zero values are not valid; use
// DefaultParams() as the base.
type Params struct {
	AlphaMMR    float64
	BetaRecency float64
	TopKMMR     int
}

// DefaultParams returns the spec's §4.5 defaults.
func DefaultParams() Params {
	return Params{AlphaMMR: 0.75, BetaRecency: 0.1, TopKMMR: 8}
}

// Reranker is C5.
type Reranker struct {
	gateway embedding.Gateway
	log     *logger.Logger
}

func New(gateway embedding.Gateway, log *logger.Logger) *Reranker {
	return &Reranker{gateway: gateway, log: log}
}

// Rerank runs the full MMR-with-recency pipeline described in §4.5 and
// returns score-stripped FinalChunks in selection order.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []domain.Candidate, params Params) ([]domain.FinalChunk, error) {
	if len(candidates) == 0 {
		return []domain.FinalChunk{}, nil
	}

	now := time.Now()

	// Work on copies throughout: never mutate the caller's candidate slice.
	working := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		cc := c.Clone()
		if len(cc.Embedding) == 0 {
			if r.log != nil {
				r.log.Warn("rerank: dropping candidate with unparseable embedding", "id", cc.ID.String())
			}
			continue
		}
		cc.RecencyScore = recency.ForRecord(cc.LastUpdated, cc.CreatedAt, now)
		text, err := textOf(cc)
		if err != nil {
			return nil, err
		}
		cc.Text = text
		working = append(working, cc)
	}
	if len(working) == 0 {
		return []domain.FinalChunk{}, nil
	}

	texts := make([]string, len(working))
	for i, c := range working {
		texts[i] = c.Text
	}
	rawCE, err := r.gateway.RerankScore(ctx, query, texts)
	if err != nil {
		return nil, err
	}
	ceNorm := minMaxNormalize(rawCE)
	for i := range working {
		working[i].CEScore = ceNorm[i]
	}

	sim := cosineSimMatrix(working)

	selected := greedyMMR(working, sim, params)

	out := make([]domain.FinalChunk, len(selected))
	for i, c := range selected {
		out[i] = c.Strip()
	}
	return out, nil
}

func textOf(c domain.Candidate) (string, error) {
	var text string
	switch c.Bucket {
	case domain.BucketShortTerm:
		text = c.Content
	case domain.BucketLongTerm:
		text = c.Value
	case domain.BucketHealthcare:
		text = c.Description
	default:
		return "", fmt.Errorf("rerank: unknown bucket %q: %w", c.Bucket, domain.ErrReranker)
	}
	if text == "" {
		return "", fmt.Errorf("rerank: candidate %s has no text field: %w", c.ID, domain.ErrReranker)
	}
	return text, nil
}

// minMaxNormalize scales to [0,1]; if all values are equal, every score
// becomes 1 per §4.5 step 3.
func minMaxNormalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	out := make([]float64, len(scores))
	if hi == lo {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - lo) / (hi - lo)
	}
	return out
}

// cosineSimMatrix computes the pairwise cosine similarity over candidate
// embeddings, which are assumed unit-norm per the Embedding invariant.
func cosineSimMatrix(candidates []domain.Candidate) [][]float64 {
	n := len(candidates)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		sim[i][i] = 1
		for j := i + 1; j < n; j++ {
			s := dot(candidates[i].Embedding, candidates[j].Embedding)
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}

func dot(a, b domain.Embedding) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

// greedyMMR implements the §4.5 step 5 selection loop: deterministic,
// ties broken by ascending candidate id.
func greedyMMR(candidates []domain.Candidate, sim [][]float64, params Params) []domain.Candidate {
	n := len(candidates)
	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}
	// Sort remaining by id ascending up front so any stable tie-break
	// downstream is over an already-deterministic order.
	sort.Slice(remaining, func(a, b int) bool {
		return idLess(candidates[remaining[a]].ID, candidates[remaining[b]].ID)
	})

	var selectedIdx []int
	topK := params.TopKMMR
	if topK <= 0 || topK > n {
		topK = n
	}

	for len(selectedIdx) < topK && len(remaining) > 0 {
		bestPos := -1
		var bestScore float64
		for pos, idx := range remaining {
			maxSim := 0.0
			for _, sIdx := range selectedIdx {
				if s := sim[idx][sIdx]; s > maxSim {
					maxSim = s
				}
			}
			score := params.AlphaMMR*candidates[idx].CEScore - (1-params.AlphaMMR)*maxSim + params.BetaRecency*candidates[idx].RecencyScore
			if bestPos == -1 || score > bestScore ||
				(score == bestScore && idLess(candidates[idx].ID, candidates[remaining[bestPos]].ID)) {
				bestPos = pos
				bestScore = score
			}
		}
		winner := remaining[bestPos]
		candidates[winner].MMRScore = bestScore
		selectedIdx = append(selectedIdx, winner)
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	out := make([]domain.Candidate, len(selectedIdx))
	for i, idx := range selectedIdx {
		out[i] = candidates[idx]
	}
	return out
}

func idLess(a, b uuid.UUID) bool {
	return a.String() < b.String()
}
