// Package bucketindex implements C3: a single generic hybrid-search engine
// parameterised per bucket, consolidating what the source expressed as
// three near-duplicate implementations. Each call loads the elderly_id's
// records from the authoritative store and builds an ephemeral dense
// (HNSW) + lexical (Bleve BM25+fuzzy) index over exactly that set — so
// elderly_id scoping is structural (the loader's WHERE clause), never a
// post-filter, and a freshly inserted record is searchable on the very
// next call with no separate reindex step.
package bucketindex

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Config is the per-call tuning the spec exposes on `search`.
type Config struct {
	TopK          int
	Alpha         float64  // weight on bm25_score; (1-Alpha) on emb_score. Default 0.5.
	SimThreshold  *float64 // nil = no filtering
	FuzzyDistance int      // default 2
}

// DefaultConfig returns the spec's §4.3 defaults for a given top-k.
func DefaultConfig(topK int) Config {
	return Config{TopK: topK, Alpha: 0.5, FuzzyDistance: 2}
}

// Loader fetches every record for one elderly_id from the authoritative
// store. Implementations must filter strictly by elderly_id.
type Loader[T domain.Record] func(ctx context.Context, elderlyID uuid.UUID) ([]T, error)

// Index is C3, instantiated once per bucket.
type Index[T domain.Record] struct {
	bucket domain.Bucket
	fields []string
	loader Loader[T]
	log    *logger.Logger
}

// New builds a bucket index. fields lists the bucket's searchable text
// field names (matching what T.SearchFields() produces) so the lexical
// path knows which fields to query.
func New[T domain.Record](bucket domain.Bucket, fields []string, loader Loader[T], log *logger.Logger) *Index[T] {
	return &Index[T]{bucket: bucket, fields: fields, loader: loader, log: log}
}

// Search is C3's public operation: dense + lexical sub-searches run
// concurrently, then are fused by the literal hybrid_score formula and
// truncated to top_k.
func (idx *Index[T]) Search(ctx context.Context, elderlyID uuid.UUID, queryText string, queryEmbedding domain.Embedding, cfg Config) ([]domain.Candidate, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("bucketindex(%s): empty query: %w", idx.bucket, domain.ErrValidation)
	}
	if elderlyID == uuid.Nil {
		return nil, fmt.Errorf("bucketindex(%s): missing elderly_id: %w", idx.bucket, domain.ErrValidation)
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 10
	}

	records, err := idx.loader(ctx, elderlyID)
	if err != nil {
		// Store errors degrade gracefully: this bucket contributes nothing,
		// other buckets may still succeed.
		if idx.log != nil {
			idx.log.Warn("bucketindex: loader failed, degrading to empty result", "bucket", string(idx.bucket), "error", err.Error())
		}
		return []domain.Candidate{}, nil
	}
	if len(records) == 0 {
		return []domain.Candidate{}, nil
	}

	recs := make([]domain.Record, len(records))
	base := make(map[uuid.UUID]domain.Candidate, len(records))
	for i, r := range records {
		recs[i] = r
		base[r.RecordID()] = r.ToCandidate()
	}

	var denseScores, lexScores map[uuid.UUID]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := searchDense(recs, queryEmbedding, cfg.TopK, cfg.SimThreshold)
		if err != nil {
			if idx.log != nil {
				idx.log.Warn("bucketindex: dense search failed, degrading", "bucket", string(idx.bucket), "error", err.Error())
			}
			return nil
		}
		denseScores = s
		return nil
	})
	g.Go(func() error {
		s, err := searchLexical(gctx, recs, queryText, idx.fields, cfg.TopK, cfg.FuzzyDistance)
		if err != nil {
			if idx.log != nil {
				idx.log.Warn("bucketindex: lexical search failed, degrading", "bucket", string(idx.bucket), "error", err.Error())
			}
			return nil
		}
		lexScores = s
		return nil
	})
	_ = g.Wait() // sub-search errors are already swallowed above; never abort the bucket

	alpha := cfg.Alpha

	union := make(map[uuid.UUID]struct{}, len(denseScores)+len(lexScores))
	for id := range denseScores {
		union[id] = struct{}{}
	}
	for id := range lexScores {
		union[id] = struct{}{}
	}

	out := make([]domain.Candidate, 0, len(union))
	for id := range union {
		c, ok := base[id]
		if !ok {
			continue
		}
		c.EmbScore = denseScores[id]
		c.BM25Score = lexScores[id]
		c.HybridScore = alpha*c.BM25Score + (1-alpha)*c.EmbScore
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].HybridScore != out[j].HybridScore {
			return out[i].HybridScore > out[j].HybridScore
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > cfg.TopK {
		out = out[:cfg.TopK]
	}
	return out, nil
}
