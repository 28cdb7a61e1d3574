// Package offline implements C6: the deterministic DAG. embed → fan-out to
// the selected buckets → merge → rerank; statements additionally fan-out
// to insertion. Per-invocation state lives in explicit local variables of
// Run rather than the source's dynamically typed state bag, with list-append merge
// semantics for the candidate accumulation (commutative — bucket search
// completion order never changes the final result).
package offline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-backend/internal/memory/bucketindex"
	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/embedding"
	"github.com/yungbote/neurobridge-backend/internal/memory/insertion"
	"github.com/yungbote/neurobridge-backend/internal/memory/rerank"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Input is the classified request handed to the graph by the facade.
type Input struct {
	ElderlyID uuid.UUID
	Text      string
	QAType    domain.QAType
	Topics    []domain.Bucket
}

// Result is the graph's terminal output.
type Result struct {
	FinalChunks []domain.FinalChunk
	Inserted    bool
}

// Buckets wires the three Bucket Index instantiations the retrieval
// sub-DAG fans out to.
type Buckets struct {
	LongTerm   *bucketindex.Index[domain.LongTermMemory]
	Healthcare *bucketindex.Index[domain.HealthcareRecord]
	ShortTerm  *bucketindex.Index[domain.ShortTermMemory]
}

// Graph is C6.
type Graph struct {
	embedder     embedding.Gateway
	buckets      Buckets
	reranker     *rerank.Reranker
	writer       *insertion.Writer
	searchCfg    bucketindex.Config
	rerankParams rerank.Params
	log          *logger.Logger
}

func New(embedder embedding.Gateway, buckets Buckets, reranker *rerank.Reranker, writer *insertion.Writer, searchCfg bucketindex.Config, rerankParams rerank.Params, log *logger.Logger) *Graph {
	return &Graph{embedder: embedder, buckets: buckets, reranker: reranker, writer: writer, searchCfg: searchCfg, rerankParams: rerankParams, log: log}
}

// Run executes the DAG: embed, then retrieval (always) and, for
// statements, insertion concurrently with retrieval.
func (g *Graph) Run(ctx context.Context, in Input) (Result, error) {
	queryEmbedding, err := g.embedder.Embed(ctx, in.Text)
	if err != nil {
		return Result{}, fmt.Errorf("offline: embed: %w", err)
	}

	var finalChunks []domain.FinalChunk
	var inserted bool

	gr, gctx := errgroup.WithContext(ctx)

	gr.Go(func() error {
		candidates, err := g.retrieveAndMerge(gctx, in.ElderlyID, in.Text, queryEmbedding, in.Topics)
		if err != nil {
			return err
		}
		chunks, err := g.reranker.Rerank(gctx, in.Text, candidates, g.rerankParams)
		if err != nil {
			return fmt.Errorf("offline: rerank: %w", err)
		}
		finalChunks = chunks
		return nil
	})

	if in.QAType == domain.QAStatement {
		gr.Go(func() error {
			res, err := g.writer.InsertShortTerm(gctx, in.ElderlyID, in.Text, queryEmbedding)
			if err != nil {
				if g.log != nil {
					g.log.Warn("offline: insertion failed", "error", err.Error())
				}
				return nil // insertion failures surface as inserted=false, not a request failure
			}
			_ = res
			inserted = true
			return nil
		})
	}

	if err := gr.Wait(); err != nil {
		return Result{}, err
	}

	if finalChunks == nil {
		finalChunks = []domain.FinalChunk{}
	}
	return Result{FinalChunks: finalChunks, Inserted: inserted}, nil
}

// retrieveAndMerge is the topics_router + retrieve_* + merge portion: fans
// out to exactly the subset of buckets present in topics (deduplicated),
// runs each bucket search concurrently, and appends all results — a
// commutative merge, so completion order is irrelevant.
func (g *Graph) retrieveAndMerge(ctx context.Context, elderlyID uuid.UUID, text string, queryEmbedding domain.Embedding, topics []domain.Bucket) ([]domain.Candidate, error) {
	want := map[domain.Bucket]bool{}
	for _, t := range topics {
		want[t] = true
	}

	var ltm, hcm, stm []domain.Candidate
	gr, gctx := errgroup.WithContext(ctx)

	if want[domain.BucketLongTerm] {
		gr.Go(func() error {
			c, err := g.buckets.LongTerm.Search(gctx, elderlyID, text, queryEmbedding, g.searchCfg)
			if err != nil {
				return err
			}
			ltm = c
			return nil
		})
	}
	if want[domain.BucketHealthcare] {
		gr.Go(func() error {
			c, err := g.buckets.Healthcare.Search(gctx, elderlyID, text, queryEmbedding, g.searchCfg)
			if err != nil {
				return err
			}
			hcm = c
			return nil
		})
	}
	if want[domain.BucketShortTerm] {
		gr.Go(func() error {
			c, err := g.buckets.ShortTerm.Search(gctx, elderlyID, text, queryEmbedding, g.searchCfg)
			if err != nil {
				return err
			}
			stm = c
			return nil
		})
	}

	if err := gr.Wait(); err != nil {
		return nil, err
	}

	merged := make([]domain.Candidate, 0, len(ltm)+len(hcm)+len(stm))
	merged = append(merged, ltm...)
	merged = append(merged, hcm...)
	merged = append(merged, stm...)
	return merged, nil
}
