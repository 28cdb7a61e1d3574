// Package online implements C7: the tool-calling Online Graph. Unlike the
// Offline Graph's fixed topic-gated fan-out, routing here is delegated
// entirely to the external Planner: embed → agent → tools →
// route_after_tools → {rerank | END}. Modelled the same way the offline
// graph is — an immutable-per-invocation run over explicit local state,
// no session-level mutation.
package online

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
	"github.com/yungbote/neurobridge-backend/internal/planner"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// Input is the request handed to the graph by the facade. Online requests
// pass through the router untouched and carry no qa type or topics —
// routing is the Planner's job, not the caller's.
type Input struct {
	ElderlyID uuid.UUID
	Text      string
}

// Result is the graph's terminal output.
type Result struct {
	FinalChunks []domain.FinalChunk
	Inserted    bool
	// Note records why the graph ended without candidates, e.g. "planner
	// issued no tool calls" or "tool calls returned no candidates".
	Note string
}

// Buckets wires the three Bucket Index instantiations retrieve_* tool
// calls may fan out to.
type Buckets struct {
	LongTerm   *bucketindex.Index[domain.LongTermMemory]
	Healthcare *bucketindex.Index[domain.HealthcareRecord]
	ShortTerm  *bucketindex.Index[domain.ShortTermMemory]
}

// Graph is C7.
type Graph struct {
	embedder     embedding.Gateway
	planner      planner.Planner
	buckets      Buckets
	reranker     *rerank.Reranker
	writer       *insertion.Writer
	searchCfg    bucketindex.Config
	rerankParams rerank.Params
	log          *logger.Logger
}

func New(embedder embedding.Gateway, pl planner.Planner, buckets Buckets, reranker *rerank.Reranker, writer *insertion.Writer, searchCfg bucketindex.Config, rerankParams rerank.Params, log *logger.Logger) *Graph {
	return &Graph{embedder: embedder, planner: pl, buckets: buckets, reranker: reranker, writer: writer, searchCfg: searchCfg, rerankParams: rerankParams, log: log}
}

// Run executes embed → agent → tools → route_after_tools.
func (g *Graph) Run(ctx context.Context, in Input) (Result, error) {
	queryEmbedding, err := g.embedder.Embed(ctx, in.Text)
	if err != nil {
		return Result{}, fmt.Errorf("online: embed: %w", err)
	}

	plan, err := g.planner.Plan(ctx, planner.SystemPrompt, in.Text)
	if err != nil {
		return Result{}, fmt.Errorf("online: plan: %w", domain.ErrPlanner)
	}

	if len(plan.ToolCalls) == 0 {
		return Result{FinalChunks: []domain.FinalChunk{}, Note: "planner issued no tool calls"}, nil
	}

	candidates, inserted := g.runTools(ctx, in.ElderlyID, queryEmbedding, plan.ToolCalls)

	if len(candidates) == 0 {
		return Result{FinalChunks: []domain.FinalChunk{}, Inserted: inserted, Note: "tool calls returned no candidates"}, nil
	}

	chunks, err := g.reranker.Rerank(ctx, in.Text, candidates, g.rerankParams)
	if err != nil {
		return Result{}, fmt.Errorf("online: rerank: %w", err)
	}
	return Result{FinalChunks: chunks, Inserted: inserted}, nil
}

// runTools executes every tool call the Planner requested concurrently.
// Each retrieve_* call runs its own bucket search with its own query
// string (the Planner may phrase distinct queries per bucket); results
// from every call are appended into one candidate pool, mirroring the
// offline graph's commutative merge. A single insert_statement call, if
// present, runs alongside retrieval; its failure is logged, not
// propagated, matching the offline graph's insertion error handling.
func (g *Graph) runTools(ctx context.Context, elderlyID uuid.UUID, queryEmbedding domain.Embedding, calls []planner.ToolCall) ([]domain.Candidate, bool) {
	type partial struct {
		candidates []domain.Candidate
		inserted   bool
	}
	results := make([]partial, len(calls))

	gr, gctx := errgroup.WithContext(ctx)

	for i, call := range calls {
		i, call := i, call
		switch call.Name {
		case planner.ToolRetrieveLongTerm:
			gr.Go(func() error {
				c, err := g.buckets.LongTerm.Search(gctx, elderlyID, call.Arg, queryEmbedding, g.searchCfg)
				if err != nil {
					g.logSearchErr("long_term", err)
					return nil
				}
				results[i].candidates = c
				return nil
			})
		case planner.ToolRetrieveHealthcare:
			gr.Go(func() error {
				c, err := g.buckets.Healthcare.Search(gctx, elderlyID, call.Arg, queryEmbedding, g.searchCfg)
				if err != nil {
					g.logSearchErr("healthcare", err)
					return nil
				}
				results[i].candidates = c
				return nil
			})
		case planner.ToolRetrieveShortTerm:
			gr.Go(func() error {
				c, err := g.buckets.ShortTerm.Search(gctx, elderlyID, call.Arg, queryEmbedding, g.searchCfg)
				if err != nil {
					g.logSearchErr("short_term", err)
					return nil
				}
				results[i].candidates = c
				return nil
			})
		case planner.ToolInsertStatement:
			gr.Go(func() error {
				_, err := g.writer.InsertShortTerm(gctx, elderlyID, call.Arg, queryEmbedding)
				if err != nil {
					if g.log != nil {
						g.log.Warn("online: insertion failed", "error", err.Error())
					}
					return nil
				}
				results[i].inserted = true
				return nil
			})
		}
	}
	_ = gr.Wait()

	var merged []domain.Candidate
	inserted := false
	for _, r := range results {
		merged = append(merged, r.candidates...)
		if r.inserted {
			inserted = true
		}
	}
	return merged, inserted
}

func (g *Graph) logSearchErr(bucket string, err error) {
	if g.log != nil {
		g.log.Warn("online: bucket search failed", "bucket", bucket, "error", err.Error())
	}
}
