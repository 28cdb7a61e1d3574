package online

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/bucketindex"
	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
	"github.com/yungbote/neurobridge-backend/internal/memory/insertion"
	"github.com/yungbote/neurobridge-backend/internal/memory/rerank"
	"github.com/yungbote/neurobridge-backend/internal/planner"
)

type fakeGateway struct{}

func (fakeGateway) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	return domain.Embedding{1, 0}, nil
}
func (fakeGateway) EmbedBatch(ctx context.Context, texts []string) ([]domain.Embedding, error) {
	out := make([]domain.Embedding, len(texts))
	for i := range out {
		out[i] = domain.Embedding{1, 0}
	}
	return out, nil
}
func (fakeGateway) RerankScore(ctx context.Context, query string, texts []string) ([]float64, error) {
	out := make([]float64, len(texts))
	for i := range out {
		out[i] = 1
	}
	return out, nil
}

type fakePlanner struct {
	plan planner.Plan
	err  error
}

func (p fakePlanner) Plan(ctx context.Context, systemPrompt, userText string) (planner.Plan, error) {
	return p.plan, p.err
}

type fakeShortTermRepo struct{ inserted []domain.ShortTermMemory }

func (r *fakeShortTermRepo) Insert(ctx context.Context, rec *domain.ShortTermMemory) error {
	r.inserted = append(r.inserted, *rec)
	return nil
}

func oneRecordBuckets() (Buckets, uuid.UUID) {
	elderly := uuid.New()
	stmRec := domain.ShortTermMemory{ID: uuid.New(), ElderlyID: elderly, Content: "took my vitamin D", Embedding: domain.Embedding{1, 0}, CreatedAt: time.Now()}

	stm := bucketindex.New[domain.ShortTermMemory](domain.BucketShortTerm, []string{"content"}, func(ctx context.Context, id uuid.UUID) ([]domain.ShortTermMemory, error) {
		if id != elderly {
			return nil, nil
		}
		return []domain.ShortTermMemory{stmRec}, nil
	}, nil)
	ltm := bucketindex.New[domain.LongTermMemory](domain.BucketLongTerm, []string{"value"}, func(ctx context.Context, id uuid.UUID) ([]domain.LongTermMemory, error) {
		return nil, nil
	}, nil)
	hcm := bucketindex.New[domain.HealthcareRecord](domain.BucketHealthcare, []string{"description"}, func(ctx context.Context, id uuid.UUID) ([]domain.HealthcareRecord, error) {
		return nil, nil
	}, nil)
	return Buckets{LongTerm: ltm, Healthcare: hcm, ShortTerm: stm}, elderly
}

func TestRun_NoToolCallsEndsImmediately(t *testing.T) {
	buckets, elderly := oneRecordBuckets()
	gw := fakeGateway{}
	rr := rerank.New(gw, nil)
	writer := insertion.New(&fakeShortTermRepo{}, gw)
	pl := fakePlanner{plan: planner.Plan{Message: "nothing to do"}}

	g := New(gw, pl, buckets, rr, writer, bucketindex.DefaultConfig(10), rerank.DefaultParams(), nil)

	res, err := g.Run(context.Background(), Input{ElderlyID: elderly, Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.FinalChunks) != 0 || res.Inserted {
		t.Fatalf("expected empty terminal result, got %+v", res)
	}
	if res.Note == "" {
		t.Fatalf("expected a transcript note")
	}
}

func TestRun_RetrieveToolCallProducesChunks(t *testing.T) {
	buckets, elderly := oneRecordBuckets()
	gw := fakeGateway{}
	rr := rerank.New(gw, nil)
	writer := insertion.New(&fakeShortTermRepo{}, gw)
	pl := fakePlanner{plan: planner.Plan{ToolCalls: []planner.ToolCall{
		{Name: planner.ToolRetrieveShortTerm, Arg: "vitamin D"},
	}}}

	g := New(gw, pl, buckets, rr, writer, bucketindex.DefaultConfig(10), rerank.DefaultParams(), nil)

	res, err := g.Run(context.Background(), Input{ElderlyID: elderly, Text: "did I take my vitamin D?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.FinalChunks) != 1 {
		t.Fatalf("expected 1 retrieved chunk, got %d", len(res.FinalChunks))
	}
	if res.Inserted {
		t.Fatalf("retrieve-only call must not insert")
	}
}

func TestRun_InsertToolCallInsertsWithoutCandidates(t *testing.T) {
	buckets, elderly := oneRecordBuckets()
	gw := fakeGateway{}
	rr := rerank.New(gw, nil)
	repo := &fakeShortTermRepo{}
	writer := insertion.New(repo, gw)
	pl := fakePlanner{plan: planner.Plan{ToolCalls: []planner.ToolCall{
		{Name: planner.ToolInsertStatement, Arg: "I went for a walk this morning"},
	}}}

	g := New(gw, pl, buckets, rr, writer, bucketindex.DefaultConfig(10), rerank.DefaultParams(), nil)

	res, err := g.Run(context.Background(), Input{ElderlyID: elderly, Text: "I went for a walk this morning"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Inserted {
		t.Fatalf("expected insertion to succeed")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(repo.inserted))
	}
	if len(res.FinalChunks) != 0 {
		t.Fatalf("expected no retrieval candidates, got %d", len(res.FinalChunks))
	}
}

func TestRun_CombinedRetrieveAndInsertInOneTurn(t *testing.T) {
	buckets, elderly := oneRecordBuckets()
	gw := fakeGateway{}
	rr := rerank.New(gw, nil)
	repo := &fakeShortTermRepo{}
	writer := insertion.New(repo, gw)
	pl := fakePlanner{plan: planner.Plan{ToolCalls: []planner.ToolCall{
		{Name: planner.ToolRetrieveShortTerm, Arg: "vitamin D"},
		{Name: planner.ToolInsertStatement, Arg: "took my afternoon walk"},
	}}}

	g := New(gw, pl, buckets, rr, writer, bucketindex.DefaultConfig(10), rerank.DefaultParams(), nil)

	res, err := g.Run(context.Background(), Input{ElderlyID: elderly, Text: "vitamin D and walk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Inserted {
		t.Fatalf("expected insertion to succeed")
	}
	if len(res.FinalChunks) != 1 {
		t.Fatalf("expected 1 retrieved chunk, got %d", len(res.FinalChunks))
	}
}

func TestRun_PlannerErrorWrapsDomainError(t *testing.T) {
	buckets, elderly := oneRecordBuckets()
	gw := fakeGateway{}
	rr := rerank.New(gw, nil)
	writer := insertion.New(&fakeShortTermRepo{}, gw)
	pl := fakePlanner{err: fmt.Errorf("planner unreachable")}

	g := New(gw, pl, buckets, rr, writer, bucketindex.DefaultConfig(10), rerank.DefaultParams(), nil)

	_, err := g.Run(context.Background(), Input{ElderlyID: elderly, Text: "hello"})
	if !errors.Is(err, domain.ErrPlanner) {
		t.Fatalf("expected an error wrapping domain.ErrPlanner, got %v", err)
	}
}
