package router

import (
	"context"
	"testing"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

type stubQA struct{ v domain.QAType }

func (s stubQA) Classify(text string) domain.QAType { return s.v }

type stubTopic struct{ v []domain.Bucket }

func (s stubTopic) Classify(text string) []domain.Bucket { return s.v }

func TestClassify_OnlinePassesThrough(t *testing.T) {
	r := New(stubQA{domain.QAQuestion}, stubTopic{nil})
	out, err := r.Classify(context.Background(), Request{Text: "hi", FlowType: domain.FlowOnline})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Text != "hi" || len(out.Topics) != 0 {
		t.Fatalf("expected pass-through, got %+v", out)
	}
}

func TestClassify_OfflineDefaultsEmptyTopicsToShortTerm(t *testing.T) {
	r := New(stubQA{domain.QAStatement}, stubTopic{nil})
	out, err := r.Classify(context.Background(), Request{Text: "I took my pill", FlowType: domain.FlowOffline})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Topics) != 1 || out.Topics[0] != domain.BucketShortTerm {
		t.Fatalf("expected default {short-term}, got %+v", out.Topics)
	}
	if out.QAType != domain.QAStatement {
		t.Fatalf("expected statement, got %v", out.QAType)
	}
}

func TestClassify_OfflineRunsBothClassifiers(t *testing.T) {
	r := New(stubQA{domain.QAQuestion}, stubTopic{[]domain.Bucket{domain.BucketHealthcare}})
	out, err := r.Classify(context.Background(), Request{Text: "medication?", FlowType: domain.FlowOffline})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.QAType != domain.QAQuestion || len(out.Topics) != 1 || out.Topics[0] != domain.BucketHealthcare {
		t.Fatalf("unexpected result: %+v", out)
	}
}
