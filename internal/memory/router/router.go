// Package router implements C8: a thin classifier front-end producing
// {qa_type, topics[]} from an utterance, or passing through untouched for
// the online flow where the Planner decides everything itself.
package router

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-backend/internal/classifier"
	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// Request is the input contract of §4.8.
type Request struct {
	Text     string
	FlowType domain.FlowType
	QA       *domain.QAType
	Topics   []domain.Bucket
}

// Router is C8.
type Router struct {
	qa    classifier.QAClassifier
	topic classifier.TopicClassifier
}

func New(qa classifier.QAClassifier, topic classifier.TopicClassifier) *Router {
	return &Router{qa: qa, topic: topic}
}

// Classify dispatches per flow type. Online requests pass through
// unmodified (the Online Graph's Planner does its own routing). Offline
// requests run both classifiers concurrently.
func (r *Router) Classify(ctx context.Context, req Request) (domain.ClassifiedUtterance, error) {
	if req.FlowType == domain.FlowOnline {
		out := domain.ClassifiedUtterance{Text: req.Text}
		if req.QA != nil {
			out.QAType = *req.QA
		}
		out.Topics = req.Topics
		return out, nil
	}

	var qaType domain.QAType
	var topics []domain.Bucket

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		qaType = r.qa.Classify(req.Text)
		return nil
	})
	g.Go(func() error {
		topics = r.topic.Classify(req.Text)
		return nil
	})
	_ = g.Wait()

	if len(topics) == 0 {
		topics = []domain.Bucket{domain.BucketShortTerm}
	}

	return domain.ClassifiedUtterance{Text: req.Text, QAType: qaType, Topics: topics}, nil
}
