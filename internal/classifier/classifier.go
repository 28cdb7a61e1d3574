// Package classifier is the default implementation of the two external
// classical classifiers the spec treats as out-of-scope black boxes:
// question-vs-statement, and topic ∈ {healthcare, long-term, short-term}.
// Both are deterministic keyword-based functions over text.
package classifier

import (
	"regexp"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// QAClassifier decides question vs statement.
type QAClassifier interface {
	Classify(text string) domain.QAType
}

// TopicClassifier decides which buckets an utterance is about. Returns a
// possibly-empty set; the Router defaults empty to {short-term}.
type TopicClassifier interface {
	Classify(text string) []domain.Bucket
}

var questionWord = regexp.MustCompile(`(?i)^\s*(what|when|where|who|why|how|is|are|do|does|did|can|could|will|would|should)\b`)

type qaClassifier struct{}

func NewQAClassifier() QAClassifier { return qaClassifier{} }

func (qaClassifier) Classify(text string) domain.QAType {
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, "?") || questionWord.MatchString(trimmed) {
		return domain.QAQuestion
	}
	return domain.QAStatement
}

var healthcareTerms = []string{
	"medication", "medicine", "doctor", "appointment", "diagnosis", "condition",
	"procedure", "prescription", "symptom", "pain", "hospital", "clinic", "vitamin", "dose", "therapy",
}

var longTermTerms = []string{
	"family", "daughter", "son", "career", "job", "retired", "education", "school",
	"finance", "savings", "legal", "will", "lifestyle", "hobby", "married", "born",
}

type topicClassifier struct{}

func NewTopicClassifier() TopicClassifier { return topicClassifier{} }

func (topicClassifier) Classify(text string) []domain.Bucket {
	lower := strings.ToLower(text)
	var topics []domain.Bucket
	if containsAny(lower, healthcareTerms) {
		topics = append(topics, domain.BucketHealthcare)
	}
	if containsAny(lower, longTermTerms) {
		topics = append(topics, domain.BucketLongTerm)
	}
	// Absent a specific long-term/healthcare signal, an utterance about the
	// here-and-now is short-term by default — mirrored in router.Router.Classify
	// for the genuinely-empty case; this classifier only adds short-term
	// when nothing else matched but the text still looks rememberable.
	if len(topics) == 0 && looksRememberable(lower) {
		topics = append(topics, domain.BucketShortTerm)
	}
	return topics
}

func containsAny(haystack string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(haystack, t) {
			return true
		}
	}
	return false
}

var rememberableVerbs = []string{"took", "ate", "went", "did", "felt", "had", "woke", "slept", "visited"}

func looksRememberable(lower string) bool {
	return containsAny(lower, rememberableVerbs)
}
