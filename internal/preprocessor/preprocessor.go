// Package preprocessor is the default implementation of the external
// Preprocessor collaborator the spec treats as out of scope: filler/
// particle stripping and sentence segmentation, producing {sentences[],
// entities[]}. It is intentionally simple — a real deployment would swap
// in an NLP pipeline — but satisfies the contract C9 depends on.
package preprocessor

import (
	"regexp"
	"strings"
)

// Result is the {sentences[], entities[]} contract.
type Result struct {
	Sentences []string
	Entities  []string
}

// Preprocessor is the external collaborator interface C9 depends on.
type Preprocessor interface {
	Process(text string) Result
}

var sentenceSplit = regexp.MustCompile(`(?:[.!?]+|\n)+\s*`)

var fillers = map[string]struct{}{
	"um": {}, "uh": {}, "ah": {}, "er": {}, "like": {}, "you know": {}, "so": {},
}

// naive is a deterministic, dependency-free default: splits on sentence
// terminators, strips a small filler-word list, and extracts capitalised
// multi-word spans as a crude entity guess.
type naive struct{}

func New() Preprocessor { return naive{} }

func (naive) Process(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Sentences: nil, Entities: nil}
	}

	parts := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(stripFillers(p))
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}

	return Result{Sentences: sentences, Entities: extractEntities(text)}
}

func stripFillers(s string) string {
	words := strings.Fields(s)
	out := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(strings.Trim(w, ".,!?"))
		if _, isFiller := fillers[key]; isFiller {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

var capitalSpan = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)

func extractEntities(text string) []string {
	matches := capitalSpan.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
