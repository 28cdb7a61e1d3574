package bucketindex

import (
	"context"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// searchLexical runs the §4.3 lexical path over an ephemeral, per-request
// Bleve index scoped to the caller's already elderly_id-filtered record
// set: a match query (exact/analyzed token match) unioned with a fuzzy
// query per searchable field (edit-distance tolerance fuzzyDist), BM25
// scored, normalised by the maximum score observed in this response.
func searchLexical(ctx context.Context, records []domain.Record, queryText string, fields []string, topK int, fuzzyDist int) (map[uuid.UUID]float64, error) {
	out := map[uuid.UUID]float64{}
	if len(records) == 0 || strings.TrimSpace(queryText) == "" || topK <= 0 {
		return out, nil
	}

	mapping := bleve.NewIndexMapping()
	mapping.ScoringModel = "bm25" // bleve's default model is tf-idf
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	batch := idx.NewBatch()
	for _, r := range records {
		if err := batch.Index(r.RecordID().String(), r.SearchFields()); err != nil {
			return nil, err
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, err
	}

	words := strings.Fields(queryText)
	var subqueries []query.Query
	for _, field := range fields {
		mq := bleve.NewMatchQuery(queryText)
		mq.SetField(field)
		subqueries = append(subqueries, mq)
		for _, w := range words {
			if len([]rune(w)) < 3 {
				continue // fuzzy matching on very short tokens is too noisy
			}
			fq := bleve.NewFuzzyQuery(w)
			fq.SetField(field)
			fq.Fuzziness = clampFuzziness(fuzzyDist)
			subqueries = append(subqueries, fq)
		}
	}
	if len(subqueries) == 0 {
		return out, nil
	}

	req := bleve.NewSearchRequest(bleve.NewDisjunctionQuery(subqueries...))
	req.Size = topK

	res, err := idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, err
	}

	var maxScore float64
	for _, hit := range res.Hits {
		if hit.Score > maxScore {
			maxScore = hit.Score
		}
	}
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		if maxScore > 0 {
			out[id] = hit.Score / maxScore
		} else {
			out[id] = 0
		}
	}
	return out, nil
}

// clampFuzziness bounds the edit-distance tolerance to what Bleve's fuzzy
// matcher actually supports (0-2).
func clampFuzziness(d int) int {
	if d < 0 {
		return 0
	}
	if d > 2 {
		return 2
	}
	return d
}
