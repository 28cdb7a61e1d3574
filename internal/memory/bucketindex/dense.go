package bucketindex

import (
	"sort"

	"github.com/coder/hnsw"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/memory/domain"
)

// searchDense runs the §4.3 dense path: rank by cosine distance, convert to
// similarity, optionally drop below simThreshold. When a threshold is
// applied the nearest-set materialised is ≥ 5·topK per the spec, giving the
// threshold filter room to still return up to topK survivors.
func searchDense(records []domain.Record, queryEmbedding domain.Embedding, topK int, simThreshold *float64) (map[uuid.UUID]float64, error) {
	out := map[uuid.UUID]float64{}
	if len(records) == 0 || len(queryEmbedding) == 0 || topK <= 0 {
		return out, nil
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance

	keyToID := make(map[uint64]uuid.UUID, len(records))
	var key uint64
	for _, r := range records {
		vec := []float32(r.RecordEmbedding())
		if len(vec) == 0 {
			continue
		}
		graph.Add(hnsw.MakeNode(key, vec))
		keyToID[key] = r.RecordID()
		key++
	}
	if graph.Len() == 0 {
		return out, nil
	}

	fetch := topK
	if simThreshold != nil {
		fetch = topK * 5
	}
	if fetch > graph.Len() {
		fetch = graph.Len()
	}

	query := []float32(queryEmbedding)
	nodes := graph.Search(query, fetch)

	type scored struct {
		id  uuid.UUID
		sim float64
	}
	candidates := make([]scored, 0, len(nodes))
	for _, n := range nodes {
		id, ok := keyToID[n.Key]
		if !ok {
			continue
		}
		dist := graph.Distance(query, n.Value)
		sim := 1 - float64(dist)
		if simThreshold != nil && sim < *simThreshold {
			continue
		}
		candidates = append(candidates, scored{id: id, sim: sim})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].sim != candidates[j].sim {
			return candidates[i].sim > candidates[j].sim
		}
		return candidates[i].id.String() < candidates[j].id.String()
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	for _, c := range candidates {
		out[c.id] = c.sim
	}
	return out, nil
}
