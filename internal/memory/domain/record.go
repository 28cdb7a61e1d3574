package domain

import "github.com/google/uuid"

// Record is the interface the generic Bucket Index operates over. Each
// MemoryRecord variant implements it; this is the consolidation the design
// calls for over the source's multiple near-duplicate bucket searches.
type Record interface {
	RecordID() uuid.UUID
	RecordElderlyID() uuid.UUID
	RecordEmbedding() Embedding
	// SearchFields returns the bucket's searchable text fields, named per
	// §4.3 (STM: content; LTM: category/key/value; HCM: record_type/description).
	SearchFields() map[string]string
	// ToCandidate builds a Candidate carrying the record's domain fields,
	// with no scores populated yet.
	ToCandidate() Candidate
}

func (r ShortTermMemory) RecordID() uuid.UUID           { return r.ID }
func (r ShortTermMemory) RecordElderlyID() uuid.UUID    { return r.ElderlyID }
func (r ShortTermMemory) RecordEmbedding() Embedding    { return r.Embedding }
func (r ShortTermMemory) SearchFields() map[string]string {
	return map[string]string{"content": r.Content}
}
func (r ShortTermMemory) ToCandidate() Candidate {
	return Candidate{
		ID:        r.ID,
		Bucket:    BucketShortTerm,
		Embedding: r.Embedding,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

func (r LongTermMemory) RecordID() uuid.UUID        { return r.ID }
func (r LongTermMemory) RecordElderlyID() uuid.UUID { return r.ElderlyID }
func (r LongTermMemory) RecordEmbedding() Embedding { return r.Embedding }
func (r LongTermMemory) SearchFields() map[string]string {
	return map[string]string{
		"category": string(r.Category),
		"key":      r.Key,
		"value":    r.Value,
	}
}
func (r LongTermMemory) ToCandidate() Candidate {
	return Candidate{
		ID:          r.ID,
		Bucket:      BucketLongTerm,
		Embedding:   r.Embedding,
		Category:    r.Category,
		Key:         r.Key,
		Value:       r.Value,
		LastUpdated: r.LastUpdated,
	}
}

func (r HealthcareRecord) RecordID() uuid.UUID        { return r.ID }
func (r HealthcareRecord) RecordElderlyID() uuid.UUID { return r.ElderlyID }
func (r HealthcareRecord) RecordEmbedding() Embedding { return r.Embedding }
func (r HealthcareRecord) SearchFields() map[string]string {
	return map[string]string{
		"record_type": string(r.RecordType),
		"description": r.Description,
	}
}
func (r HealthcareRecord) ToCandidate() Candidate {
	return Candidate{
		ID:            r.ID,
		Bucket:        BucketHealthcare,
		Embedding:     r.Embedding,
		RecordType:    r.RecordType,
		Description:   r.Description,
		DiagnosisDate: r.DiagnosisDate,
		LastUpdated:   r.LastUpdated,
	}
}
