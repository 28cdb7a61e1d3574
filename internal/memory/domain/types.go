// Package domain holds the shared types that flow between the memory
// components: records as persisted, candidates as scored in-flight, and the
// score-stripped chunks returned across the HTTP boundary.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Embedding is a fixed-length, L2-normalised real vector. Never persisted
// outside of a MemoryRecord's embedding column.
type Embedding []float32

// Bucket identifies one of the three memory stores.
type Bucket string

const (
	BucketShortTerm  Bucket = "short-term"
	BucketLongTerm   Bucket = "long-term"
	BucketHealthcare Bucket = "healthcare"
)

// QAType is the binary question/statement classification.
type QAType string

const (
	QAQuestion  QAType = "question"
	QAStatement QAType = "statement"
)

// FlowType selects the orchestration topology for an invocation.
type FlowType string

const (
	FlowOffline FlowType = "offline"
	FlowOnline  FlowType = "online"
)

// LongTermCategory enumerates the LTM category column.
type LongTermCategory string

const (
	CategoryPersonal  LongTermCategory = "personal"
	CategoryFamily    LongTermCategory = "family"
	CategoryEducation LongTermCategory = "education"
	CategoryCareer    LongTermCategory = "career"
	CategoryLifestyle LongTermCategory = "lifestyle"
	CategoryFinance   LongTermCategory = "finance"
	CategoryLegal     LongTermCategory = "legal"
)

// HealthcareRecordType enumerates the HCM record_type column.
type HealthcareRecordType string

const (
	RecordCondition  HealthcareRecordType = "condition"
	RecordProcedure  HealthcareRecordType = "procedure"
	RecordAppointment HealthcareRecordType = "appointment"
	RecordMedication HealthcareRecordType = "medication"
)

// Utterance is the transient, request-scoped raw text.
type Utterance struct {
	Text string
}

// ClassifiedUtterance carries the Router's decision forward.
type ClassifiedUtterance struct {
	Text    string
	QAType  QAType
	Topics  []Bucket // offline: non-empty, defaults to {short-term} when the classifier is silent; online: passed through as given, possibly empty
}

// ShortTermMemory is the STM record: gorm model for `short_term_memory`.
type ShortTermMemory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ElderlyID uuid.UUID `gorm:"type:uuid;index;not null"`
	Content   string    `gorm:"not null"`
	Embedding Embedding `gorm:"type:bytea;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (ShortTermMemory) TableName() string { return "short_term_memory" }

// LongTermMemory is the LTM record: gorm model for `long_term_memory`.
type LongTermMemory struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	ElderlyID   uuid.UUID        `gorm:"type:uuid;index;not null"`
	Category    LongTermCategory `gorm:"not null"`
	Key         string           `gorm:"not null"`
	Value       string           `gorm:"not null"`
	Embedding   Embedding        `gorm:"type:bytea;not null"`
	LastUpdated time.Time        `gorm:"not null"`
}

func (LongTermMemory) TableName() string { return "long_term_memory" }

// HealthcareRecord is the HCM record: gorm model for `healthcare_records`.
type HealthcareRecord struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey"`
	ElderlyID      uuid.UUID            `gorm:"type:uuid;index;not null"`
	RecordType     HealthcareRecordType `gorm:"not null"`
	Description    string               `gorm:"not null"`
	DiagnosisDate  *time.Time
	Embedding      Embedding `gorm:"type:bytea;not null"`
	LastUpdated    time.Time `gorm:"not null"`
}

func (HealthcareRecord) TableName() string { return "healthcare_records" }

// ElderlyProfile is declared so its table is migrated alongside the memory
// tables; the memory tables carry an indexed elderly_id column but declare
// no foreign key to it. CRUD over it is out of scope for this core
// (caregiver profile management lives elsewhere).
type ElderlyProfile struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string
	DOB           *time.Time
	Gender        string
	Nationality   string
	Dialect       string
	MaritalStatus string
	Address       string
}

func (ElderlyProfile) TableName() string { return "elderly_profile" }

// Candidate is a MemoryRecord plus transient scores, request-scoped.
type Candidate struct {
	ID        uuid.UUID
	Bucket    Bucket
	Text      string // the bucket-specific searchable field used for rerank
	Embedding Embedding

	// Bucket-specific domain fields, carried so FinalChunk can be built
	// without a second fetch.
	Content       string
	CreatedAt     time.Time
	Category      LongTermCategory
	Key           string
	Value         string
	LastUpdated   time.Time
	RecordType    HealthcareRecordType
	Description   string
	DiagnosisDate *time.Time

	// Transient scores.
	EmbScore    float64
	BM25Score   float64
	HybridScore float64
	RecencyScore float64
	CEScore     float64
	MMRScore    float64
}

// Clone returns a deep-enough copy so the reranker can mutate its working
// copy (e.g. set its text and scores during MMR) without affecting the
// caller's candidate slice.
func (c Candidate) Clone() Candidate {
	clone := c
	if c.Embedding != nil {
		clone.Embedding = append(Embedding(nil), c.Embedding...)
	}
	return clone
}

// FinalChunk is the public, score-stripped return shape.
type FinalChunk struct {
	ID            uuid.UUID            `json:"id"`
	Bucket        Bucket               `json:"-"`
	Content       string               `json:"content,omitempty"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
	Category      LongTermCategory     `json:"category,omitempty"`
	Key           string               `json:"key,omitempty"`
	Value         string               `json:"value,omitempty"`
	LastUpdated   *time.Time           `json:"last_updated,omitempty"`
	RecordType    HealthcareRecordType `json:"record_type,omitempty"`
	Description   string               `json:"description,omitempty"`
	DiagnosisDate *time.Time           `json:"diagnosis_date,omitempty"`
}

// Strip builds the public FinalChunk from a Candidate, dropping every
// transient score. This is the only constructor for FinalChunk so internal
// scores can never leak across the HTTP boundary.
func (c Candidate) Strip() FinalChunk {
	fc := FinalChunk{ID: c.ID, Bucket: c.Bucket}
	switch c.Bucket {
	case BucketShortTerm:
		fc.Content = c.Content
		ts := c.CreatedAt
		fc.CreatedAt = &ts
	case BucketLongTerm:
		fc.Category = c.Category
		fc.Key = c.Key
		fc.Value = c.Value
		ts := c.LastUpdated
		fc.LastUpdated = &ts
	case BucketHealthcare:
		fc.RecordType = c.RecordType
		fc.Description = c.Description
		fc.DiagnosisDate = c.DiagnosisDate
		ts := c.LastUpdated
		fc.LastUpdated = &ts
	}
	return fc
}
