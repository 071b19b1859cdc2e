package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisKind selects the prompt family used for an analysis
type AnalysisKind string

const (
	KindLegal   AnalysisKind = "legal"
	KindPRD     AnalysisKind = "prd"
	KindBotCard AnalysisKind = "bot_card"
)

// Valid reports whether k is a known analysis kind
func (k AnalysisKind) Valid() bool {
	switch k {
	case KindLegal, KindPRD, KindBotCard:
		return true
	}
	return false
}

// Language of the critique prompt
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageChinese Language = "中文"
)

// AnalysisResult is the parsed and validated output of one model response
type AnalysisResult struct {
	DocumentID     string            `json:"document_id"`
	Summary        string            `json:"analysis_summary"`
	SummaryDetails map[string]string `json:"summary_details,omitempty"`
	Comments       []Comment         `json:"comments"`
}

// Value implements driver.Valuer for JSONB
func (r AnalysisResult) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB
func (r *AnalysisResult) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
	return json.Unmarshal(bytes, r)
}

// Analysis is a persisted analysis run
type Analysis struct {
	ID         uuid.UUID       `json:"id"`
	DocumentID *uuid.UUID      `json:"document_id,omitempty"`
	Kind       AnalysisKind    `json:"kind"`
	Language   Language        `json:"language"`
	CacheKey   string          `json:"cache_key"`
	Result     AnalysisResult  `json:"result"`
	Comments   LocatedComments `json:"comments"`
	Fallback   bool            `json:"fallback"`
	CreatedAt  time.Time       `json:"created_at"`
}
