package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category values produced by the legal and PRD prompts
const (
	CategoryMustChange      = "Must Change"
	CategoryRecommendChange = "Recommend to Change"
	CategoryNegotiable      = "Negotiable"
)

// Category values produced by the bot card prompt
const (
	CategoryContentStrength = "Content Strength"
	CategoryContentIssue    = "Content Issue"
	CategoryLLMIssue        = "LLM Issue"
)

// Standardness is the model's claim about whether a flagged pattern is common practice
type Standardness struct {
	IsStandard string `json:"is_standard"`
	Reasoning  string `json:"reasoning"`
}

// Comment is one critique item referencing a snippet of the analysed text.
// ContextBefore, TargetText and ContextAfter are claimed to be contiguous in
// the source document but are model output and may not be.
type Comment struct {
	ID             string        `json:"comment_id"`
	SourceSection  string        `json:"source_section,omitempty"`
	ContextBefore  string        `json:"context_before"`
	TargetText     string        `json:"original_text"`
	ContextAfter   string        `json:"context_after"`
	Category       string        `json:"category"`
	Title          string        `json:"comment_title"`
	Details        string        `json:"comment_details"`
	Recommendation string        `json:"recommendation"`
	Standardness   *Standardness `json:"market_standard,omitempty"`
	StartHint      *int          `json:"start_char_index,omitempty"`
	EndHint        *int          `json:"end_char_index,omitempty"`
}

// DisplaySeverity maps a category onto the low/medium/high scale used for highlighting
func (c Comment) DisplaySeverity() string {
	switch c.Category {
	case CategoryMustChange, CategoryLLMIssue:
		return "high"
	case CategoryNegotiable, CategoryContentStrength:
		return "low"
	default:
		return "medium"
	}
}

// LocatedComment is a Comment with a resolved rune range in the document text
type LocatedComment struct {
	Comment
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Tier        string `json:"tier"`
	Approximate bool   `json:"approximate"`
	Severity    string `json:"severity"`
}

// LocatedComments is a JSONB column of located comments
type LocatedComments []LocatedComment

// Value implements driver.Valuer for JSONB
func (l LocatedComments) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *LocatedComments) Scan(value interface{}) error {
	if value == nil {
		*l = LocatedComments{}
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
	return json.Unmarshal(bytes, l)
}
