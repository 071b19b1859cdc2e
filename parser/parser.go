// Package parser turns near-JSON model output into a validated AnalysisResult.
//
// Models asked for JSON routinely wrap it in markdown fences, add prose,
// use typographic quotes or leave trailing commas. Parse repairs what it can
// and otherwise returns a fixed fallback result; it never returns an error.
package parser

import (
	"fmt"
	"time"

	"redline-backend/models"

	"github.com/tidwall/gjson"
)

const (
	FallbackIDPrefix  = "fallback_"
	FallbackCommentID = "fallback_comment"

	defaultFallbackSummary = "The analysis could not be completed because the model did not return a readable result."
	fallbackTitle          = "Analysis failed"
	fallbackDetails        = "The model response could not be parsed, so this content needs manual review."
	fallbackRecommendation = "Review the document manually or run the analysis again."
)

// Parser converts raw model output into analysis results
type Parser struct {
	now             func() time.Time
	fallbackSummary string
}

// ParserOption is a functional option for Parser
type ParserOption func(*Parser)

// WithClock sets the clock used to stamp fallback identifiers
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// WithFallbackSummary overrides the summary of the fallback result
func WithFallbackSummary(summary string) ParserOption {
	return func(p *Parser) {
		p.fallbackSummary = summary
	}
}

// NewParser creates a new parser
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{
		now:             time.Now,
		fallbackSummary: defaultFallbackSummary,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse uses the default parser
func Parse(raw string) models.AnalysisResult {
	return defaultParser.Parse(raw)
}

// ParseWithStatus uses the default parser
func ParseWithStatus(raw string) (models.AnalysisResult, bool) {
	return defaultParser.ParseWithStatus(raw)
}

// Parse returns the structured result or the fallback result
func (p *Parser) Parse(raw string) models.AnalysisResult {
	result, _ := p.ParseWithStatus(raw)
	return result
}

// ParseWithStatus is Parse that also reports whether the model output was
// usable. A false status means the returned value is the fallback result.
func (p *Parser) ParseWithStatus(raw string) (models.AnalysisResult, bool) {
	for _, text := range candidates(raw) {
		if !gjson.Valid(text) {
			continue
		}
		root := gjson.Parse(text)
		if !root.IsObject() {
			continue
		}
		if result, ok := decodeResult(root); ok {
			return result, true
		}
	}
	return p.Fallback(), false
}

// Fallback returns the fixed-shape result used when output cannot be parsed
func (p *Parser) Fallback() models.AnalysisResult {
	return models.AnalysisResult{
		DocumentID: fmt.Sprintf("%s%d", FallbackIDPrefix, p.now().UnixMilli()),
		Summary:    p.fallbackSummary,
		Comments: []models.Comment{
			{
				ID:             FallbackCommentID,
				Category:       models.CategoryMustChange,
				Title:          fallbackTitle,
				Details:        fallbackDetails,
				Recommendation: fallbackRecommendation,
			},
		},
	}
}

// decodeResult maps a parsed object onto the canonical record. It requires a
// string identifier and a comments array whose items carry a string id and
// target text; any other known field must have the right type when present.
func decodeResult(root gjson.Result) (models.AnalysisResult, bool) {
	var result models.AnalysisResult

	id, ok := requiredString(root, idPaths)
	if !ok {
		return result, false
	}
	result.DocumentID = id

	if summary, found := lookup(root, summaryPaths); found {
		switch {
		case summary.Type == gjson.String:
			result.Summary = summary.Str
		case summary.IsObject():
			text, details, ok := decodeSummaryObject(summary)
			if !ok {
				return result, false
			}
			result.Summary = text
			result.SummaryDetails = details
		default:
			return result, false
		}
	}

	list, found := lookup(root, commentsPaths)
	if !found || !list.IsArray() {
		return result, false
	}

	result.Comments = []models.Comment{}
	for _, item := range list.Array() {
		c, ok := decodeComment(item)
		if !ok {
			return result, false
		}
		result.Comments = append(result.Comments, c)
	}

	if !IsValid(result) {
		return result, false
	}
	return result, true
}

func decodeSummaryObject(obj gjson.Result) (string, map[string]string, bool) {
	details := map[string]string{}
	valid := true
	obj.ForEach(func(key, value gjson.Result) bool {
		switch value.Type {
		case gjson.String:
			details[key.Str] = value.Str
		case gjson.Null:
		default:
			valid = false
			return false
		}
		return true
	})
	if !valid {
		return "", nil, false
	}
	return details[overallAssessment], details, true
}

func decodeComment(item gjson.Result) (models.Comment, bool) {
	var c models.Comment
	if !item.IsObject() {
		return c, false
	}

	var ok bool
	if c.ID, ok = requiredString(item, commentIDPaths); !ok {
		return c, false
	}
	if c.TargetText, ok = requiredString(item, targetPaths); !ok {
		return c, false
	}

	fields := []*string{
		&c.ContextBefore,
		&c.ContextAfter,
		&c.Category,
		&c.Title,
		&c.Details,
		&c.Recommendation,
		&c.SourceSection,
	}
	for i, paths := range textFieldPaths {
		if *fields[i], ok = optionalString(item, paths); !ok {
			return c, false
		}
	}

	if c.StartHint, ok = optionalNumber(item, startPaths); !ok {
		return c, false
	}
	if c.EndHint, ok = optionalNumber(item, endPaths); !ok {
		return c, false
	}

	if std, found := lookup(item, standardnessPaths); found {
		s, ok := decodeStandardness(std)
		if !ok {
			return c, false
		}
		c.Standardness = s
	}

	return c, true
}

func decodeStandardness(obj gjson.Result) (*models.Standardness, bool) {
	if !obj.IsObject() {
		return nil, false
	}
	s := &models.Standardness{}
	switch v := obj.Get("is_standard"); v.Type {
	case gjson.String:
		s.IsStandard = v.Str
	case gjson.True:
		s.IsStandard = "Yes"
	case gjson.False:
		s.IsStandard = "No"
	case gjson.Null:
	default:
		return nil, false
	}
	reasoning, ok := optionalString(obj, []string{"reasoning"})
	if !ok {
		return nil, false
	}
	s.Reasoning = reasoning
	return s, true
}
