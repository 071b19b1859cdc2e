package parser

import "github.com/tidwall/gjson"

// Field aliases across the legal, PRD and bot card response shapes.
// The first alias present wins.
var (
	idPaths             = []string{"document_id", "card_id", "id"}
	summaryPaths        = []string{"analysis_summary", "summary"}
	commentsPaths       = []string{"comments", "locatable_comments"}
	commentIDPaths      = []string{"comment_id", "id"}
	targetPaths         = []string{"original_text", "target_text"}
	contextBeforePaths  = []string{"context_before"}
	contextAfterPaths   = []string{"context_after"}
	categoryPaths       = []string{"category", "severity", "comment_type"}
	titlePaths          = []string{"comment_title", "title"}
	detailsPaths        = []string{"comment_details", "details"}
	recommendationPaths = []string{"recommendation"}
	sourceSectionPaths  = []string{"source_section"}
	standardnessPaths   = []string{"market_standard", "standardness"}
	startPaths          = []string{"start_char_index", "start"}
	endPaths            = []string{"end_char_index", "end"}
)

// textFieldPaths are the optional string fields of a comment
var textFieldPaths = [][]string{
	contextBeforePaths,
	contextAfterPaths,
	categoryPaths,
	titlePaths,
	detailsPaths,
	recommendationPaths,
	sourceSectionPaths,
}

// bot card summaries are objects; overall_assessment becomes the summary text
const overallAssessment = "overall_assessment"

// lookup returns the first alias that is present and not null
func lookup(obj gjson.Result, paths []string) (gjson.Result, bool) {
	for _, p := range paths {
		r := obj.Get(p)
		if r.Exists() && r.Type != gjson.Null {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// optionalString is ok when the field is absent or a string
func optionalString(obj gjson.Result, paths []string) (string, bool) {
	r, found := lookup(obj, paths)
	if !found {
		return "", true
	}
	if r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

// requiredString is ok only when the field is present and a string
func requiredString(obj gjson.Result, paths []string) (string, bool) {
	r, found := lookup(obj, paths)
	if !found || r.Type != gjson.String {
		return "", false
	}
	return r.Str, true
}

// optionalNumber is ok when the field is absent or a JSON number
func optionalNumber(obj gjson.Result, paths []string) (*int, bool) {
	r, found := lookup(obj, paths)
	if !found {
		return nil, true
	}
	if r.Type != gjson.Number {
		return nil, false
	}
	n := int(r.Int())
	return &n, true
}
