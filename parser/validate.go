package parser

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// strictCommentPaths must all be strings on every comment
var strictCommentPaths = [][]string{
	commentIDPaths,
	targetPaths,
	categoryPaths,
	titlePaths,
	detailsPaths,
	recommendationPaths,
}

// IsValid reports whether candidate has the full result shape: a string
// identifier, a string summary (or a summary object with an overall
// assessment) and comments that carry every required text field as a string
// and any offset as a number.
//
// candidate may be JSON text, raw bytes, a gjson.Result or any value that
// marshals to JSON, such as models.AnalysisResult.
func IsValid(candidate any) bool {
	root, ok := asJSON(candidate)
	if !ok || !root.IsObject() {
		return false
	}

	if _, ok := requiredString(root, idPaths); !ok {
		return false
	}

	summary, found := lookup(root, summaryPaths)
	if !found {
		return false
	}
	if summary.Type != gjson.String &&
		!(summary.IsObject() && summary.Get(overallAssessment).Type == gjson.String) {
		return false
	}

	list, found := lookup(root, commentsPaths)
	if !found || !list.IsArray() {
		return false
	}
	for _, item := range list.Array() {
		if !validComment(item) {
			return false
		}
	}
	return true
}

func validComment(item gjson.Result) bool {
	if !item.IsObject() {
		return false
	}
	for _, paths := range strictCommentPaths {
		if _, ok := requiredString(item, paths); !ok {
			return false
		}
	}
	for _, paths := range [][]string{contextBeforePaths, contextAfterPaths, sourceSectionPaths} {
		if _, ok := optionalString(item, paths); !ok {
			return false
		}
	}
	if _, ok := optionalNumber(item, startPaths); !ok {
		return false
	}
	_, ok := optionalNumber(item, endPaths)
	return ok
}

func asJSON(candidate any) (gjson.Result, bool) {
	switch v := candidate.(type) {
	case nil:
		return gjson.Result{}, false
	case gjson.Result:
		return v, v.Exists()
	case string:
		if !gjson.Valid(v) {
			return gjson.Result{}, false
		}
		return gjson.Parse(v), true
	case []byte:
		if !gjson.ValidBytes(v) {
			return gjson.Result{}, false
		}
		return gjson.ParseBytes(v), true
	case json.RawMessage:
		return asJSON([]byte(v))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return gjson.Result{}, false
		}
		return gjson.ParseBytes(b), true
	}
}
