package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplaySeverity(t *testing.T) {
	tcs := map[string]string{
		CategoryMustChange:      "high",
		CategoryLLMIssue:        "high",
		CategoryRecommendChange: "medium",
		CategoryContentIssue:    "medium",
		CategoryNegotiable:      "low",
		CategoryContentStrength: "low",
		"":                      "medium",
	}
	for category, want := range tcs {
		assert.Equal(t, want, Comment{Category: category}.DisplaySeverity(), category)
	}
}

func TestAnalysisResultJSONB(t *testing.T) {
	in := AnalysisResult{
		DocumentID: "d",
		Summary:    "s",
		Comments:   []Comment{{ID: "c", TargetText: "t"}},
	}
	v, err := in.Value()
	require.NoError(t, err)

	var out AnalysisResult
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan(string(v.([]byte))))
	assert.Equal(t, in, out)
	assert.Error(t, out.Scan(42))
}

func TestLocatedCommentsJSONB(t *testing.T) {
	var nilComments LocatedComments
	v, err := nilComments.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var out LocatedComments
	require.NoError(t, out.Scan(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAnalysisKindValid(t *testing.T) {
	assert.True(t, KindBotCard.Valid())
	assert.False(t, AnalysisKind("poem").Valid())
}

func TestQuantitativeItems(t *testing.T) {
	var q QuantitativeScores
	items := q.Items()
	require.Len(t, items, 11)
	items[10].Score = 4
	assert.Equal(t, 4.0, q.Sections.InteractionTestPrediction.EmotionalResonance.Score)
}
