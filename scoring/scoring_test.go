package scoring

import (
	"math"
	"math/rand"
	"testing"

	"redline-backend/models"

	"github.com/stretchr/testify/assert"
)

func fill(score float64) models.QuantitativeScores {
	var q models.QuantitativeScores
	for _, item := range q.Items() {
		item.Score = score
	}
	return q
}

func TestRecomputeIgnoresModelTotal(t *testing.T) {
	q := fill(3)
	q.Adjustments.OriginalityBonus.Score = 2
	q.Adjustments.TechnicalDeduction.Score = 1
	q.FinalScore = 59

	Recompute(&q)

	assert.Equal(t, 34.0, q.FinalScore)
}

func TestRecomputeClampsItems(t *testing.T) {
	q := fill(9)
	q.Sections.BotPrompt.CharacterStoryArc.Score = -4
	q.Adjustments.OriginalityBonus.Score = 12
	q.Adjustments.TechnicalDeduction.Score = -3

	Recompute(&q)

	assert.Equal(t, 5.0, q.Sections.TitleAndDescription.Title.Score)
	assert.Equal(t, 0.0, q.Sections.BotPrompt.CharacterStoryArc.Score)
	assert.Equal(t, 5.0, q.Adjustments.OriginalityBonus.Score)
	assert.Equal(t, 0.0, q.Adjustments.TechnicalDeduction.Score)
	assert.Equal(t, 55.0, q.FinalScore)
}

func TestRecomputeFloorsAtZero(t *testing.T) {
	q := fill(0)
	q.Adjustments.TechnicalDeduction.Score = 5

	Recompute(&q)

	assert.Equal(t, 0.0, q.FinalScore)
}

func TestRecomputeAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		var q models.QuantitativeScores
		for _, item := range q.Items() {
			item.Score = rng.Float64()*40 - 20
		}
		q.Adjustments.OriginalityBonus.Score = rng.Float64()*40 - 20
		q.Adjustments.TechnicalDeduction.Score = rng.Float64()*40 - 20
		q.FinalScore = rng.Float64() * 1000

		Recompute(&q)

		assert.GreaterOrEqual(t, q.FinalScore, 0.0)
		assert.LessOrEqual(t, q.FinalScore, MaxFinalScore)
	}
}

func TestClampNaN(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 5))
	assert.Equal(t, 5.0, Clamp(math.Inf(1), 0, 5))
}
