// Package scoring recomputes bot card scores from their itemized parts.
package scoring

import (
	"math"

	"redline-backend/models"
)

const (
	// MaxItemScore bounds each of the eleven itemized scores
	MaxItemScore = 5.0
	// MaxAdjustment bounds the originality bonus and the technical deduction
	MaxAdjustment = 5.0
	// MaxFinalScore is eleven items at full marks plus the full bonus
	MaxFinalScore = 60.0
)

// Recompute clamps every itemized score and adjustment into range and
// replaces FinalScore with the sum of the items plus the originality bonus
// minus the technical deduction, clamped to [0, MaxFinalScore]. The model's
// own total is ignored.
func Recompute(q *models.QuantitativeScores) {
	var total float64
	for _, item := range q.Items() {
		item.Score = Clamp(item.Score, 0, MaxItemScore)
		total += item.Score
	}

	bonus := &q.Adjustments.OriginalityBonus
	bonus.Score = Clamp(bonus.Score, 0, MaxAdjustment)
	deduction := &q.Adjustments.TechnicalDeduction
	deduction.Score = Clamp(deduction.Score, 0, MaxAdjustment)

	q.FinalScore = Clamp(total+bonus.Score-deduction.Score, 0, MaxFinalScore)
}

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
