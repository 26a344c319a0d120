package oews

import "math"

// IndexableThreshold is the minimum quality score for a fact to be published.
const IndexableThreshold = 0.50

// Score computes the data-quality score for one record: a coarse
// completeness/significance proxy in [0, 1], not a confidence interval.
// The weights are additive and independent; a row with 150 employees earns
// both the presence weight and the significance bonus.
func Score(rec Record) float64 {
	score := 0.0

	// Has employment data (30%).
	if rec.TotEmp != nil && *rec.TotEmp > 0 {
		score += 0.30
	}

	// Has mean salary (25%).
	if rec.AMean != nil && *rec.AMean > 0 {
		score += 0.25
	}

	// Has median salary (20%).
	if rec.AMedian != nil && *rec.AMedian > 0 {
		score += 0.20
	}

	// Has all four wage percentiles (15%). Presence only, no positivity check.
	if rec.APct10 != nil && rec.APct25 != nil && rec.APct75 != nil && rec.APct90 != nil {
		score += 0.15
	}

	// Has significant employment (10%).
	if rec.TotEmp != nil && *rec.TotEmp >= 100 {
		score += 0.10
	}

	return math.Round(score*100) / 100
}

// Indexable decides whether a fact is published as a discoverable page.
// The median-presence gate is a hard requirement independent of score: a
// row with plenty of employment but no median never indexes.
func Indexable(score float64, median *float64) bool {
	return score >= IndexableThreshold && median != nil && *median > 0
}
