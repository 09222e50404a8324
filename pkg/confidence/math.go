// Package confidence provides score math for extraction quality grading.
package confidence

import "math"

// Aggregate combines per-element confidence scores with a geometric mean,
// so one weak element pulls the whole extraction down.
func Aggregate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	product := 1.0
	for _, s := range scores {
		if s <= 0 {
			return 0
		}
		product *= s
	}
	return math.Pow(product, 1.0/float64(len(scores)))
}

// AboveThreshold reports whether a score meets the minimum requirement.
func AboveThreshold(score, threshold float64) bool {
	return score >= threshold
}

// Clamp bounds a reported score into [0, 1]; vision models occasionally
// return percentages or small negatives.
func Clamp(score float64) float64 {
	if score > 1 {
		if score <= 100 {
			return score / 100
		}
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
