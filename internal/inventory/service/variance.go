package service

import (
	"math"

	"github.com/packerp/packerp/internal/inventory/model"
)

// CalculateVariance computes the book-vs-physical variance for an item.
// The book quantity is opening + received - issued; the variance is the
// physical (current) quantity minus the book quantity. The percentage is
// relative to the book quantity, with a zero book quantity treated as a
// full variance unless the physical count also matches.
func CalculateVariance(opening, received, issued, current float64) (calculated, variance, pct float64) {
	calculated = opening + received - issued
	variance = current - calculated

	switch {
	case calculated == 0 && variance == 0:
		pct = 0
	case calculated == 0:
		pct = 100
	default:
		pct = math.Abs(variance) / math.Abs(calculated) * 100
	}
	return calculated, variance, pct
}

// ClassifySeverity buckets a variance percentage.
func ClassifySeverity(pct float64) model.VarianceSeverity {
	switch {
	case pct > 50:
		return model.SeverityCritical
	case pct > 20:
		return model.SeverityHigh
	case pct > 5:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
