package models

import "math"

// Brewing purposes.
const (
	PurposeBittering   = "Bittering"
	PurposeAroma       = "Aroma"
	PurposeDualPurpose = "Dual Purpose"
)

// Level classifications for alpha acid and oil content.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// BrewingStats summarizes the brewing character of a hop.
type BrewingStats struct {
	BrewingPurpose      string  `json:"brewing_purpose"`
	AvgAlpha            float64 `json:"avg_alpha"`
	AvgBeta             float64 `json:"avg_beta"`
	AvgOil              float64 `json:"avg_oil"`
	AvgCohumulone       float64 `json:"avg_cohumulone"`
	AlphaClassification string  `json:"alpha_classification"`
	OilClassification   string  `json:"oil_classification"`
}

// AverageOf returns the midpoint of a range. When only one end is known it
// is returned as is; when neither is, the result is 0.
func AverageOf(from, to Measure) float64 {
	f, fok := from.Value()
	t, tok := to.Value()
	switch {
	case fok && tok:
		return (f + t) / 2
	case fok:
		return f
	case tok:
		return t
	}
	return 0
}

func (h *Hop) AverageAlpha() float64      { return AverageOf(h.AlphaFrom, h.AlphaTo) }
func (h *Hop) AverageBeta() float64       { return AverageOf(h.BetaFrom, h.BetaTo) }
func (h *Hop) AverageOil() float64        { return AverageOf(h.OilFrom, h.OilTo) }
func (h *Hop) AverageCohumulone() float64 { return AverageOf(h.CoHFrom, h.CoHTo) }

// BrewingPurpose classifies the hop from its average alpha and oil content.
func (h *Hop) BrewingPurpose() string {
	alpha := h.AverageAlpha()
	oil := h.AverageOil()

	switch {
	case alpha >= 10 && oil < 2:
		return PurposeBittering
	case alpha < 8 && oil >= 1.5:
		return PurposeAroma
	default:
		return PurposeDualPurpose
	}
}

// ClassifyAlpha buckets an average alpha acid percentage.
func ClassifyAlpha(alpha float64) string {
	switch {
	case alpha >= 10:
		return LevelHigh
	case alpha >= 6:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ClassifyOil buckets an average total oil content.
func ClassifyOil(oil float64) string {
	switch {
	case oil >= 2.5:
		return LevelHigh
	case oil >= 1.5:
		return LevelMedium
	default:
		return LevelLow
	}
}

// BrewingStats computes the derived brewing metrics for h.
func (h *Hop) BrewingStats() BrewingStats {
	alpha := h.AverageAlpha()
	oil := h.AverageOil()

	return BrewingStats{
		BrewingPurpose:      h.BrewingPurpose(),
		AvgAlpha:            Round(alpha, 1),
		AvgBeta:             Round(h.AverageBeta(), 1),
		AvgOil:              Round(oil, 2),
		AvgCohumulone:       Round(h.AverageCohumulone(), 1),
		AlphaClassification: ClassifyAlpha(alpha),
		OilClassification:   ClassifyOil(oil),
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
