package aroma

import (
	"math"

	"hopdb/pkg/models"
)

// MaxIntensity is the top of the common intensity scale.
const MaxIntensity = 5.0

// Rescaler brings every source's intensities onto the 0-5 scale.
type Rescaler struct {
	tax *Taxonomy
}

func NewRescaler(tax *Taxonomy) *Rescaler {
	return &Rescaler{tax: tax}
}

// Rescale groups records by Source and scales each group by 5/max when its
// largest intensity exceeds 5. Values are clamped to [0, 5] and rounded to
// one decimal either way. A group is rescaled when its SourceID or its
// Source name has a taxonomy entry; other groups are left alone.
//
// Aroma vectors are replaced, never edited, so maps shared between records
// are safe.
func (r *Rescaler) Rescale(records []models.Hop) []models.Hop {
	groups := make(map[string][]int)
	var order []string
	for i := range records {
		src := records[i].Source
		if _, ok := groups[src]; !ok {
			order = append(order, src)
		}
		groups[src] = append(groups[src], i)
	}

	for _, src := range order {
		idx := groups[src]
		if !r.known(records, idx) {
			continue
		}

		peak := 0.0
		for _, i := range idx {
			for _, v := range records[i].Aromas {
				if v > peak {
					peak = v
				}
			}
		}

		scale := 1.0
		if peak > MaxIntensity {
			scale = MaxIntensity / peak
		}

		for _, i := range idx {
			out := r.tax.Complete(records[i].Aromas)
			for c, v := range out {
				out[c] = models.Round(clamp(v*scale, 0, MaxIntensity), 1)
			}
			records[i].Aromas = out
		}
	}
	return records
}

func (r *Rescaler) known(records []models.Hop, idx []int) bool {
	if r.tax.Has(records[idx[0]].Source) {
		return true
	}
	for _, i := range idx {
		if id := records[i].SourceID; id != "" && r.tax.Has(id) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
