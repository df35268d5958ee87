package catalog

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"

	"hopdb/pkg/models"
)

// Scale maxima for normalized parameters; values at or above them map to 10.
const (
	alphaScale      = 20.0
	betaScale       = 10.0
	oilScale        = 4.0
	cohumuloneScale = 50.0
)

const (
	RecommendBittering = "All selected hops are primarily bittering hops - great for early boil additions"
	RecommendAroma     = "All selected hops are aroma hops - ideal for late boil, whirlpool, or dry hop additions"
	RecommendMixed     = "Mix of hop purposes - consider using bittering hops early and aroma hops late in the boil"
)

type HopParameters struct {
	Name           string  `json:"name"`
	Source         string  `json:"source"`
	BrewingPurpose string  `json:"brewing_purpose"`
	Alpha          float64 `json:"alpha"`
	Beta           float64 `json:"beta"`
	Oil            float64 `json:"oil"`
	Cohumulone     float64 `json:"cohumulone"`
}

// NormalizedParameters places each parameter on a 0 to 10 scale.
type NormalizedParameters struct {
	Name       string  `json:"name"`
	Alpha      float64 `json:"alpha_normalized"`
	Beta       float64 `json:"beta_normalized"`
	Oil        float64 `json:"oil_normalized"`
	Cohumulone float64 `json:"cohumulone_normalized"`
}

// Comparison is a side by side report of selected hops.
type Comparison struct {
	Hops            []HopParameters        `json:"hops"`
	Normalized      []NormalizedParameters `json:"normalized_data"`
	Recommendations []string               `json:"recommendations"`
}

// Compare builds a comparison of hops in the given order. An empty input
// yields an empty Comparison with no recommendations.
func Compare(hops []models.Hop) Comparison {
	var c Comparison
	if len(hops) == 0 {
		return c
	}

	allBittering, allAroma := true, true
	for i := range hops {
		h := &hops[i]
		p := HopParameters{
			Name:           h.Name,
			Source:         h.Source,
			BrewingPurpose: h.BrewingPurpose(),
			Alpha:          h.AverageAlpha(),
			Beta:           h.AverageBeta(),
			Oil:            h.AverageOil(),
			Cohumulone:     h.AverageCohumulone(),
		}
		c.Hops = append(c.Hops, p)
		c.Normalized = append(c.Normalized, NormalizedParameters{
			Name:       h.Name,
			Alpha:      normalize(p.Alpha, alphaScale),
			Beta:       normalize(p.Beta, betaScale),
			Oil:        normalize(p.Oil, oilScale),
			Cohumulone: normalize(p.Cohumulone, cohumuloneScale),
		})

		allBittering = allBittering && p.BrewingPurpose == models.PurposeBittering
		allAroma = allAroma && p.BrewingPurpose == models.PurposeAroma
	}

	switch {
	case allBittering:
		c.Recommendations = []string{RecommendBittering}
	case allAroma:
		c.Recommendations = []string{RecommendAroma}
	default:
		c.Recommendations = []string{RecommendMixed}
	}
	return c
}

func normalize(v, scale float64) float64 {
	return math.Min(v/scale*10, 10)
}

// RenderComparison prints c as a parameter table, a normalized table and
// its recommendations.
func RenderComparison(w io.Writer, c Comparison) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Source", "Purpose", "Alpha %", "Beta %", "Oil mL/100g", "Co-H %"})
	for _, p := range c.Hops {
		t.AppendRow(table.Row{p.Name, p.Source, p.BrewingPurpose,
			models.Round(p.Alpha, 1), models.Round(p.Beta, 1), models.Round(p.Oil, 2), models.Round(p.Cohumulone, 1)})
	}
	t.Render()

	t = newTable(w)
	t.AppendHeader(table.Row{"Name", "Alpha", "Beta", "Oil", "Co-H"})
	for _, n := range c.Normalized {
		t.AppendRow(table.Row{n.Name,
			fmt.Sprintf("%.1f", n.Alpha), fmt.Sprintf("%.1f", n.Beta), fmt.Sprintf("%.1f", n.Oil), fmt.Sprintf("%.1f", n.Cohumulone)})
	}
	t.Render()

	for _, r := range c.Recommendations {
		fmt.Fprintln(w, r)
	}
}
