package catalog

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"hopdb/internal/merge"
	"hopdb/pkg/models"
)

// Analysis summarizes the brewing values of a collection.
type Analysis struct {
	Total      int            `json:"total_hops"`
	ByPurpose  map[string]int `json:"by_purpose"`
	AlphaLevel map[string]int `json:"alpha_ranges"`
	OilLevel   map[string]int `json:"oil_ranges"`

	AvgAlpha      float64 `json:"avg_alpha"`
	AvgBeta       float64 `json:"avg_beta"`
	AvgOil        float64 `json:"avg_oil"`
	AvgCohumulone float64 `json:"avg_cohumulone"`
}

// Analyze counts hops by purpose and class and averages their values.
// Cohumulone is averaged over hops that report it; the other means include
// every hop.
func Analyze(hops []models.Hop) Analysis {
	a := Analysis{
		Total:      len(hops),
		ByPurpose:  map[string]int{models.PurposeBittering: 0, models.PurposeAroma: 0, models.PurposeDualPurpose: 0},
		AlphaLevel: map[string]int{models.LevelLow: 0, models.LevelMedium: 0, models.LevelHigh: 0},
		OilLevel:   map[string]int{models.LevelLow: 0, models.LevelMedium: 0, models.LevelHigh: 0},
	}
	if len(hops) == 0 {
		return a
	}

	var alpha, beta, oil, coh float64
	var cohN int
	for i := range hops {
		h := &hops[i]
		a.ByPurpose[h.BrewingPurpose()]++

		avgAlpha := h.AverageAlpha()
		avgOil := h.AverageOil()
		a.AlphaLevel[models.ClassifyAlpha(avgAlpha)]++
		a.OilLevel[models.ClassifyOil(avgOil)]++

		alpha += avgAlpha
		beta += h.AverageBeta()
		oil += avgOil
		if c := h.AverageCohumulone(); c > 0 {
			coh += c
			cohN++
		}
	}

	n := float64(len(hops))
	a.AvgAlpha = models.Round(alpha/n, 1)
	a.AvgBeta = models.Round(beta/n, 1)
	a.AvgOil = models.Round(oil/n, 2)
	if cohN > 0 {
		a.AvgCohumulone = models.Round(coh/float64(cohN), 1)
	}
	return a
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderAnalysis prints a as a table.
func RenderAnalysis(w io.Writer, a Analysis) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Hops", a.Total})
	t.AppendSeparator()
	for _, p := range []string{models.PurposeBittering, models.PurposeAroma, models.PurposeDualPurpose} {
		t.AppendRow(table.Row{p, a.ByPurpose[p]})
	}
	t.AppendSeparator()
	for _, l := range []string{models.LevelLow, models.LevelMedium, models.LevelHigh} {
		t.AppendRow(table.Row{"Alpha " + l, a.AlphaLevel[l]})
	}
	for _, l := range []string{models.LevelLow, models.LevelMedium, models.LevelHigh} {
		t.AppendRow(table.Row{"Oil " + l, a.OilLevel[l]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Avg alpha %", a.AvgAlpha})
	t.AppendRow(table.Row{"Avg beta %", a.AvgBeta})
	t.AppendRow(table.Row{"Avg oil mL/100g", a.AvgOil})
	t.AppendRow(table.Row{"Avg cohumulone %", a.AvgCohumulone})
	t.Render()
}

// RenderHops prints one row per hop with its derived brewing values.
func RenderHops(w io.Writer, hops []models.Hop) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Source", "Purpose", "Alpha", "Oil", "Co-H"})
	for i := range hops {
		s := hops[i].BrewingStats()
		t.AppendRow(table.Row{hops[i].Name, hops[i].Source, s.BrewingPurpose, s.AvgAlpha, s.AvgOil, s.AvgCohumulone})
	}
	t.Render()
}

// RenderAliases prints alias suggestions.
func RenderAliases(w io.Writer, suggestions []merge.AliasSuggestion) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Key", "Looks like", "Similarity"})
	for _, s := range suggestions {
		t.AppendRow(table.Row{s.Left, s.Right, fmt.Sprintf("%.3f", s.Similarity)})
	}
	t.Render()
}
