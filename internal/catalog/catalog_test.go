package catalog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopdb/internal/merge"
	"hopdb/pkg/models"
)

func sampleHop() models.Hop {
	h := models.Hop{
		Name:    "Citra",
		Country: "USA",
		Source:  "Barth Haas / Yakima Chief Hops",
		Href:    "https://example.com/hops?name=citra&lang=en",
		Notes:   []string{"grapefruit", "lime"},
		Aromas:  models.Aromas{"Citrus": 4.5, "Berry": 0},
	}
	h.SetRange(models.RangeAlpha, models.Known(11), models.Known(15))
	h.SetPropertyRange("hard_resins", models.Known(18), models.Known(22))
	return h
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, []models.Hop{sampleHop()}, DefaultIndent))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "[\n    {\n        \"name\": \"Citra\",\n        \"country\": \"USA\","))
	assert.Contains(t, out, `"href": "https://example.com/hops?name=citra&lang=en"`)
	assert.Contains(t, out, `"alpha_from": 11,`)
	assert.Contains(t, out, `"beta_from": 0,`)
	assert.Contains(t, out, "\"aromas\": {\n            \"Berry\": 0,\n            \"Citrus\": 4.5\n        },")
	assert.NotContains(t, out, "raw_aroma_data")

	name := strings.Index(out, `"name"`)
	notes := strings.Index(out, `"notes"`)
	props := strings.Index(out, `"additional_properties"`)
	assert.True(t, name < notes && notes < props)
}

func TestWriteEmptyCollections(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, []models.Hop{{Name: "Bare"}}, 2))

	assert.Contains(t, buf.String(), `"notes": []`)
	assert.Contains(t, buf.String(), `"aromas": {}`)
	assert.Contains(t, buf.String(), `"additional_properties": {}`)
}

func TestWriteFileAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "hops.json")
	in := sampleHop()

	require.NoError(t, WriteFile(path, []models.Hop{in}, DefaultIndent))
	got, err := ReadFile(path)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, in.Name, got[0].Name)
	assert.Equal(t, in.Source, got[0].Source)
	assert.Equal(t, 15.0, got[0].AlphaTo.Float())
	assert.False(t, got[0].BetaFrom.IsKnown())
	assert.Equal(t, 22.0, got[0].AdditionalProperties["hard_resins_to"].Float())
	assert.Equal(t, 4.5, got[0].Aromas["Citrus"])
}

func TestReadAcceptsTextValues(t *testing.T) {
	in := `[{"name": "Saaz", "alpha_from": "2.5", "alpha_to": "4.5 %", "beta_from": "", "co_h_to": null}]`

	got, err := Read(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 2.5, got[0].AlphaFrom.Float())
	assert.Equal(t, 4.5, got[0].AlphaTo.Float())
	assert.False(t, got[0].BetaFrom.IsKnown())
	assert.False(t, got[0].CoHTo.IsKnown())
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSortByName(t *testing.T) {
	hops := []models.Hop{{Name: "Saaz", Source: "1"}, {Name: "Amarillo"}, {Name: "Saaz", Source: "2"}, {Name: "Citra"}}

	SortByName(hops)

	var got []string
	for _, h := range hops {
		got = append(got, h.Name+h.Source)
	}
	assert.Equal(t, []string{"Amarillo", "Citra", "Saaz1", "Saaz2"}, got)
}

func withRanges(alpha, oil, coh [2]float64) models.Hop {
	var h models.Hop
	h.SetRange(models.RangeAlpha, models.Known(alpha[0]), models.Known(alpha[1]))
	h.SetRange(models.RangeOil, models.Known(oil[0]), models.Known(oil[1]))
	h.SetRange(models.RangeCohumulone, models.Known(coh[0]), models.Known(coh[1]))
	return h
}

func TestAnalyze(t *testing.T) {
	hops := []models.Hop{
		withRanges([2]float64{14, 16}, [2]float64{1, 1.4}, [2]float64{30, 34}),
		withRanges([2]float64{4, 6}, [2]float64{1.8, 2.2}, [2]float64{0, 0}),
		withRanges([2]float64{8, 10}, [2]float64{2.5, 3.5}, [2]float64{20, 24}),
	}

	a := Analyze(hops)

	assert.Equal(t, 3, a.Total)
	assert.Equal(t, 1, a.ByPurpose[models.PurposeBittering])
	assert.Equal(t, 1, a.ByPurpose[models.PurposeAroma])
	assert.Equal(t, 1, a.ByPurpose[models.PurposeDualPurpose])
	assert.Equal(t, 1, a.AlphaLevel[models.LevelHigh])
	assert.Equal(t, 1, a.AlphaLevel[models.LevelMedium])
	assert.Equal(t, 1, a.AlphaLevel[models.LevelLow])
	assert.Equal(t, 1, a.OilLevel[models.LevelHigh])
	assert.Equal(t, 1, a.OilLevel[models.LevelMedium])
	assert.Equal(t, 1, a.OilLevel[models.LevelLow])
	assert.Equal(t, 9.7, a.AvgAlpha)
	assert.Equal(t, 2.07, a.AvgOil)
	assert.Equal(t, 27.0, a.AvgCohumulone)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil)

	assert.Equal(t, 0, a.Total)
	assert.Equal(t, 0.0, a.AvgAlpha)
	assert.Contains(t, a.ByPurpose, models.PurposeAroma)
}

func TestRenderTables(t *testing.T) {
	var buf bytes.Buffer

	RenderAnalysis(&buf, Analyze([]models.Hop{sampleHop()}))
	RenderHops(&buf, []models.Hop{sampleHop()})
	RenderAliases(&buf, []merge.AliasSuggestion{{Left: "saaz", Right: "saazer", Similarity: 0.95}})

	out := buf.String()
	assert.Contains(t, out, "Avg alpha %")
	assert.Contains(t, out, "Citra")
	assert.Contains(t, out, "0.950")
}
