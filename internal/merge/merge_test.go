package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopdb/internal/aroma"
	"hopdb/internal/names"
	"hopdb/pkg/models"
)

func newEngine() *Engine {
	return NewEngine(names.Default(), aroma.Default())
}

func aromas(kv map[string]float64) models.Aromas {
	out := aroma.Default().Empty()
	for k, v := range kv {
		out[k] = v
	}
	return out
}

func hop(name, source string, alphaFrom, alphaTo float64) models.Hop {
	h := models.Hop{Name: name, Source: source}
	h.SetRange(models.RangeAlpha, models.Known(alphaFrom), models.Known(alphaTo))
	return h
}

func TestMergeEnvelopeExcludesUnknown(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		hop("Magnum", "A", 0, 0),
		hop("Magnum", "B", 10, 12),
	})

	require.Len(t, got, 1)
	assert.Equal(t, 10.0, got[0].AlphaFrom.Float())
	assert.Equal(t, 12.0, got[0].AlphaTo.Float())
}

func TestMergeAveragesPositiveAromas(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "Citra", Source: "A", Aromas: aromas(map[string]float64{aroma.Citrus: 0})},
		{Name: "Citra", Source: "B", Aromas: aromas(map[string]float64{aroma.Citrus: 4})},
		{Name: "Citra", Source: "C", Aromas: aromas(map[string]float64{aroma.Citrus: 6, aroma.Berry: 1})},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 5.0, got[0].Aromas[aroma.Citrus])
	assert.Equal(t, 1.0, got[0].Aromas[aroma.Berry])
	assert.Equal(t, 0.0, got[0].Aromas[aroma.Spice])
	assert.Len(t, got[0].Aromas, len(aroma.Categories))
}

func TestMergeRoundsAverageToTwoPlaces(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "Galaxy", Source: "A", Aromas: aromas(map[string]float64{aroma.TropicalFruit: 1})},
		{Name: "Galaxy", Source: "B", Aromas: aromas(map[string]float64{aroma.TropicalFruit: 1})},
		{Name: "Galaxy", Source: "C", Aromas: aromas(map[string]float64{aroma.TropicalFruit: 2})},
	})

	assert.Equal(t, 1.33, got[0].Aromas[aroma.TropicalFruit])
}

func TestMergeGroupsByAlias(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "Hallertauer Mittelfrüher", Source: "Hopsteiner"},
		{Name: "Hallertau Mittelfrüh", Source: "Barth Haas"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Hallertau mittelfrüh", got[0].Name)
	assert.Equal(t, "Barth Haas / Hopsteiner", got[0].Source)
}

func TestMergeDropsEmptyKeys(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "", Source: "A"},
		{Name: " ® ", Source: "A"},
		{Name: "Saaz", Source: "A"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Saaz", got[0].Name)
}

func TestMergeFirstSeenCountryAndHref(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "Perle", Source: "A"},
		{Name: "Perle", Source: "B", Country: "Germany", Href: "https://b.example/perle"},
		{Name: "Perle", Source: "C", Country: "USA", Href: "https://c.example/perle"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, "Germany", got[0].Country)
	assert.Equal(t, "https://b.example/perle", got[0].Href)
}

func TestMergeNotesAndSources(t *testing.T) {
	e := newEngine()

	got := e.Merge([]models.Hop{
		{Name: "Simcoe", Source: "B", Notes: []string{"Pine", " passion fruit "}},
		{Name: "Simcoe", Source: "A / B", Notes: []string{"pine", "", "Earthy"}},
	})

	require.Len(t, got, 1)
	assert.Equal(t, []string{"earthy", "passion fruit", "pine"}, got[0].Notes)
	assert.Equal(t, "A / B", got[0].Source)
}

func TestMergeAdditionalProperties(t *testing.T) {
	e := newEngine()

	a := models.Hop{Name: "Herkules", Source: "A"}
	a.SetPropertyRange("hard_resins", models.Known(18), models.Known(22))
	b := models.Hop{Name: "Herkules", Source: "B", AdditionalProperties: map[string]models.Measure{
		"hard_resins_from": models.Known(16),
		"hard_resins_to":   models.Unknown(),
		"storage":          models.Known(70),
	}}

	got := e.Merge([]models.Hop{a, b})

	require.Len(t, got, 1)
	props := got[0].AdditionalProperties
	assert.Equal(t, 16.0, props["hard_resins_from"].Float())
	assert.Equal(t, 22.0, props["hard_resins_to"].Float())
	assert.Equal(t, 70.0, props["storage_from"].Float())
	assert.Equal(t, 70.0, props["storage_to"].Float())
	assert.NotContains(t, props, "storage")
}

func TestMergeEndToEndCascade(t *testing.T) {
	e := newEngine()

	a := hop("Cascade (US)", "A", 4.5, 7)
	a.Country = "USA"
	a.Aromas = aromas(map[string]float64{aroma.Citrus: 4, aroma.Floral: 2})
	b := hop("CASCADE®", "B", 5, 8)
	b.Aromas = aromas(map[string]float64{aroma.Citrus: 3, aroma.Spice: 1})
	c := hop("Cascade - US", "C", 5.5, 9)
	c.Aromas = aromas(map[string]float64{aroma.Citrus: 2, aroma.Floral: 4})

	got := e.Merge([]models.Hop{a, b, c})

	want := models.Hop{
		Name:                 "Cascade",
		Country:              "USA",
		Source:               "A / B / C",
		AlphaFrom:            models.Known(4.5),
		AlphaTo:              models.Known(9),
		Notes:                []string{},
		Aromas:               aromas(map[string]float64{aroma.Citrus: 3, aroma.Floral: 3, aroma.Spice: 1}),
		AdditionalProperties: map[string]models.Measure{},
	}
	require.Len(t, got, 1)
	if diff := cmp.Diff(want, got[0], cmp.AllowUnexported(models.Measure{})); diff != "" {
		t.Fatalf("merged record mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeDoesNotModifyInput(t *testing.T) {
	e := newEngine()
	in := []models.Hop{
		{Name: "Amarillo", Source: "A", Notes: []string{"Orange"}, Aromas: aromas(map[string]float64{aroma.Citrus: 4})},
	}

	_ = e.Merge(in)

	assert.Equal(t, "Amarillo", in[0].Name)
	assert.Equal(t, []string{"Orange"}, in[0].Notes)
}

func TestSuggestAliases(t *testing.T) {
	got := SuggestAliases([]string{
		"hallertau mittelfrüh",
		"hallertauer mittelfrüh",
		"cascade",
		"cascade",
		"zeus",
	}, 0.9)

	require.Len(t, got, 1)
	assert.Equal(t, "hallertau mittelfrüh", got[0].Left)
	assert.Equal(t, "hallertauer mittelfrüh", got[0].Right)
	assert.GreaterOrEqual(t, got[0].Similarity, 0.9)
}

func TestKeys(t *testing.T) {
	e := newEngine()

	got := e.Keys([]models.Hop{{Name: "Cascade (US)"}, {Name: "CASCADE"}, {Name: ""}, {Name: "Azacca"}})

	assert.Equal(t, []string{"azacca", "cascade"}, got)
}

func TestSelectByMergeKey(t *testing.T) {
	e := newEngine()
	records := []models.Hop{{Name: "Cascade (US)"}, {Name: "Citra"}, {Name: "Azacca"}}

	got, err := e.Select(records, []string{"azacca", "CASCADE"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Azacca", got[0].Name)
	assert.Equal(t, "Cascade (US)", got[1].Name)

	_, err = e.Select(records, []string{"Citra", "Nelson Sauvin"})
	assert.ErrorContains(t, err, "Nelson Sauvin")
}
