package aroma

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopdb/pkg/models"
)

func keys(a models.Aromas) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	return out
}

func TestNormalizeKeepsStrongestLabel(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.Normalize(SourceHopsteiner, map[string]float64{"Woody": 3, "Pine": 4})

	assert.Equal(t, 4.0, got[ResinPine])
}

func TestNormalizeIsComplete(t *testing.T) {
	n := NewNormalizer(Default())

	inputs := []map[string]float64{
		nil,
		{},
		{"Citrus": 3},
		{"Unknown Label": 9, "Citrus": 1.7},
	}
	for _, in := range inputs {
		got := n.Normalize(SourceBarthHaas, in)
		assert.ElementsMatch(t, Categories, keys(got))
	}
}

func TestNormalizeFloorsAndDropsUnmapped(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.Normalize(SourceCrosby, map[string]float64{
		"Citrus":       3.9,
		"Catty":        5,
		"Pungent/Dank": 4,
	})

	want := Default().Empty()
	want[Citrus] = 3
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalized aromas mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLabelCaseFallback(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.Normalize(SourceHopsteiner, map[string]float64{"CITRUSY": 2})

	assert.Equal(t, 2.0, got[Citrus])
}

func TestNormalizeUnknownSourceIsZero(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.Normalize("someone-new", map[string]float64{"Citrus": 5})

	assert.Equal(t, Default().Empty(), got)
}

func TestNormalizeByDisplayName(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.Normalize("Barth Haas", map[string]float64{"Redberries": 2})

	assert.Equal(t, 2.0, got[Berry])
}

func TestApplyReplacesPreviousResult(t *testing.T) {
	n := NewNormalizer(Default())
	h := models.Hop{Name: "Citra"}
	in := map[string]float64{"Citrus": 4, "Tropical": 3}

	n.Apply(&h, SourceYakimaChief, in)
	first := h.Aromas.Clone()
	n.Apply(&h, SourceYakimaChief, in)

	assert.Equal(t, first, h.Aromas)
	assert.Equal(t, 4.0, h.Aromas[Citrus])
	assert.Equal(t, in, h.RawAromaData)
}

func TestFromNotes(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.FromNotes([]string{" Grapefruit ", "PINE", "passion fruit and mango", ""})

	assert.Equal(t, 2.0, got[Citrus])
	assert.Equal(t, 2.0, got[ResinPine])
	assert.Equal(t, 2.0, got[TropicalFruit])
	assert.Equal(t, 0.0, got[Spice])
	assert.ElementsMatch(t, Categories, keys(got))
}

func TestFromNotesMatchesWholeWords(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.FromNotes([]string{"pineapple", "first-gold", "rosemary"})

	assert.Equal(t, 2.0, got[TropicalFruit])
	assert.Zero(t, got[ResinPine])
	assert.Zero(t, got[StoneFruit])
	assert.Zero(t, got[Floral])
}

func TestFromNotesAcceptsPlurals(t *testing.T) {
	n := NewNormalizer(Default())

	got := n.FromNotes([]string{"ripe peaches", "red berries", "pine needles", "Passion  Fruit"})

	assert.Equal(t, 2.0, got[StoneFruit])
	assert.Equal(t, 2.0, got[Berry])
	assert.Equal(t, 2.0, got[ResinPine])
	assert.Equal(t, 2.0, got[TropicalFruit])
	assert.Zero(t, got[Citrus])
}

func TestRescaleBelowThresholdOnlyRounds(t *testing.T) {
	r := NewRescaler(Default())
	tax := Default()

	a := tax.Empty()
	a[Citrus] = 3
	a[Floral] = 1.26
	records := []models.Hop{{Name: "A", Source: "Hopsteiner", Aromas: a}}

	got := r.Rescale(records)

	assert.Equal(t, 3.0, got[0].Aromas[Citrus])
	assert.Equal(t, 1.3, got[0].Aromas[Floral])
}

func TestRescaleAboveThresholdScales(t *testing.T) {
	r := NewRescaler(Default())
	tax := Default()

	a := tax.Empty()
	a[Citrus] = 10
	a[Berry] = 4
	b := tax.Empty()
	b[Spice] = 3
	records := []models.Hop{
		{Name: "A", Source: "Crosby Hops", Aromas: a},
		{Name: "B", Source: "Crosby Hops", Aromas: b},
	}

	got := r.Rescale(records)

	assert.Equal(t, 5.0, got[0].Aromas[Citrus])
	assert.Equal(t, 2.0, got[0].Aromas[Berry])
	assert.Equal(t, 1.5, got[1].Aromas[Spice])
	assert.Equal(t, 10.0, a[Citrus], "input vector must not be modified")
}

func TestRescaleGroupsPerSource(t *testing.T) {
	r := NewRescaler(Default())
	tax := Default()

	loud := tax.Empty()
	loud[Citrus] = 20
	quiet := tax.Empty()
	quiet[Citrus] = 4

	got := r.Rescale([]models.Hop{
		{Name: "A", Source: "Crosby Hops", Aromas: loud},
		{Name: "B", Source: "Barth Haas", Aromas: quiet},
	})

	assert.Equal(t, 5.0, got[0].Aromas[Citrus])
	assert.Equal(t, 4.0, got[1].Aromas[Citrus])
}

func TestRescaleUnknownSourceUntouched(t *testing.T) {
	r := NewRescaler(Default())
	a := models.Aromas{Citrus: 40}

	got := r.Rescale([]models.Hop{{Name: "X", Source: "Elsewhere", Aromas: a}})

	assert.Equal(t, models.Aromas{Citrus: 40}, got[0].Aromas)
}

func TestRescaleUsesSourceIDForRenamedSupplier(t *testing.T) {
	r := NewRescaler(Default())
	n := NewNormalizer(Default())

	h := models.Hop{Name: "Citra", Source: "Crosby Hop Farm", SourceID: SourceCrosby}
	n.Apply(&h, SourceCrosby, map[string]float64{"Citrus": 10, "Floral": 4})

	got := r.Rescale([]models.Hop{h})

	assert.Equal(t, 5.0, got[0].Aromas[Citrus])
	assert.Equal(t, 2.0, got[0].Aromas[Floral])
}

func TestRescaleAllZero(t *testing.T) {
	r := NewRescaler(Default())

	got := r.Rescale([]models.Hop{{Name: "A", Source: "Hopsteiner"}})

	assert.Equal(t, Default().Empty(), got[0].Aromas)
}

func TestNewTaxonomyValidation(t *testing.T) {
	_, err := NewTaxonomy(nil, nil, nil)
	assert.True(t, errors.Is(err, ErrNoCategories))

	_, err = NewTaxonomy([]string{Citrus, Citrus}, nil, nil)
	assert.True(t, errors.Is(err, ErrDuplicateCategory))

	_, err = NewTaxonomy([]string{Citrus}, []SourceTable{{ID: "x", Labels: map[string]string{"Lemon": "Sour"}}}, nil)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, err = NewTaxonomy([]string{Citrus}, []SourceTable{{Labels: map[string]string{"Lemon": Citrus}}}, nil)
	assert.True(t, errors.Is(err, ErrMissingSourceID))
}

func TestExtendAddsLabelsWithoutTouchingBase(t *testing.T) {
	base := Default()

	ext, err := base.Extend([]SourceTable{
		{ID: SourceCrosby, Labels: map[string]string{"Pungent/Dank": ResinPine}},
		{ID: "newcomer", DisplayName: "New Hop Co", Labels: map[string]string{"Zesty": Citrus}},
	})
	require.NoError(t, err)

	c, ok := ext.Category(SourceCrosby, "Pungent/Dank")
	assert.True(t, ok)
	assert.Equal(t, ResinPine, c)
	_, ok = ext.Category(SourceCrosby, "Citrus")
	assert.True(t, ok)
	assert.True(t, ext.Has("New Hop Co"))

	_, ok = base.Category(SourceCrosby, "Pungent/Dank")
	assert.False(t, ok)
	assert.False(t, base.Has("newcomer"))
}

func TestDisplayName(t *testing.T) {
	tax := Default()

	assert.Equal(t, "Crosby Hops", tax.DisplayName(SourceCrosby))
	assert.Equal(t, "Crosby Hops", tax.DisplayName("crosby hops"))
	assert.Empty(t, tax.DisplayName("nobody"))
}
