package catalog

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopdb/pkg/models"
)

func brewHop(name string, alpha, beta, oil, coh float64) models.Hop {
	h := models.Hop{Name: name, Source: "Barth Haas"}
	h.SetRange(models.RangeAlpha, models.Known(alpha), models.Known(alpha))
	h.SetRange(models.RangeBeta, models.Known(beta), models.Known(beta))
	h.SetRange(models.RangeOil, models.Known(oil), models.Known(oil))
	h.SetRange(models.RangeCohumulone, models.Known(coh), models.Known(coh))
	return h
}

func TestCompareParametersAndNormalization(t *testing.T) {
	c := Compare([]models.Hop{
		brewHop("Magnum", 14, 6, 2, 25),
		brewHop("Hulk", 30, 12, 5, 60),
	})

	require.Len(t, c.Hops, 2)
	assert.Equal(t, HopParameters{
		Name: "Magnum", Source: "Barth Haas", BrewingPurpose: models.PurposeDualPurpose,
		Alpha: 14, Beta: 6, Oil: 2, Cohumulone: 25,
	}, c.Hops[0])

	want := []NormalizedParameters{
		{Name: "Magnum", Alpha: 7, Beta: 6, Oil: 5, Cohumulone: 5},
		{Name: "Hulk", Alpha: 10, Beta: 10, Oil: 10, Cohumulone: 10},
	}
	if diff := cmp.Diff(want, c.Normalized, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("normalized mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareMissingValuesNormalizeToZero(t *testing.T) {
	c := Compare([]models.Hop{{Name: "Unknown"}})

	assert.Equal(t, NormalizedParameters{Name: "Unknown"}, c.Normalized[0])
}

func TestCompareRecommendations(t *testing.T) {
	bittering := brewHop("Magnum", 14, 6, 1.5, 25)
	aroma := brewHop("Saaz", 3.5, 4, 1.6, 24)
	dual := brewHop("Citra", 12, 3.5, 2.5, 22)

	cases := []struct {
		name string
		hops []models.Hop
		want string
	}{
		{"all bittering", []models.Hop{bittering, bittering}, RecommendBittering},
		{"all aroma", []models.Hop{aroma, aroma}, RecommendAroma},
		{"mixed", []models.Hop{bittering, aroma}, RecommendMixed},
		{"dual purpose only", []models.Hop{dual}, RecommendMixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{tc.want}, Compare(tc.hops).Recommendations)
		})
	}
}

func TestCompareEmpty(t *testing.T) {
	c := Compare(nil)

	assert.Empty(t, c.Hops)
	assert.Empty(t, c.Normalized)
	assert.Empty(t, c.Recommendations)
}

func TestRenderComparison(t *testing.T) {
	var buf bytes.Buffer

	RenderComparison(&buf, Compare([]models.Hop{brewHop("Hulk", 30, 12, 5, 60)}))

	out := buf.String()
	assert.Contains(t, out, "Hulk")
	assert.Contains(t, out, "10.0")
	assert.Contains(t, out, RecommendMixed)
}
