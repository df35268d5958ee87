package hops

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopdb/internal/scraper"
	"hopdb/pkg/database"
	"hopdb/pkg/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(database.Config{Path: filepath.Join(t.TempDir(), "hopdb.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sample(name, source, country string, alpha float64) models.Hop {
	h := models.Hop{
		Name:    name,
		Source:  source,
		Country: country,
		Notes:   []string{"citrus"},
		Aromas:  models.Aromas{"Citrus": 3.5},
	}
	h.SetRange(models.RangeAlpha, models.Known(alpha), models.Known(alpha+2))
	h.SetPropertyRange("storage", models.Known(60), models.Known(70))
	return h
}

func saveRun(t *testing.T, db *sql.DB, at time.Time, raw, merged []models.Hop) string {
	t.Helper()
	run := scraper.NewRun(at)
	run.FinishedAt = at.Add(time.Minute)
	require.NoError(t, scraper.SaveRun(context.Background(), db, run, raw, merged))
	return run.ID
}

func TestSaveRunAndRead(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	raw := []models.Hop{
		sample("Citra", "Yakima Chief Hops", "", 11),
		sample("Saaz", "Barth Haas", "Czech Republic", 3),
		sample("Saazer", "Crosby Hops", "Czech Republic", 2.5),
	}
	merged := []models.Hop{
		sample("Citra", "Yakima Chief Hops", "", 11),
		sample("Saaz", "Barth Haas / Crosby Hops", "Czech Republic", 2.5),
	}
	runID := saveRun(t, db, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), raw, merged)

	latest, err := repo.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, runID, latest)

	total, err := repo.Count(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	saaz, err := repo.GetByName(ctx, "Saaz")
	require.NoError(t, err)
	require.NotNil(t, saaz)
	assert.Equal(t, "Czech Republic", saaz.Country)
	assert.Equal(t, 2.5, saaz.AlphaFrom.Float())
	assert.Equal(t, 4.5, saaz.AlphaTo.Float())
	assert.False(t, saaz.BetaFrom.IsKnown())
	assert.Equal(t, []string{"citrus"}, saaz.Notes)
	assert.Equal(t, 3.5, saaz.Aromas["Citrus"])
	assert.Equal(t, 70.0, saaz.AdditionalProperties["storage_to"].Float())

	missing, err := repo.GetByName(ctx, "Nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	sources, err := repo.Sources(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, []SourceCount{
		{Source: "Barth Haas", Records: 1},
		{Source: "Crosby Hops", Records: 1},
		{Source: "Yakima Chief Hops", Records: 1},
	}, sources)

	records, err := repo.SourceRecords(ctx, runID, "Crosby Hops")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Saazer", records[0].Name)
	assert.Equal(t, 2.5, records[0].AlphaFrom.Float())
}

func TestSaveRunUpsertsByName(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	first := []models.Hop{sample("Citra", "A", "USA", 11)}
	saveRun(t, db, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), first, first)

	second := []models.Hop{sample("Citra", "A / B", "USA", 10)}
	secondID := saveRun(t, db, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), second, second)

	total, err := repo.Count(ctx, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	citra, err := repo.GetByName(ctx, "Citra")
	require.NoError(t, err)
	assert.Equal(t, "A / B", citra.Source)
	assert.Equal(t, 10.0, citra.AlphaFrom.Float())

	latest, err := repo.LatestRunID(ctx)
	require.NoError(t, err)
	assert.Equal(t, secondID, latest)
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	merged := []models.Hop{
		sample("Cascade", "Barth Haas / Crosby Hops", "USA", 5),
		sample("Citra", "Yakima Chief Hops", "USA", 11),
		sample("Saaz", "Barth Haas", "Czech Republic", 3),
	}
	saveRun(t, db, time.Now(), nil, merged)

	testCases := []struct {
		name string
		q    ListQuery
		want []string
	}{
		{name: "all", q: ListQuery{}, want: []string{"Cascade", "Citra", "Saaz"}},
		{name: "name", q: ListQuery{Q: "CI"}, want: []string{"Citra"}},
		{name: "source", q: ListQuery{Source: "barth"}, want: []string{"Cascade", "Saaz"}},
		{name: "country", q: ListQuery{Country: "usa"}, want: []string{"Cascade", "Citra"}},
		{name: "page", q: ListQuery{Limit: 1, Offset: 1}, want: []string{"Citra"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := repo.List(ctx, tc.q)
			require.NoError(t, err)

			var names []string
			for _, h := range got {
				names = append(names, h.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestLatestRunIDEmpty(t *testing.T) {
	id, err := NewRepo(openTestDB(t)).LatestRunID(context.Background())
	require.NoError(t, err)
	assert.Empty(t, id)
}
