package scraper

import (
	"context"
	"time"

	"hopdb/internal/aroma"
	"hopdb/internal/catalog"
	"hopdb/internal/merge"
	"hopdb/pkg/logger"
	"hopdb/pkg/models"
)

// Source is implemented by each supplier adapter (HTML catalog, JSON API,
// captured dump or local mirror). Each source is responsible for fetching its
// own data format and mapping it into aroma-normalized Hop records.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Hop, error)
}

// Aggregator runs every source, brings the intensities onto one scale and
// merges the records into the catalog.
type Aggregator struct {
	Sources  []Source
	Rescaler *aroma.Rescaler
	Engine   *merge.Engine
	Log      *logger.Logger
}

// Result is the outcome of one run.
type Result struct {
	// Raw holds the records exactly as the sources produced them.
	Raw    []models.Hop
	Merged []models.Hop
	// Counts is the number of records per source name.
	Counts map[string]int
	Failed []string
}

func NewAggregator(rescaler *aroma.Rescaler, engine *merge.Engine, log *logger.Logger, sources ...Source) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{
		Sources:  sources,
		Rescaler: rescaler,
		Engine:   engine,
		Log:      log.With("component", "scraper"),
	}
}

// FetchAndMerge fetches every source in order and merges the results. A
// failing source contributes nothing; the run only fails when ctx ends.
func (a *Aggregator) FetchAndMerge(ctx context.Context) (*Result, error) {
	res := &Result{Counts: make(map[string]int, len(a.Sources))}

	for _, src := range a.Sources {
		start := time.Now()
		a.Log.Info("fetching source", "source", src.Name())

		hops, err := src.FetchAll(ctx)
		if err != nil {
			a.Log.Warn("source failed", "source", src.Name(), "error", err)
			res.Failed = append(res.Failed, src.Name())
			res.Counts[src.Name()] = 0
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		a.Log.Info("source done", "source", src.Name(), "records", len(hops), "took", time.Since(start))
		res.Counts[src.Name()] = len(hops)
		res.Raw = append(res.Raw, hops...)
	}

	res.Merged = a.Process(res.Raw)
	a.Log.Info("merge done", "raw", len(res.Raw), "merged", len(res.Merged))
	return res, nil
}

// Process rescales, merges and sorts raw records without touching them.
func (a *Aggregator) Process(raw []models.Hop) []models.Hop {
	records := make([]models.Hop, len(raw))
	copy(records, raw)

	if a.Rescaler != nil {
		records = a.Rescaler.Rescale(records)
	}
	merged := a.Engine.Merge(records)
	catalog.SortByName(merged)
	return merged
}
