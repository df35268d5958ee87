package scraper

import (
	"context"
	"fmt"
	"os"

	"hopdb/internal/catalog"
	"hopdb/pkg/models"
)

// CSVFile reads hand-maintained records from a CSV file. Rows with native
// aroma columns are normalized under the source's id; rows with neither
// native nor canonical aromas are scored from their notes.
type CSVFile struct {
	meta
	File string
}

func (s *CSVFile) FetchAll(ctx context.Context) ([]models.Hop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.File)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.id, err)
	}
	defer f.Close()

	hops, err := catalog.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", s.id, s.File, err)
	}

	for i := range hops {
		h := &hops[i]
		if h.Source == "" {
			h.Source = s.name
		}
		if h.SourceID == "" {
			h.SourceID = s.id
		}
		switch {
		case len(h.RawAromaData) > 0:
			s.norm.Apply(h, s.id, h.RawAromaData)
		case len(h.Aromas) > 0:
			h.Aromas = s.norm.Taxonomy().Complete(h.Aromas)
		default:
			s.norm.ApplyNotes(h)
		}
	}
	return hops, nil
}
