package scraper

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/titanous/json5"

	"hopdb/pkg/models"
)

// HopsteinerSheetURL prefixes a variety permalink.
const HopsteinerSheetURL = "https://www.hopsteiner.com/variety-data-sheets/"

// hopsteinerLabels translates the dump's numeric aroma ids to Hopsteiner's
// own labels.
var hopsteinerLabels = map[string]string{
	"1": "Fruity",
	"2": "Floral",
	"3": "citrusy",
	"4": "Spicy",
	"5": "Resinous",
	"6": "Herbal",
	"7": "sugar like",
	"8": "Other",
}

// hopsteinerProperties are the extended analytics kept as _from/_to pairs.
var hopsteinerProperties = []string{
	"acid_hardresins",
	"polyphenoles",
	"xantholhumol",
	"oils",
	"humulen",
	"farnesen",
	"linalool_oil",
	"linalool_acid",
}

// Hopsteiner reads a captured dump of the Hopsteiner variety database,
// either from disk or over HTTP.
type Hopsteiner struct {
	meta
	File   string
	URL    string
	Client *HTTPClient
}

func (s *Hopsteiner) FetchAll(ctx context.Context) ([]models.Hop, error) {
	var (
		data []byte
		err  error
	)
	if s.File != "" {
		data, err = os.ReadFile(s.File)
	} else {
		data, _, err = s.Client.GetBytes(ctx, s.URL, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.id, err)
	}

	hops, err := s.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.id, err)
	}
	return hops, nil
}

// Parse decodes a dump of the form {"hops": [...]}. The dump is read
// leniently; entries without a name are skipped.
func (s *Hopsteiner) Parse(data []byte) ([]models.Hop, error) {
	var dump map[string]any
	if err := json5.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	entries, ok := dump["hops"].([]any)
	if !ok {
		return nil, fmt.Errorf("decode dump: no hops array")
	}

	out := make([]models.Hop, 0, len(entries))
	for _, item := range entries {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := textOf(entry["name"])
		if name == "" {
			continue
		}

		h := models.Hop{
			Name:     name,
			Country:  textOf(entry["main_country"]),
			Source:   s.name,
			SourceID: s.id,
		}
		if link := textOf(entry["permalink"]); link != "" {
			h.Href = HopsteinerSheetURL + link
		}

		h.SetRangeText(models.RangeAlpha, textOf(entry["acid_alpha"]))
		h.SetRangeText(models.RangeBeta, textOf(entry["acid_beta"]))
		h.SetRangeText(models.RangeOil, textOf(entry["oils"]))
		h.SetRangeText(models.RangeCohumulone, textOf(entry["cohumulone"]))

		for _, key := range hopsteinerProperties {
			if raw, ok := entry[key]; ok {
				from, to := models.ParseRange(textOf(raw))
				h.SetPropertyRange(key, from, to)
			}
		}

		if spec := textOf(entry["aroma_spec"]); spec != "" {
			h.Notes = splitNotes(spec)
		}

		s.norm.Apply(&h, s.id, hopsteinerNative(entry["aromas"]))
		out = append(out, h)
	}
	return out, nil
}

// hopsteinerNative converts the id keyed aroma object to native labels.
// Unknown ids are dropped.
func hopsteinerNative(v any) map[string]float64 {
	ids, ok := v.(map[string]any)
	if !ok || len(ids) == 0 {
		return nil
	}

	out := make(map[string]float64, len(ids))
	for id, raw := range ids {
		label, ok := hopsteinerLabels[strings.TrimSpace(id)]
		if !ok {
			continue
		}
		if f, ok := numberOf(raw); ok {
			out[label] = f
		}
	}
	return out
}
