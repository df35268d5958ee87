package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"hopdb/pkg/models"
)

// BarthHaas reads the Barth Haas variety overview. Each variety is a card
// whose data attributes carry the brewing values and aroma intensities.
type BarthHaas struct {
	meta
	URL    string
	Client *HTTPClient
}

func (s *BarthHaas) FetchAll(ctx context.Context) ([]models.Hop, error) {
	doc, err := s.Client.GetDocument(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.id, err)
	}
	return s.Parse(doc), nil
}

// Parse extracts every variety card from the overview page.
func (s *BarthHaas) Parse(doc *goquery.Document) []models.Hop {
	var out []models.Hop
	doc.Find("div.section-card-item").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.AttrOr("data-name", ""))
		if name == "" {
			return
		}

		h := models.Hop{
			Name:     name,
			Country:  strings.TrimSpace(card.AttrOr("data-country", "")),
			Source:   s.name,
			SourceID: s.id,
		}
		if href, ok := card.Find("a.section-card-link").First().Attr("href"); ok {
			h.Href = resolveURL(s.URL, href)
		}

		h.SetRange(models.RangeAlpha, attrMeasure(card, "data-alpha-from"), attrMeasure(card, "data-alpha-to"))
		h.SetRange(models.RangeBeta, attrMeasure(card, "data-beta-from"), attrMeasure(card, "data-beta-to"))
		h.SetRange(models.RangeOil, attrMeasure(card, "data-oil-from"), attrMeasure(card, "data-oil-to"))

		card.Find("li").Each(func(_ int, li *goquery.Selection) {
			if note := strings.TrimSpace(li.Text()); note != "" {
				h.Notes = append(h.Notes, note)
			}
		})

		native, err := barthFilterValues(card.AttrOr("data-filter-values", ""))
		if err != nil {
			s.log.Debug("bad filter values", "hop", name, "error", err)
		}
		s.norm.Apply(&h, s.id, native)
		out = append(out, h)
	})
	return out
}

func attrMeasure(sel *goquery.Selection, attr string) models.Measure {
	return models.ParseMeasure(sel.AttrOr(attr, ""))
}

// barthFilterValues decodes the card's aroma JSON. Keys carry a "raw"
// prefix in front of the native label.
func barthFilterValues(raw string) (map[string]float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == `""` {
		return nil, nil
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(decoded))
	for k, v := range decoded {
		f, ok := numberOf(v)
		if !ok {
			continue
		}
		out[strings.TrimPrefix(k, "raw")] = f
	}
	return out, nil
}
