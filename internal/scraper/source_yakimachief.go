package scraper

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"hopdb/internal/aroma"
	"hopdb/pkg/models"
)

// YakimaChief reads one or more Yakima Chief Hops catalog pages. Pages are
// fetched concurrently but combined in configuration order, and a variety
// already listed on an earlier page is not repeated.
type YakimaChief struct {
	meta
	URLs       []string
	Client     *HTTPClient
	MaxWorkers int
}

func (s *YakimaChief) FetchAll(ctx context.Context) ([]models.Hop, error) {
	pages := make([][]models.Hop, len(s.URLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.MaxWorkers, 1))
	for i, u := range s.URLs {
		g.Go(func() error {
			doc, err := s.Client.GetDocument(gctx, u)
			if err != nil {
				return fmt.Errorf("%s: %w", s.id, err)
			}
			pages[i] = s.Parse(doc, u)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.Combine(pages...), nil
}

// Combine concatenates pages, dropping names seen on an earlier page.
func (s *YakimaChief) Combine(pages ...[]models.Hop) []models.Hop {
	var out []models.Hop
	seen := make(map[string]struct{})
	for _, page := range pages {
		names := make(map[string]struct{}, len(page))
		for _, h := range page {
			if _, dup := seen[h.Name]; dup {
				continue
			}
			names[h.Name] = struct{}{}
			out = append(out, h)
		}
		for n := range names {
			seen[n] = struct{}{}
		}
	}
	return out
}

// Parse extracts the product cards of one catalog page. Cards without a
// name or without aroma labels are skipped.
func (s *YakimaChief) Parse(doc *goquery.Document, pageURL string) []models.Hop {
	var out []models.Hop
	doc.Find("li.product-item").Each(func(_ int, item *goquery.Selection) {
		details := item.Find("div.product-item-details-wrapper").First()
		name := strings.TrimSpace(details.Find("a").First().Text())
		labels := splitNotes(details.Find("p.product-sight").First().Text())
		if name == "" || len(labels) == 0 {
			return
		}

		h := models.Hop{
			Name:     name,
			Source:   s.name,
			SourceID: s.id,
			Notes:    labels,
		}
		if href, ok := item.Find("a.hop").First().Attr("href"); ok {
			h.Href = resolveURL(pageURL, href)
		}

		item.Find("table.product-properties tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			if cells.Length() < 2 {
				return
			}
			key := strings.TrimSpace(strings.Trim(strings.TrimSpace(cells.Eq(0).Text()), ":"))
			if r, ok := yakimaChiefRange(key); ok {
				h.SetRangeText(r, cells.Eq(1).Text())
			}
		})

		// the listed labels are Yakima Chief's own vocabulary, each shown
		// without a strength
		native := make(map[string]float64, len(labels))
		for _, l := range labels {
			native[l] = aroma.NoteIntensity
		}
		s.norm.Apply(&h, s.id, native)
		out = append(out, h)
	})
	return out
}

// yakimaChiefRange maps a property row label to a ranged field.
func yakimaChiefRange(label string) (models.Range, bool) {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "alpha"):
		return models.RangeAlpha, true
	case strings.Contains(l, "beta"):
		return models.RangeBeta, true
	case strings.Contains(l, "co-h"), strings.Contains(l, "cohumulone"):
		return models.RangeCohumulone, true
	case strings.Contains(l, "oil"):
		return models.RangeOil, true
	}
	return "", false
}
