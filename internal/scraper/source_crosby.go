package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"hopdb/pkg/models"
)

// Crosby reads the Crosby Hops catalog. The catalog page only links to the
// varieties, so every variety page is fetched on its own by a bounded pool.
type Crosby struct {
	meta
	URL        string
	Client     *HTTPClient
	MaxWorkers int
}

func (s *Crosby) FetchAll(ctx context.Context) ([]models.Hop, error) {
	doc, err := s.Client.GetDocument(ctx, s.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: catalog: %w", s.id, err)
	}
	links := s.Links(doc)
	s.log.Debug("catalog links", "source", s.id, "links", len(links))

	pages := make([]*models.Hop, len(links))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.MaxWorkers, 1))
	for i, link := range links {
		g.Go(func() error {
			page, err := s.Client.GetDocument(gctx, link)
			if err != nil {
				// one broken page should not drop the whole catalog
				s.log.Warn("page failed", "source", s.id, "url", link, "error", err)
				return nil
			}
			if h, ok := s.ParsePage(page, link); ok {
				pages[i] = &h
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Hop, 0, len(pages))
	for _, h := range pages {
		if h != nil {
			out = append(out, *h)
		}
	}
	s.log.Info("pages parsed", "source", s.id, "parsed", len(out), "links", len(links))
	return out, nil
}

// Links returns the distinct variety page URLs on the catalog page, sorted.
func (s *Crosby) Links(doc *goquery.Document) []string {
	set := make(map[string]struct{})
	doc.Find("a.result-item").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, "hop-catalog") {
			return
		}
		set[resolveURL(s.URL, href)] = struct{}{}
	})

	out := make([]string, 0, len(set))
	for link := range set {
		out = append(out, link)
	}
	sort.Strings(out)
	return out
}

// ParsePage extracts one variety page. Pages without a heading are skipped.
func (s *Crosby) ParsePage(doc *goquery.Document, pageURL string) (models.Hop, bool) {
	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		return models.Hop{}, false
	}
	heading.Find("sup").Remove()
	name, country := crosbyNameAndCountry(strings.TrimSpace(heading.Text()))
	if name == "" {
		return models.Hop{}, false
	}

	h := models.Hop{
		Name:     name,
		Country:  country,
		Source:   s.name,
		SourceID: s.id,
		Href:     pageURL,
	}

	if p := doc.Find("div.p-aroma-profile p").First(); p.Length() > 0 {
		h.Notes = splitNotes(p.Text())
	}

	values := make(map[string]string)
	doc.Find("#tab-1 p").Each(func(_ int, p *goquery.Selection) {
		spans := p.Find("span")
		if spans.Length() != 2 {
			return
		}
		key := strings.ToLower(strings.TrimSpace(spans.Eq(0).Text()))
		values[strings.ReplaceAll(key, " ", "_")] = strings.TrimSpace(spans.Eq(1).Text())
	})
	h.SetRangeText(models.RangeAlpha, values["alpha"])
	h.SetRangeText(models.RangeBeta, values["beta"])
	h.SetRangeText(models.RangeOil, values["total_oil"])
	h.SetRangeText(models.RangeCohumulone, values["cohumulone"])
	if storage, ok := values["storage"]; ok {
		from, to := models.ParseRange(storage)
		h.SetPropertyRange("storage", from, to)
	}

	native := crosbyRadar(doc.Find("canvas#radar-chart").First())
	s.norm.Apply(&h, s.id, native)
	return h, true
}

const crosbyHopRev = "Hop Revolution"

var crosbyCountryTag = regexp.MustCompile(`\s*\(\w+\)$`)

// crosbyNameAndCountry derives the origin from the tags Crosby puts in
// variety names and strips them. Untagged varieties are American.
func crosbyNameAndCountry(name string) (string, string) {
	country := "USA"
	switch {
	case strings.HasPrefix(name, "GR "):
		country = "Germany"
		name = name[3:]
	case strings.Contains(name, crosbyHopRev) || strings.HasPrefix(name, "NZ "):
		country = "New Zealand"
		name = strings.ReplaceAll(name, crosbyHopRev, "")
		name = strings.ReplaceAll(name, "NZ ", "")
	case strings.HasPrefix(name, "CZ "):
		country = "Czech Republic"
		name = name[3:]
	}
	name = crosbyCountryTag.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.TrimSpace(name), country
}

// crosbyRadar reads the radar chart labels and values. The published values
// are whole numbers on the chart's own scale.
func crosbyRadar(canvas *goquery.Selection) map[string]float64 {
	labelsAttr, ok1 := canvas.Attr("data-aroma-labels")
	valuesAttr, ok2 := canvas.Attr("data-rv")
	if !ok1 || !ok2 {
		return nil
	}

	var labels []string
	var values []any
	if json.Unmarshal([]byte(labelsAttr), &labels) != nil || json.Unmarshal([]byte(valuesAttr), &values) != nil {
		return nil
	}

	out := make(map[string]float64, len(labels))
	for i, label := range labels {
		if i >= len(values) {
			break
		}
		if v, ok := numberOf(values[i]); ok {
			out[label] = math.Trunc(v)
		}
	}
	return out
}
