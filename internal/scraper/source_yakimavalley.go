package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"hopdb/pkg/models"
)

const (
	yakimaValleyPageSize   = 200
	yakimaValleyCollection = "all-hops"
	// upper bound on pages in case the API never returns an empty page
	yakimaValleyMaxPages = 100
)

// handles that name shop sections rather than aromas
var yakimaValleyIgnoredHandles = []string{
	"hops", "pellets", "regions", "sale", "domestic", "international", "crop-closeout", "all",
}

var yakimaValleyExcluded = []string{"blend", "kit", "lupomax"}

var (
	yvAlphaPattern = regexp.MustCompile(`(?i)Alpha Acids[:\s*]+([\d.\s-]+%)`)
	yvBetaPattern  = regexp.MustCompile(`(?i)Beta Acids[:\s*]+([\d.\s-]+%)`)
	yvOilPattern   = regexp.MustCompile(`(?i)Total Oil[:\s*]+([\d.\s-]+)`)
)

// YakimaValley pages through the Yakima Valley Hops product search API.
type YakimaValley struct {
	meta
	URL    string
	Vendor string
	Client *HTTPClient
}

type searchResponse struct {
	Results []SearchProduct `json:"results"`
}

// SearchProduct is one result of the product search API.
type SearchProduct struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	// a list of handles, or a single handle on some records
	CollectionHandle any `json:"collection_handle"`
}

func (s *YakimaValley) FetchAll(ctx context.Context) ([]models.Hop, error) {
	siteID := searchSiteID(s.URL)

	var out []models.Hop
	for page := 1; page <= yakimaValleyMaxPages; page++ {
		query := map[string]string{
			"resultsFormat":  "json",
			"siteId":         siteID,
			"q":              "",
			"page":           strconv.Itoa(page),
			"resultsPerPage": strconv.Itoa(yakimaValleyPageSize),
			"collection":     yakimaValleyCollection,
		}
		if s.Vendor != "" {
			query["filter.vendor"] = s.Vendor
		}

		var res searchResponse
		if err := s.Client.GetJSON(ctx, s.URL, query, &res); err != nil {
			return nil, fmt.Errorf("%s: page %d: %w", s.id, page, err)
		}
		if len(res.Results) == 0 {
			break
		}
		s.log.Debug("search page", "source", s.id, "page", page, "results", len(res.Results))

		for _, p := range res.Results {
			if h, ok := s.ParseProduct(p); ok {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

// searchSiteID takes the site id from the API host, "<id>.a.searchspring.io".
func searchSiteID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host, _, _ := strings.Cut(u.Hostname(), ".")
	return host
}

// ParseProduct turns one search result into a record. Only single varieties
// are kept: the name must end in " Hops" and must not be a blend or kit.
func (s *YakimaValley) ParseProduct(p SearchProduct) (models.Hop, bool) {
	lower := strings.ToLower(p.Name)
	if !strings.HasSuffix(lower, " hops") {
		return models.Hop{}, false
	}
	for _, word := range yakimaValleyExcluded {
		if strings.Contains(lower, word) {
			return models.Hop{}, false
		}
	}
	name := strings.TrimSpace(p.Name[:len(p.Name)-len(" hops")])
	if name == "" {
		return models.Hop{}, false
	}

	h := models.Hop{
		Name:     name,
		Source:   s.name,
		SourceID: s.id,
		Href:     p.URL,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.Description))
	if err != nil {
		s.log.Debug("bad description", "hop", name, "error", err)
		doc = nil
	}

	var values map[string]string
	if doc != nil {
		values = yvBrewingValues(doc)
		h.Notes = yvAromaNotes(doc)
	}
	h.Notes = appendMissing(h.Notes, yvHandleNotes(p.CollectionHandle)...)

	h.SetRangeText(models.RangeAlpha, values["Alpha Acids"])
	h.SetRangeText(models.RangeBeta, values["Beta Acids"])
	h.SetRangeText(models.RangeCohumulone, values["Cohumulone"])
	oil := values["Total Oil (mL/100g)"]
	if oil == "" {
		oil = values["Total Oil"]
	}
	h.SetRangeText(models.RangeOil, oil)

	s.norm.ApplyNotes(&h)
	return h, true
}

// yvBrewingValues reads label/value pairs from the description. Tables win
// over bold labels; plain text patterns fill what is still missing.
func yvBrewingValues(doc *goquery.Document) map[string]string {
	values := make(map[string]string)

	doc.Find("table").First().Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() != 2 {
			return
		}
		values[strings.TrimSpace(cells.Eq(0).Text())] = strings.TrimSpace(cells.Eq(1).Text())
	})

	if len(values) == 0 {
		doc.Find("strong").Each(func(_ int, strong *goquery.Selection) {
			label := strong.Text()
			if !strings.Contains(label, ":") {
				return
			}
			key := strings.TrimSpace(strings.ReplaceAll(label, ":", ""))
			values[key] = strings.TrimSpace(followingText(strong))
		})
	}

	text := doc.Text()
	if values["Alpha Acids"] == "" {
		if m := yvAlphaPattern.FindStringSubmatch(text); m != nil {
			values["Alpha Acids"] = m[1]
		}
	}
	if values["Beta Acids"] == "" {
		if m := yvBetaPattern.FindStringSubmatch(text); m != nil {
			values["Beta Acids"] = m[1]
		}
	}
	if values["Total Oil"] == "" && values["Total Oil (mL/100g)"] == "" {
		if m := yvOilPattern.FindStringSubmatch(text); m != nil {
			values["Total Oil (mL/100g)"] = m[1]
		}
	}
	return values
}

// yvAromaNotes reads the notes following the bold "Aroma" label.
func yvAromaNotes(doc *goquery.Document) []string {
	var notes []string
	doc.Find("strong").EachWithBreak(func(_ int, strong *goquery.Selection) bool {
		if !strings.Contains(strong.Text(), "Aroma") {
			return true
		}
		text := strings.TrimSpace(followingText(strong))
		notes = splitNotes(strings.TrimSpace(strings.TrimLeft(text, ":")))
		return false
	})
	return notes
}

// followingText returns the text of the node right after sel.
func followingText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	next := sel.Get(0).NextSibling
	if next == nil {
		return ""
	}
	if next.Type == html.TextNode {
		return next.Data
	}
	return goquery.NewDocumentFromNode(next).Text()
}

// yvHandleNotes turns aroma collection handles ("stone-fruit") into notes.
func yvHandleNotes(v any) []string {
	var handles []string
	switch x := v.(type) {
	case string:
		handles = []string{x}
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok {
				handles = append(handles, s)
			}
		}
	}

	var out []string
	for _, handle := range handles {
		if yvIgnoredHandle(handle) {
			continue
		}
		if note := strings.TrimSpace(strings.ReplaceAll(handle, "-", " ")); note != "" {
			out = append(out, note)
		}
	}
	return out
}

func yvIgnoredHandle(handle string) bool {
	for _, word := range yakimaValleyIgnoredHandles {
		if strings.Contains(handle, word) {
			return true
		}
	}
	return false
}
