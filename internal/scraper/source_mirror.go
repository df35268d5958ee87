package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"hopdb/internal/catalog"
	"hopdb/pkg/models"
)

// Mirror reads a supplier's raw records from a mirror server instead of the
// supplier itself. Records are taken as already normalized.
type Mirror struct {
	meta
	BaseURL string
	Slug    string
	Client  *HTTPClient
}

// FetchAll fetches and decodes the mirrored records.
//
// Expected response:
//
//	GET {BaseURL}/sources/{Slug}
//	[
//	  {"name": "Citra", "source": "Yakima Chief Hops", "alpha_from": 11, ...},
//	  ...
//	]
func (s *Mirror) FetchAll(ctx context.Context) ([]models.Hop, error) {
	endpoint := strings.TrimRight(s.BaseURL, "/") + "/sources/" + url.PathEscape(s.Slug)

	body, _, err := s.Client.GetBytes(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.id, err)
	}
	hops, err := catalog.Read(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: decode json: %w", s.id, err)
	}

	out := hops[:0]
	for _, h := range hops {
		if strings.TrimSpace(h.Name) == "" {
			continue
		}
		if h.Source == "" {
			h.Source = s.name
		}
		if h.SourceID == "" {
			h.SourceID = s.id
		}
		out = append(out, h)
	}
	return out, nil
}
