package scraper

import (
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"hopdb/internal/aroma"
	"hopdb/pkg/logger"
)

// meta is what every adapter knows about itself.
type meta struct {
	id   string
	name string
	norm *aroma.Normalizer
	log  *logger.Logger
}

func (m meta) Name() string { return m.name }

// numberOf converts a decoded JSON value to a float. Strings are parsed
// leniently; anything else is not a number.
func numberOf(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// textOf renders a decoded JSON scalar as text.
func textOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

// splitNotes splits comma separated tasting notes, dropping blanks.
func splitNotes(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// appendMissing appends the values of extra not already in notes.
func appendMissing(notes []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		seen[n] = struct{}{}
	}
	for _, n := range extra {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		notes = append(notes, n)
	}
	return notes
}

// resolveURL resolves ref against base. Unparseable input is returned as is.
func resolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
