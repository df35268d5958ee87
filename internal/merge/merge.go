// Package merge folds per-source hop records into one catalog entry per
// hop variety.
package merge

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"hopdb/internal/aroma"
	"hopdb/internal/names"
	"hopdb/pkg/models"
)

// SourceSeparator joins contributing supplier names in a merged record.
const SourceSeparator = " / "

// Engine groups records by merge key and folds each group.
type Engine struct {
	names *names.Normalizer
	tax   *aroma.Taxonomy
}

func NewEngine(n *names.Normalizer, tax *aroma.Taxonomy) *Engine {
	return &Engine{names: n, tax: tax}
}

// Key returns the merge key for a product name.
func (e *Engine) Key(name string) string {
	return e.names.Normalize(name)
}

// Merge returns one record per distinct merge key, in first-seen order.
// Records whose name normalizes to nothing are dropped. The input is not
// modified.
func (e *Engine) Merge(records []models.Hop) []models.Hop {
	groups := make(map[string][]*models.Hop)
	var order []string
	for i := range records {
		key := e.Key(records[i].Name)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], &records[i])
	}

	out := make([]models.Hop, 0, len(order))
	for _, key := range order {
		out = append(out, e.fold(key, groups[key]))
	}
	return out
}

// fold combines one group:
//
//   - name is the capitalized key.
//   - country and href come from the first member that has one.
//   - notes and sources are case-folded/deduplicated and sorted.
//   - ranged values take the widest envelope of known values.
//   - aromas average the positive contributions per category.
func (e *Engine) fold(key string, members []*models.Hop) models.Hop {
	out := models.Hop{
		Name:                 Capitalize(key),
		Notes:                []string{},
		AdditionalProperties: map[string]models.Measure{},
	}

	notes := make(map[string]struct{})
	sources := make(map[string]struct{})
	for _, m := range members {
		if out.Country == "" {
			out.Country = strings.TrimSpace(m.Country)
		}
		if out.Href == "" {
			out.Href = strings.TrimSpace(m.Href)
		}
		for _, n := range m.Notes {
			n = strings.ToLower(strings.TrimSpace(n))
			if n != "" {
				notes[n] = struct{}{}
			}
		}
		for _, s := range strings.Split(m.Source, SourceSeparator) {
			if s = strings.TrimSpace(s); s != "" {
				sources[s] = struct{}{}
			}
		}
	}
	out.Notes = sortedSet(notes)
	out.Source = strings.Join(sortedSet(sources), SourceSeparator)

	for _, r := range models.Ranges {
		var env envelope
		for _, m := range members {
			from, to := m.Bounds(r)
			env.add(*from, *to)
		}
		out.SetRange(r, env.from, env.to)
	}

	props := make(map[string]*envelope)
	for _, m := range members {
		for k, v := range m.AdditionalProperties {
			base, from, to := splitProperty(k, v)
			env, ok := props[base]
			if !ok {
				env = &envelope{}
				props[base] = env
			}
			env.add(from, to)
		}
	}
	for base, env := range props {
		out.SetPropertyRange(base, env.from, env.to)
	}

	out.Aromas = e.averageAromas(members)
	return out
}

func (e *Engine) averageAromas(members []*models.Hop) models.Aromas {
	out := e.tax.Empty()
	for c := range out {
		var sum float64
		var n int
		for _, m := range members {
			if v := m.Aromas[c]; v > 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			out[c] = models.Round(sum/float64(n), 2)
		}
	}
	return out
}

// envelope tracks min(from) and max(to) over known values only.
type envelope struct {
	from, to models.Measure
}

func (e *envelope) add(from, to models.Measure) {
	if v, ok := from.Value(); ok {
		if cur, known := e.from.Value(); !known || v < cur {
			e.from = from
		}
	}
	if v, ok := to.Value(); ok {
		if cur, known := e.to.Value(); !known || v > cur {
			e.to = to
		}
	}
}

// splitProperty maps "x_from" and "x_to" to base key x. A plain key counts
// as both ends of its own range.
func splitProperty(key string, v models.Measure) (string, models.Measure, models.Measure) {
	switch {
	case strings.HasSuffix(key, "_from"):
		return strings.TrimSuffix(key, "_from"), v, models.Unknown()
	case strings.HasSuffix(key, "_to"):
		return strings.TrimSuffix(key, "_to"), models.Unknown(), v
	}
	return key, v, v
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
