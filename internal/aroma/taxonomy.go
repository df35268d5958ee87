// Package aroma maps supplier aroma vocabularies onto the canonical aroma
// categories and reconciles supplier intensity scales.
package aroma

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"hopdb/pkg/models"
)

// Canonical aroma categories.
const (
	Citrus        = "Citrus"
	ResinPine     = "Resin/Pine"
	Spice         = "Spice"
	Herbal        = "Herbal"
	Grassy        = "Grassy"
	Floral        = "Floral"
	Berry         = "Berry"
	StoneFruit    = "Stone Fruit"
	TropicalFruit = "Tropical Fruit"
)

// Categories is the default canonical category set, in display order.
var Categories = []string{
	Citrus,
	ResinPine,
	Spice,
	Herbal,
	Grassy,
	Floral,
	Berry,
	StoneFruit,
	TropicalFruit,
}

// Taxonomy errors.
var (
	ErrNoCategories      = errors.New("taxonomy needs at least one category")
	ErrDuplicateCategory = errors.New("duplicate aroma category")
	ErrUnknownCategory   = errors.New("label maps to an unknown aroma category")
	ErrMissingSourceID   = errors.New("source table needs an id")
)

// SourceTable maps one supplier's native aroma labels to canonical
// categories. Several labels may share a category; a label maps to exactly
// one category.
type SourceTable struct {
	ID          string            `yaml:"id"`
	DisplayName string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels"`
}

// Term maps a free-text fragment found in tasting notes to a category.
type Term struct {
	Text     string
	Category string
}

// Taxonomy is the immutable aroma configuration shared by the normalizer
// and the rescaler. Build one with NewTaxonomy or Default; derive variants
// with Extend.
type Taxonomy struct {
	categories []string
	known      map[string]struct{}
	tables     map[string]table
	ids        map[string]string
	terms      []Term
	patterns   []*regexp.Regexp
}

type table struct {
	id          string
	displayName string
	exact       map[string]string
	folded      map[string]string
}

// NewTaxonomy validates and builds a taxonomy.
func NewTaxonomy(categories []string, tables []SourceTable, terms []Term) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrNoCategories
	}

	t := &Taxonomy{
		categories: make([]string, 0, len(categories)),
		known:      make(map[string]struct{}, len(categories)),
		tables:     make(map[string]table, len(tables)),
		ids:        make(map[string]string, len(tables)*2),
	}
	for _, c := range categories {
		if _, dup := t.known[c]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c)
		}
		t.known[c] = struct{}{}
		t.categories = append(t.categories, c)
	}

	for _, st := range tables {
		if err := t.addTable(st); err != nil {
			return nil, err
		}
	}

	for _, term := range terms {
		if _, ok := t.known[term.Category]; !ok {
			return nil, fmt.Errorf("%w: term %q -> %q", ErrUnknownCategory, term.Text, term.Category)
		}
		text := strings.ToLower(strings.TrimSpace(term.Text))
		if text == "" {
			continue
		}
		t.terms = append(t.terms, Term{Text: text, Category: term.Category})
		t.patterns = append(t.patterns, termPattern(text))
	}

	return t, nil
}

func (t *Taxonomy) addTable(st SourceTable) error {
	key := foldKey(st.ID)
	if key == "" {
		return ErrMissingSourceID
	}

	tb, ok := t.tables[key]
	if !ok {
		tb = table{
			id:     strings.TrimSpace(st.ID),
			exact:  make(map[string]string),
			folded: make(map[string]string),
		}
	}
	if st.DisplayName != "" {
		tb.displayName = st.DisplayName
	}

	for label, category := range st.Labels {
		if _, ok := t.known[category]; !ok {
			return fmt.Errorf("%w: %s label %q -> %q", ErrUnknownCategory, tb.id, label, category)
		}
		tb.exact[label] = category
		tb.folded[foldKey(label)] = category
	}

	t.tables[key] = tb
	t.ids[key] = key
	if tb.displayName != "" {
		t.ids[foldKey(tb.displayName)] = key
	}
	return nil
}

// Extend returns a new taxonomy with extra label tables layered over t.
// Labels in tables replace existing entries for the same label.
func (t *Taxonomy) Extend(tables []SourceTable) (*Taxonomy, error) {
	base := make([]SourceTable, 0, len(t.tables)+len(tables))
	for _, tb := range t.tables {
		labels := make(map[string]string, len(tb.exact))
		for k, v := range tb.exact {
			labels[k] = v
		}
		base = append(base, SourceTable{ID: tb.id, DisplayName: tb.displayName, Labels: labels})
	}
	return NewTaxonomy(t.categories, append(base, tables...), t.terms)
}

// Categories returns a copy of the canonical category set.
func (t *Taxonomy) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

// Empty returns a vector with every category set to 0.
func (t *Taxonomy) Empty() models.Aromas {
	out := make(models.Aromas, len(t.categories))
	for _, c := range t.categories {
		out[c] = 0
	}
	return out
}

// Complete returns a vector holding exactly the canonical categories, taking
// values from a where present. Keys outside the taxonomy are dropped.
func (t *Taxonomy) Complete(a models.Aromas) models.Aromas {
	out := t.Empty()
	for c := range out {
		if v, ok := a[c]; ok {
			out[c] = v
		}
	}
	return out
}

// Category resolves a native label for the given source. Exact matches win
// over case-insensitive ones.
func (t *Taxonomy) Category(source, label string) (string, bool) {
	tb, ok := t.table(source)
	if !ok {
		return "", false
	}
	if c, ok := tb.exact[label]; ok {
		return c, true
	}
	c, ok := tb.folded[foldKey(label)]
	return c, ok
}

// Has reports whether source, by id or display name, has a registered table.
func (t *Taxonomy) Has(source string) bool {
	_, ok := t.table(source)
	return ok
}

// DisplayName returns the supplier name registered for source, or "" when
// the source is unknown or has none.
func (t *Taxonomy) DisplayName(source string) string {
	tb, ok := t.table(source)
	if !ok {
		return ""
	}
	return tb.displayName
}

// Terms returns the free-text note terms.
func (t *Taxonomy) Terms() []Term {
	out := make([]Term, len(t.terms))
	copy(out, t.terms)
	return out
}

func (t *Taxonomy) table(source string) (table, bool) {
	key, ok := t.ids[foldKey(source)]
	if !ok {
		return table{}, false
	}
	tb, ok := t.tables[key]
	return tb, ok
}

// termPattern matches text as a whole word or phrase, allowing a plural
// ending on the last word ("berry" matches "berries", "peach" "peaches").
func termPattern(text string) *regexp.Regexp {
	words := strings.Fields(text)
	last := words[len(words)-1]
	stem, plural := regexp.QuoteMeta(last), "(?:e?s)?"
	if strings.HasSuffix(last, "y") && len(last) > 1 {
		stem, plural = regexp.QuoteMeta(last[:len(last)-1]), "(?:y|ies)"
	}
	parts := make([]string, 0, len(words))
	for _, w := range words[:len(words)-1] {
		parts = append(parts, regexp.QuoteMeta(w))
	}
	parts = append(parts, stem+plural)
	return regexp.MustCompile(`\b` + strings.Join(parts, `\s+`) + `\b`)
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
