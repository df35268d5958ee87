package aroma

import (
	"math"
	"strings"

	"hopdb/pkg/models"
)

// NoteIntensity is the intensity given to a category matched from free text.
const NoteIntensity = 2

// Normalizer converts supplier aroma signals into canonical vectors.
type Normalizer struct {
	tax *Taxonomy
}

func NewNormalizer(tax *Taxonomy) *Normalizer {
	return &Normalizer{tax: tax}
}

// Taxonomy returns the taxonomy the normalizer was built with.
func (n *Normalizer) Taxonomy() *Taxonomy { return n.tax }

// Normalize maps native label intensities for source onto the canonical
// categories. Labels mapping to the same category keep the strongest value.
// Unmapped labels and unregistered sources contribute nothing.
func (n *Normalizer) Normalize(source string, native map[string]float64) models.Aromas {
	out := n.tax.Empty()
	if !n.tax.Has(source) {
		return out
	}
	for label, v := range native {
		category, ok := n.tax.Category(source, label)
		if !ok {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if iv := math.Floor(v); iv > out[category] {
			out[category] = iv
		}
	}
	return out
}

// FromNotes scores tasting notes against the term table. Terms match whole
// words only, so "pineapple" is not read as "pine" or "apple".
func (n *Normalizer) FromNotes(notes []string) models.Aromas {
	out := n.tax.Empty()
	for _, note := range notes {
		text := strings.ToLower(strings.TrimSpace(note))
		if text == "" {
			continue
		}
		for i, term := range n.tax.terms {
			if out[term.Category] >= NoteIntensity {
				continue
			}
			if n.tax.patterns[i].MatchString(text) {
				out[term.Category] = NoteIntensity
			}
		}
	}
	return out
}

// Apply replaces h's aroma vector with the normalized native intensities and
// records the native values as diagnostics.
func (n *Normalizer) Apply(h *models.Hop, source string, native map[string]float64) {
	h.RawAromaData = nil
	if len(native) > 0 {
		h.RawAromaData = make(map[string]float64, len(native))
		for k, v := range native {
			h.RawAromaData[k] = v
		}
	}
	h.Aromas = n.Normalize(source, native)
}

// ApplyNotes replaces h's aroma vector with one derived from h.Notes.
func (n *Normalizer) ApplyNotes(h *models.Hop) {
	h.Aromas = n.FromNotes(h.Notes)
}
