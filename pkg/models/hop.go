package models

// Hop is one hop variety. The same shape serves as the per-source record
// produced by an extraction adapter (pre-merge) and as the canonical
// catalog entry produced by the merge engine (post-merge).
//
// Pre-merge, Name keeps the supplier's casing and Source is a single
// supplier name. Post-merge, Name is the capitalized merge key and Source is
// the sorted " / "-joined union of contributing suppliers.
type Hop struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Source  string `json:"source"`
	Href    string `json:"href"`

	// SourceID is the configured id of the adapter that produced a raw
	// record. Merged records leave it empty.
	SourceID string `json:"source_id,omitempty"`

	AlphaFrom Measure `json:"alpha_from"`
	AlphaTo   Measure `json:"alpha_to"`
	BetaFrom  Measure `json:"beta_from"`
	BetaTo    Measure `json:"beta_to"`
	OilFrom   Measure `json:"oil_from"`
	OilTo     Measure `json:"oil_to"`
	CoHFrom   Measure `json:"co_h_from"`
	CoHTo     Measure `json:"co_h_to"`

	Notes  []string `json:"notes"`
	Aromas Aromas   `json:"aromas"`

	// RawAromaData keeps the supplier-native intensities for diagnostics.
	RawAromaData map[string]float64 `json:"raw_aroma_data,omitempty"`

	// AdditionalProperties holds extended supplier metrics, usually as
	// "<key>_from" / "<key>_to" pairs.
	AdditionalProperties map[string]Measure `json:"additional_properties"`
}

// Aromas maps a canonical aroma category to an intensity on a 0-5 scale.
type Aromas map[string]float64

// Clone returns an independent copy of a.
func (a Aromas) Clone() Aromas {
	out := make(Aromas, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Range names one of the four ranged brewing values of a Hop.
type Range string

const (
	RangeAlpha      Range = "alpha"
	RangeBeta       Range = "beta"
	RangeOil        Range = "oil"
	RangeCohumulone Range = "co_h"
)

// Ranges lists the ranged fields in output order.
var Ranges = []Range{RangeAlpha, RangeBeta, RangeOil, RangeCohumulone}

// Bounds returns pointers to the from/to pair for r.
func (h *Hop) Bounds(r Range) (*Measure, *Measure) {
	switch r {
	case RangeAlpha:
		return &h.AlphaFrom, &h.AlphaTo
	case RangeBeta:
		return &h.BetaFrom, &h.BetaTo
	case RangeOil:
		return &h.OilFrom, &h.OilTo
	case RangeCohumulone:
		return &h.CoHFrom, &h.CoHTo
	}
	return nil, nil
}

// SetRange assigns an ordered from/to pair to r.
func (h *Hop) SetRange(r Range, from, to Measure) {
	f, t := h.Bounds(r)
	if f == nil {
		return
	}
	*f, *t = OrderedRange(from, to)
}

// SetRangeText parses supplier text like "13.0 - 17.0 %" into r.
func (h *Hop) SetRangeText(r Range, text string) {
	from, to := ParseRange(text)
	h.SetRange(r, from, to)
}

// SetPropertyRange stores an extended property as a _from/_to pair.
func (h *Hop) SetPropertyRange(key string, from, to Measure) {
	if h.AdditionalProperties == nil {
		h.AdditionalProperties = make(map[string]Measure)
	}
	from, to = OrderedRange(from, to)
	h.AdditionalProperties[key+"_from"] = from
	h.AdditionalProperties[key+"_to"] = to
}

// Ensure replaces nil collections with empty ones so the record encodes
// as [] and {} rather than null.
func (h *Hop) Ensure() {
	if h.Notes == nil {
		h.Notes = []string{}
	}
	if h.Aromas == nil {
		h.Aromas = Aromas{}
	}
	if h.AdditionalProperties == nil {
		h.AdditionalProperties = map[string]Measure{}
	}
}
