// Package names turns supplier product names into merge keys.
package names

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrAliasCycle is returned when alias targets loop back onto themselves.
var ErrAliasCycle = errors.New("alias table contains a cycle")

// DefaultAliases maps known spelling variants onto one preferred spelling.
// Keys and targets are cleaned before use, so they may be written in any case.
var DefaultAliases = map[string]string{
	"Hallertauer Mittelfrüher": "Hallertau Mittelfrüh",
	"Hallertauer Mittelfrüh":   "Hallertau Mittelfrüh",
	"Hallertauer Mittelfrueh":  "Hallertau Mittelfrüh",
	"Hallertau Mittelfrueh":    "Hallertau Mittelfrüh",
	"Hallertauer Tradition":    "Hallertau Tradition",
	"Hallertauer Blanc":        "Hallertau Blanc",
	"Tettnanger":               "Tettnang",
	"Tettnanger Tettnang":      "Tettnang",
	"Saazer":                   "Saaz",
	"Mt. Hood":                 "Mount Hood",
	"Mt Hood":                  "Mount Hood",
	"East Kent Goldings":       "East Kent Golding",
	"Styrian Golding":          "Styrian Goldings",
	"Savinjski Golding":        "Styrian Goldings",
}

var (
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
	brandWord     = regexp.MustCompile(`\bbrand\b`)
	regionSuffix  = regexp.MustCompile(`\s*-\s*[a-z]{2,3}$`)
	spaces        = regexp.MustCompile(`\s+`)
	dropRunes     = strings.NewReplacer("'", "", "’", "", "(", "", ")", "")
	markRunes     = strings.NewReplacer("®", " ", "™", " ", "©", " ")
)

// Clean applies the generic name rules without consulting any alias table.
// It lower-cases, removes trademark marks, parenthetical notes and the word
// "brand", and strips a trailing "- xx" region code. The rules run until the
// result stops changing.
func Clean(raw string) string {
	s := raw
	for {
		next := cleanOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = markRunes.Replace(s)
	s = parenthetical.ReplaceAllString(s, " ")
	s = dropRunes.Replace(s)
	s = brandWord.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = regionSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Normalizer produces merge keys: Clean followed by an exact alias lookup.
type Normalizer struct {
	aliases map[string]string
}

// New builds a Normalizer. Alias chains (a -> b -> c) are collapsed so that
// every key maps straight to its final spelling.
func New(aliases map[string]string) (*Normalizer, error) {
	cleaned := make(map[string]string, len(aliases))
	for from, to := range aliases {
		k, v := Clean(from), Clean(to)
		if k == "" || v == "" || k == v {
			continue
		}
		cleaned[k] = v
	}

	resolved := make(map[string]string, len(cleaned))
	for k := range cleaned {
		seen := map[string]bool{k: true}
		v := cleaned[k]
		for {
			next, ok := cleaned[v]
			if !ok {
				break
			}
			if seen[v] {
				return nil, fmt.Errorf("%w: %q", ErrAliasCycle, k)
			}
			seen[v] = true
			v = next
		}
		resolved[k] = v
	}

	return &Normalizer{aliases: resolved}, nil
}

// Default returns a Normalizer using DefaultAliases.
func Default() *Normalizer {
	n, err := New(DefaultAliases)
	if err != nil {
		panic("names: invalid built-in aliases: " + err.Error())
	}
	return n
}

// WithAliases returns a Normalizer with extra aliases layered over n's.
func (n *Normalizer) WithAliases(extra map[string]string) (*Normalizer, error) {
	all := make(map[string]string, len(n.aliases)+len(extra))
	for k, v := range n.aliases {
		all[k] = v
	}
	for k, v := range extra {
		all[k] = v
	}
	return New(all)
}

// Normalize returns the merge key for raw. An empty result means the name
// carries nothing to merge on.
func (n *Normalizer) Normalize(raw string) string {
	key := Clean(raw)
	if target, ok := n.aliases[key]; ok {
		return target
	}
	return key
}

// Aliases returns the resolved alias table sorted by key.
func (n *Normalizer) Aliases() [][2]string {
	out := make([][2]string, 0, len(n.aliases))
	for k, v := range n.aliases {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
