package merge

import (
	"fmt"
	"sort"

	"github.com/antzucaro/matchr"

	"hopdb/pkg/models"
)

// DefaultAliasThreshold is the similarity above which two merge keys are
// reported as likely spellings of one variety.
const DefaultAliasThreshold = 0.92

// AliasSuggestion is a pair of merge keys that look like the same variety.
type AliasSuggestion struct {
	Left       string
	Right      string
	Similarity float64
}

// Keys returns the distinct non-empty merge keys of records, sorted.
func (e *Engine) Keys(records []models.Hop) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		if k := e.Key(r.Name); k != "" {
			set[k] = struct{}{}
		}
	}
	return sortedSet(set)
}

// Select returns the records whose merge key matches each of names, in the
// order of names. An unmatched name is an error.
func (e *Engine) Select(records []models.Hop, names []string) ([]models.Hop, error) {
	byKey := make(map[string]int, len(records))
	for i := range records {
		if k := e.Key(records[i].Name); k != "" {
			if _, ok := byKey[k]; !ok {
				byKey[k] = i
			}
		}
	}

	out := make([]models.Hop, 0, len(names))
	for _, n := range names {
		i, ok := byKey[e.Key(n)]
		if !ok {
			return nil, fmt.Errorf("no hop named %q", n)
		}
		out = append(out, records[i])
	}
	return out, nil
}

// SuggestAliases compares every pair of distinct keys with Jaro-Winkler and
// returns the pairs scoring at least threshold, best first.
func SuggestAliases(keys []string, threshold float64) []AliasSuggestion {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	uniq := sortedSet(set)

	var out []AliasSuggestion
	for i, left := range uniq {
		for _, right := range uniq[i+1:] {
			similarity := matchr.JaroWinkler(left, right, false)
			if similarity >= threshold {
				out = append(out, AliasSuggestion{Left: left, Right: right, Similarity: similarity})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}
		return out[i].Right < out[j].Right
	})
	return out
}
