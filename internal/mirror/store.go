// Package mirror keeps per-source snapshots of raw records on disk and
// serves them over HTTP, so runs can be repeated without the suppliers.
package mirror

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hopdb/internal/catalog"
	"hopdb/pkg/models"
)

// ErrNotFound is returned for a slug with no snapshot.
var ErrNotFound = errors.New("mirror: snapshot not found")

const snapshotExt = ".json"

// Slugify lowercases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else {
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "untitled"
	}
	return out
}

// Store is a directory of "<slug>.json" snapshots.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Snapshot describes one stored source.
type Snapshot struct {
	Slug    string `json:"slug"`
	Records int    `json:"records"`
}

// Write stores the records of one source under the slug of its name and
// returns the file path.
func (s *Store) Write(source string, hops []models.Hop, indent int) (string, error) {
	path := filepath.Join(s.Dir, Slugify(source)+snapshotExt)
	if err := catalog.WriteFile(path, hops, indent); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the raw JSON of a snapshot. The body is checked to be a JSON
// array so a damaged file is reported rather than served.
func (s *Store) Read(slug string) ([]byte, error) {
	if slug == "" || Slugify(slug) != slug {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	b, err := os.ReadFile(filepath.Join(s.Dir, slug+snapshotExt))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}

	var tmp []json.RawMessage
	if err := json.Unmarshal(b, &tmp); err != nil {
		return nil, fmt.Errorf("snapshot %s: invalid JSON: %w", slug, err)
	}
	return b, nil
}

// List returns the stored snapshots sorted by slug.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := []Snapshot{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		slug := strings.TrimSuffix(name, snapshotExt)
		b, err := s.Read(slug)
		if err != nil {
			continue
		}
		var records []json.RawMessage
		_ = json.Unmarshal(b, &records)
		out = append(out, Snapshot{Slug: slug, Records: len(records)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}
