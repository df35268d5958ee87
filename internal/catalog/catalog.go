// Package catalog reads and writes hop catalogs as JSON arrays.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"hopdb/pkg/models"
)

// DefaultIndent is the indentation used for catalog files.
const DefaultIndent = 4

// Write encodes hops as an indented JSON array. Keys follow struct order,
// map keys are sorted and HTML characters are left unescaped so that
// successive runs diff cleanly.
func Write(w io.Writer, hops []models.Hop, indent int) error {
	out := make([]models.Hop, len(hops))
	for i := range hops {
		out[i] = hops[i]
		out[i].Ensure()
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// WriteFile writes hops to path, creating parent directories.
func WriteFile(path string, hops []models.Hop, indent int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, hops, indent); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read decodes a JSON array of hop records.
func Read(r io.Reader) ([]models.Hop, error) {
	var hops []models.Hop
	if err := json.NewDecoder(r).Decode(&hops); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return hops, nil
}

// ReadFile loads a catalog or raw record file.
func ReadFile(path string) ([]models.Hop, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hops, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hops, nil
}

// SortByName orders hops by name ascending, keeping input order for ties.
func SortByName(hops []models.Hop) {
	sort.SliceStable(hops, func(i, j int) bool { return hops[i].Name < hops[j].Name })
}
