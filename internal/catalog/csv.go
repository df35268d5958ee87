package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"hopdb/pkg/models"
)

// CSV column prefixes for map valued fields.
const (
	AromaColumnPrefix    = "aroma:"
	NativeColumnPrefix   = "native:"
	PropertyColumnPrefix = "prop:"
)

// NoteSeparator joins notes inside one CSV cell.
const NoteSeparator = "; "

// ErrMissingNameColumn is returned when a CSV file has no "name" column.
var ErrMissingNameColumn = errors.New("csv: missing name column")

var csvBaseColumns = []string{
	"name", "country", "source", "href",
	"alpha_from", "alpha_to", "beta_from", "beta_to",
	"oil_from", "oil_to", "co_h_from", "co_h_to",
	"notes",
}

// WriteCSV writes hops as CSV. Aroma categories and additional properties
// become one prefixed column each, in sorted order. Unknown values are empty.
func WriteCSV(w io.Writer, hops []models.Hop) error {
	aromaKeys := make(map[string]struct{})
	propKeys := make(map[string]struct{})
	for _, h := range hops {
		for k := range h.Aromas {
			aromaKeys[k] = struct{}{}
		}
		for k := range h.AdditionalProperties {
			propKeys[k] = struct{}{}
		}
	}
	aromas := sortedKeys(aromaKeys)
	props := sortedKeys(propKeys)

	header := append([]string{}, csvBaseColumns...)
	for _, k := range aromas {
		header = append(header, AromaColumnPrefix+k)
	}
	for _, k := range props {
		header = append(header, PropertyColumnPrefix+k)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range hops {
		row := []string{
			h.Name, h.Country, h.Source, h.Href,
			h.AlphaFrom.String(), h.AlphaTo.String(),
			h.BetaFrom.String(), h.BetaTo.String(),
			h.OilFrom.String(), h.OilTo.String(),
			h.CoHFrom.String(), h.CoHTo.String(),
			strings.Join(h.Notes, NoteSeparator),
		}
		for _, k := range aromas {
			row = append(row, strconv.FormatFloat(h.Aromas[k], 'f', -1, 64))
		}
		for _, k := range props {
			row = append(row, h.AdditionalProperties[k].String())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads hops from CSV. Columns are matched by header name, case
// insensitively; unknown columns are ignored and rows without a name are
// skipped. "native:" columns land in RawAromaData for later normalization.
func ReadCSV(r io.Reader) ([]models.Hop, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	columns, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	header := make(map[string]int, len(columns))
	for idx, name := range columns {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	if _, ok := header["name"]; !ok {
		return nil, ErrMissingNameColumn
	}

	var out []models.Hop
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}

		h := models.Hop{
			Name:    valueAt(header, row, "name"),
			Country: valueAt(header, row, "country"),
			Source:  valueAt(header, row, "source"),
			Href:    valueAt(header, row, "href"),
		}
		if h.Name == "" {
			continue
		}
		for _, rg := range models.Ranges {
			from := models.ParseMeasure(valueAt(header, row, string(rg)+"_from"))
			to := models.ParseMeasure(valueAt(header, row, string(rg)+"_to"))
			h.SetRange(rg, from, to)
		}
		for _, note := range strings.Split(valueAt(header, row, "notes"), ";") {
			if note = strings.TrimSpace(note); note != "" {
				h.Notes = append(h.Notes, note)
			}
		}

		for i, col := range columns {
			if i >= len(row) {
				break
			}
			col = strings.TrimSpace(col)
			cell := strings.TrimSpace(row[i])
			lower := strings.ToLower(col)
			switch {
			case strings.HasPrefix(lower, AromaColumnPrefix):
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					if h.Aromas == nil {
						h.Aromas = models.Aromas{}
					}
					h.Aromas[col[len(AromaColumnPrefix):]] = v
				}
			case strings.HasPrefix(lower, NativeColumnPrefix):
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					if h.RawAromaData == nil {
						h.RawAromaData = map[string]float64{}
					}
					h.RawAromaData[col[len(NativeColumnPrefix):]] = v
				}
			case strings.HasPrefix(lower, PropertyColumnPrefix):
				if h.AdditionalProperties == nil {
					h.AdditionalProperties = map[string]models.Measure{}
				}
				h.AdditionalProperties[col[len(PropertyColumnPrefix):]] = models.ParseMeasure(cell)
			}
		}
		out = append(out, h)
	}
	return out, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
