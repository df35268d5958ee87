// Package hops reads stored runs and the merged catalog back from sqlite.
package hops

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hopdb/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

// ListQuery filters the merged catalog.
type ListQuery struct {
	Q       string // substring of the name
	Source  string // substring of the joined source field
	Country string
	Limit   int // 0 means no limit
	Offset  int
}

// SourceCount is the number of raw records a source contributed to a run.
type SourceCount struct {
	Source  string `json:"source"`
	Records int    `json:"records"`
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const hopColumns = `name, country, source, href,
	alpha_from, alpha_to, beta_from, beta_to, oil_from, oil_to, co_h_from, co_h_to,
	notes, aromas, additional_properties`

type scanner interface {
	Scan(dest ...any) error
}

func scanHop(s scanner) (models.Hop, error) {
	var (
		h                     models.Hop
		country, source, href sql.NullString
		bounds                [8]sql.NullFloat64
		notes, aromas, props  string
	)
	if err := s.Scan(
		&h.Name, &country, &source, &href,
		&bounds[0], &bounds[1], &bounds[2], &bounds[3],
		&bounds[4], &bounds[5], &bounds[6], &bounds[7],
		&notes, &aromas, &props,
	); err != nil {
		return models.Hop{}, err
	}

	h.Country = country.String
	h.Source = source.String
	h.Href = href.String
	for i, r := range models.Ranges {
		h.SetRange(r, measureOf(bounds[2*i]), measureOf(bounds[2*i+1]))
	}

	_ = json.Unmarshal([]byte(notes), &h.Notes)
	_ = json.Unmarshal([]byte(aromas), &h.Aromas)
	_ = json.Unmarshal([]byte(props), &h.AdditionalProperties)
	h.Ensure()
	return h, nil
}

func measureOf(v sql.NullFloat64) models.Measure {
	if !v.Valid {
		return models.Unknown()
	}
	return models.Known(v.Float64)
}

// GetByName returns the merged hop with the given name, or nil when absent.
func (r *Repo) GetByName(ctx context.Context, name string) (*models.Hop, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+hopColumns+` FROM hops WHERE name = ?`, name)

	h, err := scanHop(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByName: %w", err)
	}
	return &h, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

// List returns merged hops ordered by name.
func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Hop, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []models.Hop
	for rows.Next() {
		h, err := scanHop(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + hopColumns + ` FROM hops`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM hops`
	}

	var where []string
	var args []any

	if kw := strings.TrimSpace(q.Q); kw != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	if src := strings.TrimSpace(q.Source); src != "" {
		where = append(where, "LOWER(source) LIKE ?")
		args = append(args, "%"+strings.ToLower(src)+"%")
	}
	if country := strings.TrimSpace(q.Country); country != "" {
		where = append(where, "LOWER(country) = ?")
		args = append(args, strings.ToLower(country))
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY name ASC"
		if q.Limit > 0 {
			offset := q.Offset
			if offset < 0 {
				offset = 0
			}
			sqlStr += " LIMIT ? OFFSET ?"
			args = append(args, q.Limit, offset)
		}
	}

	return sqlStr, args
}

// LatestRunID returns the most recently finished run, or "" when there is none.
func (r *Repo) LatestRunID(ctx context.Context) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx, `
		SELECT id FROM runs
		ORDER BY finished_at DESC, started_at DESC
		LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest run: %w", err)
	}
	return id, nil
}

// Sources lists the sources of a run with their record counts, by name.
func (r *Repo) Sources(ctx context.Context, runID string) ([]SourceCount, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT source, COUNT(*)
		FROM source_hops
		WHERE run_id = ?
		GROUP BY source
		ORDER BY source
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("sources query: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Records); err != nil {
			return nil, fmt.Errorf("sources scan: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SourceRecords returns the raw records one source produced in a run, in
// insertion order.
func (r *Repo) SourceRecords(ctx context.Context, runID, source string) ([]models.Hop, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT payload
		FROM source_hops
		WHERE run_id = ? AND source = ?
		ORDER BY id
	`, runID, source)
	if err != nil {
		return nil, fmt.Errorf("source records query: %w", err)
	}
	defer rows.Close()

	var out []models.Hop
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("source records scan: %w", err)
		}
		var h models.Hop
		if err := json.Unmarshal([]byte(payload), &h); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
