package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hopdb/pkg/models"
)

// Run identifies one pipeline execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun starts a run with a fresh id.
func NewRun(now time.Time) Run {
	return Run{ID: uuid.NewString(), StartedAt: now.UTC()}
}

// SaveRun stores a run in one transaction: the run row, every raw record as
// its JSON payload, and the merged catalog upserted by name.
func SaveRun(ctx context.Context, db *sql.DB, run Run, raw, merged []models.Hop) error {
	if run.ID == "" {
		return fmt.Errorf("save run: missing run id")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, raw_count, merged_count)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), len(raw), len(merged)); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	rawStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO source_hops (run_id, source, name, payload)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare raw stmt: %w", err)
	}
	defer rawStmt.Close()

	for _, h := range raw {
		h.Ensure()
		payload, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("marshal raw record %s: %w", h.Name, err)
		}
		if _, err := rawStmt.ExecContext(ctx, run.ID, h.Source, h.Name, string(payload)); err != nil {
			return fmt.Errorf("insert raw record %s: %w", h.Name, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hops (name, country, source, href,
		  alpha_from, alpha_to, beta_from, beta_to, oil_from, oil_to, co_h_from, co_h_to,
		  notes, aromas, additional_properties, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		  country = excluded.country,
		  source = excluded.source,
		  href = excluded.href,
		  alpha_from = excluded.alpha_from,
		  alpha_to = excluded.alpha_to,
		  beta_from = excluded.beta_from,
		  beta_to = excluded.beta_to,
		  oil_from = excluded.oil_from,
		  oil_to = excluded.oil_to,
		  co_h_from = excluded.co_h_from,
		  co_h_to = excluded.co_h_to,
		  notes = excluded.notes,
		  aromas = excluded.aromas,
		  additional_properties = excluded.additional_properties,
		  run_id = excluded.run_id
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, h := range merged {
		h.Ensure()
		notes, err := json.Marshal(h.Notes)
		if err != nil {
			return fmt.Errorf("marshal notes for %s: %w", h.Name, err)
		}
		aromas, err := json.Marshal(h.Aromas)
		if err != nil {
			return fmt.Errorf("marshal aromas for %s: %w", h.Name, err)
		}
		props, err := json.Marshal(h.AdditionalProperties)
		if err != nil {
			return fmt.Errorf("marshal properties for %s: %w", h.Name, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			h.Name,
			h.Country,
			h.Source,
			h.Href,
			NullMeasure(h.AlphaFrom), NullMeasure(h.AlphaTo),
			NullMeasure(h.BetaFrom), NullMeasure(h.BetaTo),
			NullMeasure(h.OilFrom), NullMeasure(h.OilTo),
			NullMeasure(h.CoHFrom), NullMeasure(h.CoHTo),
			string(notes),
			string(aromas),
			string(props),
			run.ID,
		); err != nil {
			return fmt.Errorf("exec upsert for %s: %w", h.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// NullMeasure stores unknown values as NULL.
func NullMeasure(m models.Measure) sql.NullFloat64 {
	v, ok := m.Value()
	return sql.NullFloat64{Float64: v, Valid: ok}
}
