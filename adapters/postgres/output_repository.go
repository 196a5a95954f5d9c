package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"riskuq/domain/core"
	"riskuq/domain/uncertainty"
	"riskuq/ports"
)

// outputRepository implements the OutputRepository interface on top of a
// single JSON payload column, so the table layout never lags the output
// structure.
type outputRepository struct {
	db *sqlx.DB
}

// NewOutputRepository creates a new output repository
func NewOutputRepository(db *sqlx.DB) ports.OutputRepository {
	return &outputRepository{db: db}
}

// Migrate creates the backing table if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	query := `CREATE TABLE IF NOT EXISTS uncertainty_outputs (
		run_id TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create uncertainty_outputs table: %w", err)
	}
	return nil
}

// Save inserts the output, replacing any earlier snapshot of the same run.
func (r *outputRepository) Save(ctx context.Context, out *uncertainty.Output) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	query := `INSERT INTO uncertainty_outputs (run_id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, out.ID.String(), payload, out.Created.Time(), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save output %s: %w", out.ID, err)
	}
	return nil
}

// Load retrieves the output for a run.
func (r *outputRepository) Load(ctx context.Context, id core.RunID) (*uncertainty.Output, error) {
	query := `SELECT payload FROM uncertainty_outputs WHERE run_id = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: run %s", core.ErrOutputNotFound, id)
		}
		return nil, fmt.Errorf("failed to load output %s: %w", id, err)
	}

	var out uncertainty.Output
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal output %s: %w", id, err)
	}
	return &out, nil
}

// Delete removes the output for a run. Deleting an unknown run is not an
// error.
func (r *outputRepository) Delete(ctx context.Context, id core.RunID) error {
	query := `DELETE FROM uncertainty_outputs WHERE run_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id.String()); err != nil {
		return fmt.Errorf("failed to delete output %s: %w", id, err)
	}
	return nil
}
