package postgres

import (
	"github.com/jmoiron/sqlx"

	"riskuq/internal/errors"
)

// Connect opens and verifies the postgres connection backing the output
// repository.
func Connect(url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("RISKUQ_DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return db, nil
}
