// Package riskuq assembles the analysis services from environment
// configuration for embedding applications.
package riskuq

import (
	"context"

	"github.com/sirupsen/logrus"

	"riskuq/adapters/excel"
	"riskuq/adapters/postgres"
	"riskuq/app"
	"riskuq/internal/config"
	"riskuq/internal/logging"
	"riskuq/ports"
)

// Runtime bundles the configured pieces a caller needs to run analyses: a
// logger at the configured level and a file store rooted at the configured
// data directory. Batch options carrying the configured parallelism come
// from ImpactOptions and CostBenefitOptions.
type Runtime struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  *excel.Store
}

// NewRuntime loads configuration from the environment and assembles the
// runtime.
func NewRuntime() (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel)
	return &Runtime{
		Config: cfg,
		Logger: logger,
		Store:  excel.NewStore(cfg.DataDir, logger),
	}, nil
}

// ImpactOptions returns impact batch options at the configured parallelism.
// Callers set the breakdown toggles on the returned value.
func (r *Runtime) ImpactOptions() app.ImpactOptions {
	return app.ImpactOptions{Workers: r.Config.Workers}
}

// CostBenefitOptions returns cost-benefit batch options at the configured
// parallelism.
func (r *Runtime) CostBenefitOptions() app.CostBenefitOptions {
	return app.CostBenefitOptions{Workers: r.Config.Workers}
}

// OpenRepository connects to postgres with the configured URL, ensures the
// schema, and returns the output repository together with a close function
// for the underlying connection.
func (r *Runtime) OpenRepository(ctx context.Context) (ports.OutputRepository, func() error, error) {
	db, err := postgres.Connect(r.Config.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewOutputRepository(db), db.Close, nil
}
