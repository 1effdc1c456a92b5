// Package domain assembles the courier domain systems on top of the
// infrastructure: the ledger, and on demand, the oracle-backed pipeline.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/courier/internal/classifier"
	"github.com/JaimeStill/courier/internal/config"
	"github.com/JaimeStill/courier/internal/email"
	"github.com/JaimeStill/courier/internal/extract"
	"github.com/JaimeStill/courier/internal/infrastructure"
	"github.com/JaimeStill/courier/internal/ledger"
	"github.com/JaimeStill/courier/internal/oracle"
	"github.com/JaimeStill/courier/internal/orchestrator"
	"github.com/JaimeStill/courier/internal/structured"
)

// Domain holds the systems shared by the CLI and the HTTP server.
type Domain struct {
	Ledger   ledger.System
	Registry *structured.Registry

	cfg   *config.Config
	infra *infrastructure.Infrastructure
}

// New creates the ledger over the infrastructure database. Nothing touches
// the database until Migrate or a ledger call.
func New(cfg *config.Config, infra *infrastructure.Infrastructure) *Domain {
	return &Domain{
		Ledger: ledger.New(
			infra.Database.Connection(),
			infra.Database.Driver(),
			infra.Logger,
			cfg.API.Pagination,
		),
		Registry: structured.DefaultRegistry(),
		cfg:      cfg,
		infra:    infra,
	}
}

// Migrate applies pending ledger migrations.
func (d *Domain) Migrate() error {
	if err := ledger.Migrate(d.infra.Database.Connection(), d.infra.Database.Driver()); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	d.infra.Logger.Info("ledger schema current", "driver", d.infra.Database.Driver())
	return nil
}

// Orchestrator builds the configured oracle and wires the classifier and
// both handlers to it.
func (d *Domain) Orchestrator(ctx context.Context) (*orchestrator.Orchestrator, error) {
	o, err := oracle.New(ctx, &d.cfg.Oracle, d.infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	return d.OrchestratorWith(o), nil
}

// OrchestratorWith wires the pipeline to an existing oracle.
func (d *Domain) OrchestratorWith(o oracle.Oracle) *orchestrator.Orchestrator {
	logger := d.infra.Logger

	return orchestrator.New(
		d.cfg.Pipeline,
		classifier.New(d.Ledger, o, extract.New(logger), logger),
		d.Ledger,
		d.infra.Storage,
		logger,
		email.New(d.Ledger, o, logger),
		structured.New(d.Ledger, d.Registry, logger),
	)
}

// Logger returns the infrastructure logger scoped to module.
func (d *Domain) Logger(module string) *slog.Logger {
	return d.infra.Logger.With("module", module)
}
