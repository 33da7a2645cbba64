// Package app wires the ledger services over one database handle.
// Every front-end (CLI, forms, HTTP) builds the same graph through it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MrJamesThe3rd/ledger/internal/budget"
	budgetstore "github.com/MrJamesThe3rd/ledger/internal/budget/store"
	"github.com/MrJamesThe3rd/ledger/internal/category"
	categorystore "github.com/MrJamesThe3rd/ledger/internal/category/store"
	"github.com/MrJamesThe3rd/ledger/internal/config"
	"github.com/MrJamesThe3rd/ledger/internal/database"
	"github.com/MrJamesThe3rd/ledger/internal/export"
	"github.com/MrJamesThe3rd/ledger/internal/importer"
	"github.com/MrJamesThe3rd/ledger/internal/matching"
	matchingstore "github.com/MrJamesThe3rd/ledger/internal/matching/store"
	"github.com/MrJamesThe3rd/ledger/internal/payment"
	paymentstore "github.com/MrJamesThe3rd/ledger/internal/payment/store"
	"github.com/MrJamesThe3rd/ledger/internal/record"
	recordstore "github.com/MrJamesThe3rd/ledger/internal/record/store"
	"github.com/MrJamesThe3rd/ledger/internal/stats"
)

type App struct {
	DB *database.DB

	Categories *category.Service
	Methods    *payment.Service
	Records    *record.Service
	Budgets    *budget.Service
	Stats      *stats.Service
	Rules      *matching.Service
	Importer   *importer.Service
	Exporter   *export.Service

	// DefaultThreshold is used when a budget is set without an explicit threshold.
	DefaultThreshold float64
}

type Option func(*options)

type options struct {
	defaultMethod    string
	defaultThreshold float64
}

func WithDefaultPaymentMethod(name string) Option {
	return func(o *options) { o.defaultMethod = name }
}

func WithDefaultThreshold(t float64) Option {
	return func(o *options) { o.defaultThreshold = t }
}

// New builds the service graph over an already bootstrapped database.
func New(db *database.DB, opts ...Option) *App {
	o := options{
		defaultMethod:    record.DefaultPaymentMethod,
		defaultThreshold: budget.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		categoryService = category.NewService(categorystore.New(db))
		methodService   = payment.NewService(paymentstore.New(db))
		recordService   = record.NewService(recordstore.New(db), categoryService, methodService,
			record.WithDefaultPaymentMethod(o.defaultMethod))
		ruleService = matching.NewService(matchingstore.New(db), categoryService)
	)

	return &App{
		DB:               db,
		Categories:       categoryService,
		Methods:          methodService,
		Records:          recordService,
		Budgets:          budget.NewService(budgetstore.New(db), categoryService, recordService),
		Stats:            stats.NewService(recordService, categoryService, methodService),
		Rules:            ruleService,
		Importer:         importer.NewService(recordService, ruleService),
		Exporter:         export.NewService(recordService, categoryService, methodService),
		DefaultThreshold: budget.ClampThreshold(o.defaultThreshold),
	}
}

// Open connects to the configured database, bootstraps it and builds the App.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	dialect, dsn, err := cfg.DataSource()
	if err != nil {
		return nil, err
	}

	if dialect == database.SQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := database.New(dialect, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Bootstrap(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping %s database: %w", dialect, err)
	}

	slog.Debug("database ready", "driver", dialect)

	return New(db,
		WithDefaultPaymentMethod(cfg.Ledger.DefaultPaymentMethod),
		WithDefaultThreshold(cfg.Ledger.DefaultThreshold),
	), nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
