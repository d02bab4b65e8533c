// Package app wires configuration, logging, persistence, auditing, and the
// interactive console into one runnable process.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"supplytrack/internal/audit"
	"supplytrack/internal/backend"
	"supplytrack/internal/backend/file"
	"supplytrack/internal/backend/postgres"
	"supplytrack/internal/backup"
	"supplytrack/internal/cli"
	"supplytrack/internal/config"
	"supplytrack/internal/logging"
	"supplytrack/internal/report"
	"supplytrack/internal/store"
)

// opener binds the backend constructors to the runtime config for the
// selection policy.
type opener struct {
	config *config.Config
	log    logging.Logger
}

func (o *opener) OpenPostgres(ctx context.Context, dsn string) (backend.Backend, error) {
	limits := postgres.Limits{MaxItems: o.config.MaxItems, MaxRequests: o.config.MaxRequests}
	return postgres.Open(ctx, dsn, limits, o.log)
}

func (o *opener) OpenFile() (backend.Backend, error) {
	return file.Open(o.config.DataDir, o.log)
}

type App struct {
	config   *config.Config
	log      logging.Logger
	backend  backend.Backend
	store    *store.Store
	console  *cli.App
	archiver *backup.Archiver
}

// NewApp selects the persistence backend, builds the audit sinks, and loads
// persisted state into a fresh store.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	b, err := backend.Select(ctx, cfg, &opener{config: cfg, log: log}, log)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	sinks := audit.Multi{
		audit.NewFileSink(filepath.Join(cfg.DataDir, cfg.AuditLogFile), log),
	}
	if pg, ok := b.(*postgres.Backend); ok {
		sinks = append(sinks, audit.NewDBSink(pg.DB(), log))
	}

	st := store.New(b, sinks, log, store.Options{
		MaxItems:    cfg.MaxItems,
		MaxRequests: cfg.MaxRequests,
	})
	if err := st.Load(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("load state: %w", err)
	}

	return &App{
		config:   cfg,
		log:      log,
		backend:  b,
		store:    st,
		console:  cli.NewApp(st, sinks, cfg, report.SourceFor(b.Name()), log),
		archiver: backup.NewArchiver(cfg, log),
	}, nil
}

// Run drives the console until the user exits, then flushes and archives
// state. Shutdown persistence errors are logged, never panicked.
func (a *App) Run(ctx context.Context) {
	a.log.Info(ctx, "system ready",
		"backend", a.backend.Name(),
		"items", a.store.Len(),
		"requests", a.store.RequestLen())

	a.console.Run(ctx)
	a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) {
	if err := a.store.SaveAll(ctx); err != nil {
		a.log.Error(ctx, "state not fully saved", "error", err)
	}

	if err := a.archiver.Archive(ctx, a.archivePaths()...); err != nil {
		a.log.Warn(ctx, "offsite archive incomplete", "error", err)
	}

	if err := a.backend.Close(); err != nil {
		a.log.Warn(ctx, "backend close failed", "error", err)
	}
}

// archivePaths lists the local artifacts worth shipping offsite: snapshot
// files when the file backend is active, plus any exported reports.
func (a *App) archivePaths() []string {
	var paths []string
	if fb, ok := a.backend.(*file.Backend); ok {
		paths = append(paths, fb.EquipmentPath(), fb.RequestPath())
	}

	txt := filepath.Join(a.config.DataDir, a.config.ReportFile)
	paths = append(paths, txt, strings.TrimSuffix(txt, filepath.Ext(txt))+".xlsx")
	return paths
}
