// Package cli implements the interactive console for supplytrack: a small
// read-eval-print loop over the record store plus input helpers. It holds no
// inventory state of its own.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"

	"supplytrack/internal/audit"
	"supplytrack/internal/config"
	"supplytrack/internal/logging"
	"supplytrack/internal/report"
	"supplytrack/internal/store"
)

type App struct {
	store  *store.Store
	sink   audit.Sink
	config *config.Config
	log    logging.Logger
	source report.Source
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(st *store.Store, sink audit.Sink, cfg *config.Config, source report.Source, log logging.Logger) *App {
	return &App{
		store:  st,
		sink:   sink,
		config: cfg,
		log:    log,
		source: source,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) reportPath() string {
	return filepath.Join(a.config.DataDir, a.config.ReportFile)
}

func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.reader, a.out)
}
