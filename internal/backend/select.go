package backend

import (
	"context"

	"supplytrack/internal/config"
	"supplytrack/internal/logging"
)

// Opener abstracts the two backend constructors so the selection policy can
// be tested without a real database or filesystem.
type Opener interface {
	OpenPostgres(ctx context.Context, dsn string) (Backend, error)
	OpenFile() (Backend, error)
}

// Select picks the persistence backend once per process: PostgreSQL when a
// complete db config file exists and the connection succeeds, local snapshot
// files otherwise. The fallback happens at most once and is logged; only a
// file backend failure is fatal.
func Select(ctx context.Context, cfg *config.Config, op Opener, log logging.Logger) (Backend, error) {
	dbCfg, err := config.LoadDBConfig(cfg.DBConfigPath)
	if dbCfg == nil {
		log.Info(ctx, "no usable database config, using local files", "reason", err)
		return op.OpenFile()
	}

	b, err := op.OpenPostgres(ctx, dbCfg.DSN())
	if err != nil {
		log.Warn(ctx, "database unavailable, falling back to local files",
			"host", dbCfg.Host, "dbname", dbCfg.DBName, "error", err)
		return op.OpenFile()
	}

	log.Info(ctx, "connected to database", "host", dbCfg.Host, "dbname", dbCfg.DBName)
	return b, nil
}
