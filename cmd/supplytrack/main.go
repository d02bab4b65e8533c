package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"supplytrack/internal/app"
	"supplytrack/internal/buildinfo"
	"supplytrack/internal/config"
	"supplytrack/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
