package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"philcali.me/catalog/internal/config"
	"philcali.me/catalog/internal/export"
	"philcali.me/catalog/internal/logging"
)

func run(ctx context.Context, cfg *config.Export) error {
	items, err := export.NewClient(cfg).FetchAll(ctx)
	if err != nil {
		return err
	}
	file, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	written, skipped, err := export.WriteCSV(file, items)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	log.Info().
		Int("written", written).
		Int("skipped", skipped).
		Str("output", cfg.Output).
		Msg("Exported product URLs")
	return nil
}

func main() {
	cfg, err := config.LoadExport()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger := logging.Setup(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(logger.WithContext(ctx), cfg); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Export failed")
	}
}
