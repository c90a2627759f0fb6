package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"startup_valuation/pkg/api"
	"startup_valuation/pkg/core/config"
	"startup_valuation/pkg/core/logger"
	"startup_valuation/pkg/core/narrative"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	narrators, err := narrative.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build narrators")
	}
	if _, ok := narrators["llm"]; !ok {
		log.Info().Msg("GEMINI_API_KEY not set, llm narrative disabled")
	}

	srv := api.New(cfg, log, narrators)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
