// Package main - Entry point for the ROI calculator HTTP server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pingplotter-roi/api"
	"pingplotter-roi/core/profile"
	"pingplotter-roi/internal/config"
	"pingplotter-roi/internal/logging"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pproi-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfgPath := flag.String("config", os.Getenv("PPROI_CONFIG"), "config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()
	log := logging.Named("server")

	var opts []api.Option
	if path := cfg.Pricing.ProfileFile; path != "" {
		file, err := profile.Load(path)
		if err != nil {
			return err
		}
		opts = append(opts, api.WithSchedule(file.Schedule()))
		log.Info("loaded price schedule", zap.String("file", path), zap.Int("tiers", len(file.Schedule().Tiers)))
	}

	srv := api.NewServer(cfg, version, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
