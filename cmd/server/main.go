package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/config"
	"github.com/eviejd/CSCXUPC-Hackathon/internal/server"
	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Auction state ---
	seed := cfg.RandSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	svc := taskauction.NewService(taskauction.ServiceConfig{
		RoundStartingPoints:     cfg.RoundStartingPoints,
		DirectoryStartingPoints: cfg.DirectoryStartingPoints,
		Timing: taskauction.RoundTiming{
			Handover:  time.Duration(cfg.HandoverSeconds) * time.Second,
			BidWindow: time.Duration(cfg.BidWindowSeconds) * time.Second,
		},
		RoundAuctionWindow: cfg.RoundAuctionWindow,
	}, taskauction.WithRand(taskauction.NewRandSource(seed)))
	logger.Info("auction service ready",
		"round_starting_points", cfg.RoundStartingPoints,
		"directory_starting_points", cfg.DirectoryStartingPoints,
		"rand_seed", seed,
	)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, svc, cfg.WebDir)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
