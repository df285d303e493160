package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/handler/health"
	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

const healthTimeout = time.Second

func addRoutes(r chi.Router, logger *slog.Logger, svc *taskauction.Service, broker *Broker, webDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Task Auction API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
		"auctions": svc,
	}).WithTimeout(healthTimeout).Routes())

	// Round-driven surface: one shared round, participants bid in turn.
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", handleRoundState(svc))
		r.Post("/start_round", handleStartRound(logger, svc, broker))
		r.Post("/bid", handleRoundBid(logger, svc, broker))
		r.Get("/events", handleRoundEvents(svc, broker))
		r.Get("/ws", handleRoundWS(logger, svc, broker))
	})

	// Directory surface: auctions keyed by auction_id.
	r.Post("/new_task", handleNewTask(logger, svc, broker))
	r.Post("/bid", handleBid(logger, svc, broker))
	r.Get("/results", handleResults(logger, svc, broker))
	r.Get("/leaderboard", handleLeaderboard(svc))
	r.Get("/events", handleAuctionEvents(svc, broker))

	if webDir != "" {
		if info, err := os.Stat(webDir); err == nil && info.IsDir() {
			logger.Info("serving web ui", "dir", webDir)
			r.NotFound(handleWeb(webDir))
		}
	}
}
