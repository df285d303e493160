package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

type NewTaskRequest struct {
	AuctionID       string   `json:"auction_id"`
	Task            string   `json:"task"`
	DurationSeconds int      `json:"duration_seconds"`
	Participants    []string `json:"participants,omitempty"`
}

type BidRequest struct {
	AuctionID string `json:"auction_id"`
	User      string `json:"user"`
	BidAmount *int   `json:"bid_amount"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}

type LeaderboardResponse struct {
	Leaderboard []taskauction.LeaderboardRow `json:"leaderboard"`
}

func handleNewTask(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewTaskRequest
		if err := readJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.AuctionID == "" || req.Task == "" {
			writeDetail(w, http.StatusBadRequest, "auction_id and task are required")
			return
		}
		if req.DurationSeconds < 1 {
			writeDetail(w, http.StatusBadRequest, "duration_seconds must be >= 1")
			return
		}
		if req.DurationSeconds > taskauction.MaxSeconds {
			writeDetail(w, http.StatusBadRequest, fmt.Sprintf("duration_seconds must be <= %d", taskauction.MaxSeconds))
			return
		}

		auction, err := svc.CreateAuction(req.AuctionID, req.Task, req.DurationSeconds, req.Participants)
		if err != nil {
			writeDetail(w, statusFor(err), errorMessage(err))
			return
		}

		logger.Info("auction created", "auction_id", auction.AuctionID, "task", auction.Task, "duration_seconds", req.DurationSeconds)
		broker.Publish(auctionTopic(auction.AuctionID), "auction", auction.Seq, auction)
		writeJSON(w, http.StatusCreated, auction)
	}
}

func handleBid(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BidRequest
		if err := readJSON(r, &req); err != nil {
			writeDetail(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.BidAmount == nil {
			writeDetail(w, http.StatusBadRequest, "bid_amount is required")
			return
		}

		auction, err := svc.Bid(req.AuctionID, req.User, *req.BidAmount)
		if auction.Settled {
			announceSettled(logger, broker, auction)
		}
		if err != nil {
			logger.Debug("bid rejected", "auction_id", req.AuctionID, "user", strings.TrimSpace(req.User), "error", err)
			writeDetail(w, statusFor(err), errorMessage(err))
			return
		}

		broker.Publish(auctionTopic(auction.AuctionID), "auction", auction.Seq, auction)
		writeJSON(w, http.StatusOK, auction)
	}
}

func handleResults(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("auction_id")
		if id == "" {
			writeDetail(w, http.StatusBadRequest, "auction_id query parameter required")
			return
		}

		auction, err := svc.Results(id)
		if err != nil {
			writeDetail(w, statusFor(err), errorMessage(err))
			return
		}
		if auction.Settled {
			announceSettled(logger, broker, auction)
		}
		writeJSON(w, http.StatusOK, auction)
	}
}

func handleLeaderboard(svc *taskauction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: svc.Leaderboard()})
	}
}

func announceSettled(logger *slog.Logger, broker *Broker, auction taskauction.AuctionSnapshot) {
	assigned := ""
	if auction.AssignedUser != nil {
		assigned = *auction.AssignedUser
	}
	logger.Info("auction settled", "auction_id", auction.AuctionID, "task", auction.Task, "assigned", assigned)
	broker.Publish(auctionTopic(auction.AuctionID), "auction", auction.Seq, auction)
}
