package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

type RoundResponse struct {
	OK    bool                       `json:"ok"`
	Error string                     `json:"error,omitempty"`
	State *taskauction.RoundSnapshot `json:"state,omitempty"`
}

type StartRoundRequest struct {
	Task             string   `json:"task"`
	Order            []string `json:"order"`
	HandoverSeconds  int      `json:"handover_seconds,omitempty"`
	BidWindowSeconds int      `json:"bid_window_seconds,omitempty"`
}

type RoundBidRequest struct {
	Amount json.RawMessage `json:"amount"`
}

var errAmountNotInteger = errors.New("amount must be integer")

// parseAmount accepts an integral number such as 3 or 3.0, optionally
// quoted.
func parseAmount(raw json.RawMessage) (int, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errAmountNotInteger
	}
	return int(f), nil
}

func handleRoundState(svc *taskauction.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := svc.RoundState()
		writeJSON(w, http.StatusOK, RoundResponse{OK: true, State: &state})
	}
}

func handleStartRound(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRoundRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.Task = strings.TrimSpace(req.Task)
		if req.Task == "" {
			writeError(w, http.StatusBadRequest, "task required")
			return
		}
		if len(req.Order) == 0 {
			writeError(w, http.StatusBadRequest, "order (list) required")
			return
		}
		if req.HandoverSeconds < 0 || req.BidWindowSeconds < 0 {
			writeError(w, http.StatusBadRequest, "phase lengths must be positive")
			return
		}
		if req.HandoverSeconds > taskauction.MaxSeconds || req.BidWindowSeconds > taskauction.MaxSeconds {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("phase lengths must be <= %d seconds", taskauction.MaxSeconds))
			return
		}

		timing := taskauction.RoundTiming{
			Handover:  time.Duration(req.HandoverSeconds) * time.Second,
			BidWindow: time.Duration(req.BidWindowSeconds) * time.Second,
		}
		state, err := svc.StartRound(req.Task, req.Order, timing)
		if err != nil {
			writeError(w, statusFor(err), errorMessage(err))
			return
		}

		logger.Info("round started", "round_id", state.RoundID, "task", req.Task, "order", state.Order)
		broker.Publish(roundTopic, "state", state.Seq, state)
		writeJSON(w, http.StatusOK, RoundResponse{OK: true, State: &state})
	}
}

func handleRoundBid(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RoundBidRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		state, err := svc.BidActive(amount)
		if err != nil {
			logger.Debug("round bid rejected", "amount", amount, "error", err)
			writeJSON(w, statusFor(err), RoundResponse{OK: false, Error: errorMessage(err), State: &state})
			return
		}

		if state.Phase == taskauction.PhaseResults && state.Assigned != nil {
			logger.Info("round settled", "round_id", state.RoundID, "assigned", *state.Assigned)
		}
		broker.Publish(roundTopic, "state", state.Seq, state)
		writeJSON(w, http.StatusOK, RoundResponse{OK: true, State: &state})
	}
}
