// Package health serves /healthz. Each named Checker runs concurrently
// under a shared deadline and reports its own status and latency.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 3 * time.Second

// Checker reports whether a component can currently serve requests.
type Checker interface {
	Check(ctx context.Context) error
}

type Handler struct {
	checks  map[string]Checker
	logger  *slog.Logger
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, logger: logger, timeout: defaultTimeout}
}

// WithTimeout sets the deadline shared by all checks of one request.
func (h *Handler) WithTimeout(d time.Duration) *Handler {
	h.timeout = d
	return h
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.serve)
	return r
}

type Result struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// Run executes every check and returns the per-check results and whether
// all of them passed.
func (h *Handler) Run(ctx context.Context) (map[string]Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(h.checks))
		healthy = true
	)

	var g errgroup.Group
	for name, c := range h.checks {
		g.Go(func() error {
			start := time.Now()
			err := c.Check(ctx)
			res := Result{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				h.logger.Error("health check failed", "name", name, "error", err)
				res.Status, res.Error = "error", err.Error()
			}

			mu.Lock()
			results[name] = res
			if err != nil {
				healthy = false
			}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return results, healthy
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	results, healthy := h.Run(r.Context())

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(results)
}
