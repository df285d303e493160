package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError answers the round surface, which reports failures as
// {"ok": false, "error": ...}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, RoundResponse{OK: false, Error: msg})
}

// writeDetail answers the directory surface, which reports failures as
// {"detail": ...}.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, DetailResponse{Detail: msg})
}

var domainErrors = []error{
	taskauction.ErrInvalidName,
	taskauction.ErrInvalidBid,
	taskauction.ErrInsufficientPoints,
	taskauction.ErrAuctionClosed,
	taskauction.ErrWrongPhase,
	taskauction.ErrNoActiveUser,
	taskauction.ErrAlreadyBid,
	taskauction.ErrNotAllowed,
	taskauction.ErrNotFound,
	taskauction.ErrConflict,
	taskauction.ErrDuplicateName,
	taskauction.ErrInvalidDuration,
}

// statusFor maps a core error to its HTTP status. Errors the core does not
// define are internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, taskauction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, taskauction.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, taskauction.ErrConflict):
		return http.StatusConflict
	}
	for _, known := range domainErrors {
		if errors.Is(err, known) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// errorMessage hides internal error text from clients.
func errorMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
