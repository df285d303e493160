package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

func handleRoundEvents(svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch := broker.Subscribe(roundTopic)
		defer broker.Unsubscribe(roundTopic, ch)

		state := svc.RoundState()
		streamEvents(w, r, newEvent("state", state.Seq, state), ch)
	}
}

func handleAuctionEvents(svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("auction_id")
		if id == "" {
			writeDetail(w, http.StatusBadRequest, "auction_id query parameter required")
			return
		}

		topic := auctionTopic(id)
		ch := broker.Subscribe(topic)
		defer broker.Unsubscribe(topic, ch)

		auction, err := svc.Results(id)
		if errors.Is(err, taskauction.ErrNotFound) {
			writeDetail(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			writeDetail(w, http.StatusInternalServerError, "internal error")
			return
		}

		streamEvents(w, r, newEvent("auction", auction.Seq, auction), ch)
	}
}

// streamEvents writes first and then every event from ch as Server-Sent
// Events until the client goes away.
func streamEvents(w http.ResponseWriter, r *http.Request, first Event, ch <-chan Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	writeEvent(w, first)
	flusher.Flush()
	filter := seqFilter{last: first.Seq}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			if !filter.fresh(ev) {
				continue
			}
			writeEvent(w, ev)
			flusher.Flush()
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, ev Event) {
	fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.Seq, ev.Type, ev.Data)
}
