package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

// handleRoundWS pushes round snapshots over a WebSocket. Clients only
// listen; bids still go through POST /api/bid.
func handleRoundWS(logger *slog.Logger, svc *taskauction.Service, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ch := broker.Subscribe(roundTopic)
		defer broker.Unsubscribe(roundTopic, ch)

		ctx, cancel := context.WithTimeout(r.Context(), time.Hour)
		defer cancel()
		ctx = conn.CloseRead(ctx)

		state := svc.RoundState()
		if err := writeWS(ctx, conn, newEvent("state", state.Seq, state)); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}
		filter := seqFilter{last: state.Seq}

		for {
			select {
			case <-ctx.Done():
				logger.Debug("websocket closed", "error", ctx.Err())
				return
			case ev := <-ch:
				if !filter.fresh(ev) {
					continue
				}
				if err := writeWS(ctx, conn, ev); err != nil {
					logger.Debug("websocket write failed", "error", err)
					return
				}
			}
		}
	}
}

func writeWS(ctx context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, ev.Data)
}
