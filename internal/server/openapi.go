package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/eviejd/CSCXUPC-Hackathon/internal/handler/health"
	"github.com/eviejd/CSCXUPC-Hackathon/internal/taskauction"
)

type resultsQuery struct {
	AuctionID string `query:"auction_id" required:"true"`
}

type healthResponse map[string]health.Result

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Task Auction API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Lowest-bid reverse auctions that assign tasks to group members.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Reports whether the auction state can be locked.")
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(healthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/state
	getState, _ := r.NewOperationContext(http.MethodGet, "/api/state")
	getState.SetSummary("Round state")
	getState.SetDescription("Advances phase timers and returns the current round.")
	getState.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getState)

	// POST /api/start_round
	postStart, _ := r.NewOperationContext(http.MethodPost, "/api/start_round")
	postStart.SetSummary("Start round")
	postStart.SetDescription("Starts a new round for a task with the given turn order, replacing any current round.")
	postStart.AddReqStructure(StartRoundRequest{})
	postStart.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postStart.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postStart)

	// POST /api/bid
	postRoundBid, _ := r.NewOperationContext(http.MethodPost, "/api/bid")
	postRoundBid.SetSummary("Bid for active participant")
	postRoundBid.SetDescription("Places a bid for the participant whose turn it is. Errors include the current state.")
	postRoundBid.AddReqStructure(RoundBidRequest{})
	postRoundBid.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRoundBid.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRoundBid)

	// GET /api/events
	getRoundEvents, _ := r.NewOperationContext(http.MethodGet, "/api/events")
	getRoundEvents.SetSummary("Round event stream")
	getRoundEvents.SetDescription("Server-Sent Events stream of round snapshots.")
	getRoundEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getRoundEvents)

	// GET /api/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/ws")
	getWS.SetSummary("Round WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket that receives round snapshots.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /new_task
	postNewTask, _ := r.NewOperationContext(http.MethodPost, "/new_task")
	postNewTask.SetSummary("Create auction")
	postNewTask.SetDescription("Opens an auction for a task, optionally restricted to listed participants.")
	postNewTask.AddReqStructure(NewTaskRequest{})
	postNewTask.AddRespStructure(taskauction.AuctionSnapshot{}, openapi.WithHTTPStatus(http.StatusCreated))
	postNewTask.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postNewTask.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postNewTask)

	// POST /bid
	postBid, _ := r.NewOperationContext(http.MethodPost, "/bid")
	postBid.SetSummary("Bid")
	postBid.SetDescription("Submits one bid to an open auction.")
	postBid.AddReqStructure(BidRequest{})
	postBid.AddRespStructure(taskauction.AuctionSnapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	postBid.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postBid.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postBid.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(postBid)

	// GET /results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/results")
	getResults.SetSummary("Auction results")
	getResults.SetDescription("Returns the auction, settling it first if its window has elapsed.")
	getResults.AddReqStructure(resultsQuery{})
	getResults.AddRespStructure(taskauction.AuctionSnapshot{}, openapi.WithHTTPStatus(http.StatusOK))
	getResults.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getResults)

	// GET /leaderboard
	getLeaderboard, _ := r.NewOperationContext(http.MethodGet, "/leaderboard")
	getLeaderboard.SetSummary("Leaderboard")
	getLeaderboard.SetDescription("Participants by points, then fewest tasks, then name.")
	getLeaderboard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getLeaderboard)

	// GET /events
	getAuctionEvents, _ := r.NewOperationContext(http.MethodGet, "/events")
	getAuctionEvents.SetSummary("Auction event stream")
	getAuctionEvents.SetDescription("Server-Sent Events stream of one auction's updates.")
	getAuctionEvents.AddReqStructure(resultsQuery{})
	getAuctionEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	getAuctionEvents.AddRespStructure(DetailResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getAuctionEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
