package taskauction

// RoundSnapshot is a read view of the turn controller.
type RoundSnapshot struct {
	RoundID     string            `json:"round_id"`
	Task        *string           `json:"task"`
	Phase       Phase             `json:"phase"`
	ActiveUser  *string           `json:"active_user"`
	SecondsLeft int               `json:"seconds_left"`
	Bids        []RoundBid        `json:"bids"`
	Assigned    *string           `json:"assigned"`
	Users       []ParticipantView `json:"users"`
	Order       []string          `json:"order"`
	Index       int               `json:"index"`

	// Seq orders snapshots taken by a Service; later snapshots are newer.
	Seq uint64 `json:"-"`
}

type RoundBid struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

// AuctionSnapshot is a read view of one directory auction. Bids are sorted
// by amount, then timestamp.
type AuctionSnapshot struct {
	AuctionID        string   `json:"auction_id"`
	Task             string   `json:"task"`
	Status           Status   `json:"status"`
	EndsAtTime       float64  `json:"ends_at_time"`
	SecondsRemaining int      `json:"seconds_remaining"`
	Bids             []Bid    `json:"bids"`
	AssignedUser     *string  `json:"assigned_user"`
	Participants     []string `json:"participants"`

	// Settled is set when producing this snapshot closed the auction.
	Settled bool   `json:"-"`
	Seq     uint64 `json:"-"`
}

type LeaderboardRow struct {
	Name          string `json:"name"`
	Points        int    `json:"points"`
	TasksAssigned int    `json:"tasks_assigned"`
}
