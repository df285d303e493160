package taskauction

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Status is the lifecycle state of an Auction.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusOpen      Status = "OPEN"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

// Bid is an offer to take the task for Amount points, which are lost if
// someone else wins.
type Bid struct {
	User        string `json:"user"`
	Amount      int    `json:"bid_amount"`
	TimestampMS int64  `json:"timestamp_ms"`
}

// Auction is a single-task reverse auction. Callers serialize access.
type Auction struct {
	Task         string
	Status       Status
	EndsAt       time.Time
	AssignedUser string

	bids     map[string]Bid
	bidOrder []string
}

// NewAuction opens an auction for task that closes duration after now.
// Durations under one second are raised to one second.
func NewAuction(task string, duration time.Duration, now time.Time) *Auction {
	return &Auction{
		Task:   task,
		Status: StatusOpen,
		EndsAt: now.Add(max(duration, time.Second)),
		bids:   make(map[string]Bid),
	}
}

// IsOpen reports whether bids are accepted at now. A bid landing exactly
// on EndsAt is too late.
func (a *Auction) IsOpen(now time.Time) bool {
	return a.Status == StatusOpen && now.Before(a.EndsAt)
}

// Expired reports whether the auction is still OPEN but past its window,
// meaning the next touch must settle it.
func (a *Auction) Expired(now time.Time) bool {
	return a.Status == StatusOpen && !now.Before(a.EndsAt)
}

func (a *Auction) SecondsRemaining(now time.Time) int {
	if a.Status != StatusOpen {
		return 0
	}
	return max(0, int(a.EndsAt.Sub(now).Seconds()))
}

func (a *Auction) HasBid(name string) bool {
	_, ok := a.bids[CanonicalName(name)]
	return ok
}

// Bids returns bids in the order bidders first placed them.
func (a *Auction) Bids() []Bid {
	out := make([]Bid, 0, len(a.bidOrder))
	for _, name := range a.bidOrder {
		out = append(out, a.bids[name])
	}
	return out
}

// SortedBids orders bids by amount, then by acceptance time.
func (a *Auction) SortedBids() []Bid {
	out := a.Bids()
	slices.SortStableFunc(out, func(x, y Bid) int {
		return cmp.Or(
			cmp.Compare(x.Amount, y.Amount),
			cmp.Compare(x.TimestampMS, y.TimestampMS),
		)
	})
	return out
}

// PlaceBid records a bid for name, replacing any earlier bid under the same
// canonical name. Single-bid policy is enforced by the caller.
func (a *Auction) PlaceBid(name string, amount int, reg *Registry, now time.Time) error {
	if !a.IsOpen(now) {
		return ErrAuctionClosed
	}
	if amount < 0 {
		return ErrInvalidBid
	}
	bidder, err := reg.Ensure(name)
	if err != nil {
		return err
	}
	if amount > bidder.Points {
		return fmt.Errorf("%w (%d)", ErrInsufficientPoints, bidder.Points)
	}

	if _, ok := a.bids[bidder.Name]; !ok {
		a.bidOrder = append(a.bidOrder, bidder.Name)
	}
	a.bids[bidder.Name] = Bid{User: bidder.Name, Amount: amount, TimestampMS: now.UnixMilli()}
	return nil
}

// SettleNow closes the auction, assigns the task to the winner and charges
// every other bidder their bid. It reports whether this call did the closing.
func (a *Auction) SettleNow(reg *Registry, rng RandSource) bool {
	if a.Status == StatusClosed {
		return false
	}
	a.Status = StatusClosed
	if len(a.bidOrder) == 0 {
		a.AssignedUser = ""
		return true
	}

	a.AssignedUser = pickAssignee(a.Bids(), reg, rng)
	winner := reg.lookup(a.AssignedUser)
	winner.AssignedTasks = append(winner.AssignedTasks, a.Task)

	for _, b := range a.Bids() {
		if b.User == a.AssignedUser {
			continue
		}
		p := reg.lookup(b.User)
		p.Points = max(0, p.Points-b.Amount)
	}
	return true
}
