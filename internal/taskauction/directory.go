package taskauction

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Directory maps auction ids to auctions and their optional allowlists.
// Deadlines are advisory: an expired auction settles on its next touch.
type Directory struct {
	reg        *Registry
	rng        RandSource
	auctions   map[string]*Auction
	allowlists map[string][]string
}

func NewDirectory(reg *Registry, rng RandSource) *Directory {
	return &Directory{
		reg:        reg,
		rng:        rng,
		auctions:   make(map[string]*Auction),
		allowlists: make(map[string][]string),
	}
}

// Create opens auction id for task. A nil participants slice means anyone
// may bid; a non-nil one, even empty, restricts bidding to its names.
func (d *Directory) Create(id, task string, duration time.Duration, participants []string, now time.Time) (AuctionSnapshot, error) {
	if _, ok := d.auctions[id]; ok {
		return AuctionSnapshot{}, ErrConflict
	}

	var allow []string
	if participants != nil {
		allow = []string{}
		seen := make(map[string]bool, len(participants))
		for _, n := range participants {
			p, err := d.reg.Ensure(n)
			if err != nil {
				continue // blank entries are dropped
			}
			if !seen[p.Name] {
				seen[p.Name] = true
				allow = append(allow, p.Name)
			}
		}
		d.allowlists[id] = allow
	}

	a := NewAuction(task, duration, now)
	d.auctions[id] = a
	return d.snapshot(id, a, now), nil
}

// Bid places a single bid by user on auction id.
func (d *Directory) Bid(id, user string, amount int, now time.Time) (AuctionSnapshot, error) {
	a, ok := d.auctions[id]
	if !ok {
		return AuctionSnapshot{}, ErrNotFound
	}
	settled := d.settleIfExpired(a, now)
	if a.Status != StatusOpen {
		snap := d.snapshot(id, a, now)
		snap.Settled = settled
		return snap, ErrAuctionClosed
	}

	name := CanonicalName(user)
	if name == "" {
		return AuctionSnapshot{}, ErrInvalidName
	}
	if allow, ok := d.allowlists[id]; ok && !slices.Contains(allow, name) {
		return AuctionSnapshot{}, ErrNotAllowed
	}
	if a.HasBid(name) {
		return AuctionSnapshot{}, ErrAlreadyBid
	}
	if err := a.PlaceBid(name, amount, d.reg, now); err != nil {
		return AuctionSnapshot{}, err
	}
	return d.snapshot(id, a, now), nil
}

// Results settles auction id if its window has elapsed and returns it.
func (d *Directory) Results(id string, now time.Time) (AuctionSnapshot, error) {
	a, ok := d.auctions[id]
	if !ok {
		return AuctionSnapshot{}, ErrNotFound
	}
	settled := d.settleIfExpired(a, now)
	snap := d.snapshot(id, a, now)
	snap.Settled = settled
	return snap, nil
}

func (d *Directory) settleIfExpired(a *Auction, now time.Time) bool {
	if !a.Expired(now) {
		return false
	}
	return a.SettleNow(d.reg, d.rng)
}

func (d *Directory) snapshot(id string, a *Auction, now time.Time) AuctionSnapshot {
	s := AuctionSnapshot{
		AuctionID:        id,
		Task:             a.Task,
		Status:           a.Status,
		EndsAtTime:       float64(a.EndsAt.UnixNano()) / float64(time.Second),
		SecondsRemaining: a.SecondsRemaining(now),
		Bids:             a.SortedBids(),
	}
	if a.AssignedUser != "" {
		assigned := a.AssignedUser
		s.AssignedUser = &assigned
	}
	if allow, ok := d.allowlists[id]; ok {
		s.Participants = append([]string{}, allow...)
	}
	return s
}

// Leaderboard ranks participants by points, then by fewest tasks, then by
// case-insensitive name.
func Leaderboard(reg *Registry) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(reg.order))
	for _, p := range reg.List() {
		rows = append(rows, LeaderboardRow{Name: p.Name, Points: p.Points, TasksAssigned: p.TasksAssigned()})
	}
	slices.SortStableFunc(rows, func(a, b LeaderboardRow) int {
		return cmp.Or(
			cmp.Compare(b.Points, a.Points),
			cmp.Compare(a.TasksAssigned, b.TasksAssigned),
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
		)
	})
	return rows
}
