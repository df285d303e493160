package taskauction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Phase is the stage of a round the turn controller is in.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseHandover Phase = "handover"
	PhaseBid      Phase = "bid"
	PhaseResults  Phase = "results"
)

// RoundTiming holds the per-round phase lengths. Zero fields fall back to
// the controller defaults; no phase is shorter than a second.
type RoundTiming struct {
	Handover  time.Duration
	BidWindow time.Duration
}

func (rt RoundTiming) withDefaults(def RoundTiming) RoundTiming {
	if rt.Handover <= 0 {
		rt.Handover = def.Handover
	}
	if rt.BidWindow <= 0 {
		rt.BidWindow = def.BidWindow
	}
	rt.Handover = max(rt.Handover, time.Second)
	rt.BidWindow = max(rt.BidWindow, time.Second)
	return rt
}

// TurnController walks a fixed turn order through alternating handover and
// bid phases and settles the round's auction once everyone had a turn.
// Phase deadlines are only evaluated when an operation touches the round.
type TurnController struct {
	reg           *Registry
	rng           RandSource
	defaults      RoundTiming
	auctionWindow time.Duration

	roundID       string
	auction       *Auction
	order         []string
	index         int
	phase         Phase
	phaseEndsAt   time.Time
	timing        RoundTiming
	oneBidPerUser bool
}

func NewTurnController(reg *Registry, rng RandSource, defaults RoundTiming, auctionWindow time.Duration) *TurnController {
	return &TurnController{
		reg:           reg,
		rng:           rng,
		defaults:      defaults,
		auctionWindow: auctionWindow,
		index:         -1,
		phase:         PhaseIdle,
		timing:        defaults,
		oneBidPerUser: true,
	}
}

// StartRound replaces any current round with a fresh one for task.
func (t *TurnController) StartRound(task string, order []string, timing RoundTiming, now time.Time) error {
	names := make([]string, 0, len(order))
	seen := make(map[string]bool, len(order))
	for _, n := range order {
		key := CanonicalName(n)
		if key == "" {
			return ErrInvalidName
		}
		if seen[key] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, key)
		}
		seen[key] = true
		names = append(names, key)
	}
	for _, n := range names {
		if _, err := t.reg.Ensure(n); err != nil {
			return err
		}
	}

	t.roundID = uuid.NewString()
	t.auction = NewAuction(task, t.auctionWindow, now)
	t.order = names
	t.timing = timing.withDefaults(t.defaults)

	if len(names) == 0 {
		t.index = -1
		t.auction.SettleNow(t.reg, t.rng)
		t.enter(PhaseResults, time.Time{})
		return nil
	}
	t.index = 0
	t.enter(PhaseHandover, now.Add(t.timing.Handover))
	return nil
}

func (t *TurnController) enter(p Phase, endsAt time.Time) {
	t.phase = p
	t.phaseEndsAt = endsAt
}

// Advance applies at most one timer-driven transition.
func (t *TurnController) Advance(now time.Time) {
	if t.phase == PhaseIdle || t.phase == PhaseResults || t.phaseEndsAt.IsZero() {
		return
	}
	if now.Before(t.phaseEndsAt) {
		return
	}
	switch t.phase {
	case PhaseHandover:
		t.enter(PhaseBid, now.Add(t.timing.BidWindow))
	case PhaseBid:
		t.advanceCursor(now)
	}
}

// advanceCursor moves to the next participant's handover, or settles the
// round when the order is exhausted. The new deadline is measured from now,
// so a following Advance cannot fire again for the same turn.
func (t *TurnController) advanceCursor(now time.Time) {
	t.index++
	if t.index < len(t.order) {
		t.enter(PhaseHandover, now.Add(t.timing.Handover))
		return
	}
	if t.auction != nil {
		t.auction.SettleNow(t.reg, t.rng)
	}
	t.enter(PhaseResults, time.Time{})
}

func (t *TurnController) ActiveUser() (string, bool) {
	if t.index < 0 || t.index >= len(t.order) {
		return "", false
	}
	return t.order[t.index], true
}

// BidActive places amount on behalf of the active participant and moves
// straight on to the next turn without waiting out the bid window.
func (t *TurnController) BidActive(amount int, now time.Time) error {
	t.Advance(now)
	if t.phase != PhaseBid {
		return ErrWrongPhase
	}
	active, ok := t.ActiveUser()
	if !ok || t.auction == nil {
		return ErrNoActiveUser
	}
	if t.oneBidPerUser && t.auction.HasBid(active) {
		return ErrAlreadyBid
	}
	if err := t.auction.PlaceBid(active, amount, t.reg, now); err != nil {
		return err
	}
	t.advanceCursor(now)
	return nil
}

// State advances timers and returns a snapshot of the round.
func (t *TurnController) State(now time.Time) RoundSnapshot {
	t.Advance(now)
	return t.snapshot(now)
}

func (t *TurnController) snapshot(now time.Time) RoundSnapshot {
	s := RoundSnapshot{
		RoundID: t.roundID,
		Phase:   t.phase,
		Bids:    []RoundBid{},
		Users:   t.reg.views(),
		Order:   append([]string{}, t.order...),
		Index:   t.index,
	}
	if !t.phaseEndsAt.IsZero() {
		s.SecondsLeft = max(0, int(t.phaseEndsAt.Sub(now).Seconds()))
	}
	if active, ok := t.ActiveUser(); ok {
		s.ActiveUser = &active
	}
	if t.auction != nil {
		task := t.auction.Task
		s.Task = &task
		for _, b := range t.auction.Bids() {
			s.Bids = append(s.Bids, RoundBid{Name: b.User, Amount: b.Amount})
		}
		if t.auction.AssignedUser != "" {
			assigned := t.auction.AssignedUser
			s.Assigned = &assigned
		}
	}
	return s
}
