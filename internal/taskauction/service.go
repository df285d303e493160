package taskauction

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"
)

// ServiceConfig sets starting balances and round timing defaults.
type ServiceConfig struct {
	RoundStartingPoints     int
	DirectoryStartingPoints int
	Timing                  RoundTiming
	RoundAuctionWindow      time.Duration
}

type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand replaces the tie-break random source.
func WithRand(rng RandSource) Option {
	return func(s *Service) { s.rng = rng }
}

// Service owns all auction state. One mutex guards the registries, the
// directory and the turn controller; every method holds it for its whole
// duration, timer advancement included.
type Service struct {
	mu  sync.Mutex
	now func() time.Time
	rng RandSource

	seq uint64

	roundUsers *Registry
	dirUsers   *Registry
	turn       *TurnController
	dir        *Directory
}

func NewService(cfg ServiceConfig, opts ...Option) *Service {
	s := &Service{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRandSource(uint64(time.Now().UnixNano()))
	}

	s.roundUsers = NewRegistry(cfg.RoundStartingPoints)
	s.dirUsers = NewRegistry(cfg.DirectoryStartingPoints)
	s.turn = NewTurnController(s.roundUsers, s.rng, cfg.Timing, cfg.RoundAuctionWindow)
	s.dir = NewDirectory(s.dirUsers, s.rng)
	return s
}

func (s *Service) RoundState() RoundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundState(s.now())
}

// roundState and stamp must be called with mu held.
func (s *Service) roundState(now time.Time) RoundSnapshot {
	state := s.turn.State(now)
	state.Seq = s.nextSeq()
	return state
}

func (s *Service) stamp(a AuctionSnapshot, err error) (AuctionSnapshot, error) {
	a.Seq = s.nextSeq()
	return a, err
}

func (s *Service) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Service) StartRound(task string, order []string, timing RoundTiming) (RoundSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.turn.StartRound(task, order, timing, now); err != nil {
		return RoundSnapshot{}, fmt.Errorf("starting round: %w", err)
	}
	return s.roundState(now), nil
}

// BidActive bids for the active participant. The returned snapshot is
// valid even when err is not nil.
func (s *Service) BidActive(amount int) (RoundSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := s.turn.BidActive(amount, now)
	return s.roundState(now), err
}

// MaxSeconds is the longest window, in seconds, a time.Duration can hold.
const MaxSeconds = int(math.MaxInt64 / int64(time.Second))

func (s *Service) CreateAuction(id, task string, durationSeconds int, participants []string) (AuctionSnapshot, error) {
	if durationSeconds < 1 || durationSeconds > MaxSeconds {
		return AuctionSnapshot{}, fmt.Errorf("%w: %d seconds", ErrInvalidDuration, durationSeconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stamp(s.dir.Create(id, task, time.Duration(durationSeconds)*time.Second, participants, s.now()))
}

func (s *Service) Bid(id, user string, amount int) (AuctionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stamp(s.dir.Bid(id, user, amount, s.now()))
}

func (s *Service) Results(id string) (AuctionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stamp(s.dir.Results(id, s.now()))
}

func (s *Service) Leaderboard() []LeaderboardRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Leaderboard(s.dirUsers)
}

// Check reports whether the service lock can be taken before ctx ends.
func (s *Service) Check(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for !s.mu.TryLock() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("acquiring service lock: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	s.mu.Unlock()
	return nil
}
