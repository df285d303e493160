package taskauction

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func newTestDirectory(t *testing.T) (*Directory, *Registry, *fakeClock) {
	t.Helper()
	reg := NewRegistry(10)
	return NewDirectory(reg, &mockRandSource{}), reg, newFakeClock()
}

func TestDirectoryCreate(t *testing.T) {
	dir, reg, clock := newTestDirectory(t)

	s, err := dir.Create("A1", "Clean kitchen", 10*time.Second, []string{"Alice", " Bob ", "", "Alice"}, clock.Now())
	assert.NoError(t, err)
	check.Equal(t, "A1", s.AuctionID)
	check.Equal(t, StatusOpen, s.Status)
	check.Equal(t, 10, s.SecondsRemaining)
	check.Equal(t, float64(epoch.Unix()+10), s.EndsAtTime)
	check.Equal(t, []string{"Alice", "Bob"}, s.Participants)
	check.Equal(t, 0, len(s.Bids))
	check.Equal(t, 2, len(reg.List()))

	_, err = dir.Create("A1", "Other", 10*time.Second, nil, clock.Now())
	check.True(t, errors.Is(err, ErrConflict))
}

func TestDirectoryCreateWithoutAllowlist(t *testing.T) {
	dir, _, clock := newTestDirectory(t)

	s, err := dir.Create("open", "Anything", time.Minute, nil, clock.Now())
	assert.NoError(t, err)
	check.True(t, s.Participants == nil)

	_, err = dir.Bid("open", "Zoe", 1, clock.Now())
	check.NoError(t, err)
}

func TestDirectoryEmptyAllowlistBlocksEveryone(t *testing.T) {
	dir, _, clock := newTestDirectory(t)
	_, err := dir.Create("closed-list", "Anything", time.Minute, []string{}, clock.Now())
	assert.NoError(t, err)

	_, err = dir.Bid("closed-list", "Zoe", 1, clock.Now())
	check.True(t, errors.Is(err, ErrNotAllowed))
}

func TestDirectoryDuplicateBidRejected(t *testing.T) {
	dir, _, clock := newTestDirectory(t)
	_, err := dir.Create("A2", "Vacuum", 30*time.Second, []string{"Alice", "Bob"}, clock.Now())
	assert.NoError(t, err)

	s, err := dir.Bid("A2", "Alice", 1, clock.Now())
	assert.NoError(t, err)
	check.Equal(t, []Bid{{User: "Alice", Amount: 1, TimestampMS: epoch.UnixMilli()}}, s.Bids)

	_, err = dir.Bid("A2", " Alice", 2, clock.Now())
	check.True(t, errors.Is(err, ErrAlreadyBid))

	b := dir.auctions["A2"].bids["Alice"]
	check.Equal(t, 1, b.Amount)
}

func TestDirectoryAllowlistEnforced(t *testing.T) {
	dir, reg, clock := newTestDirectory(t)
	_, err := dir.Create("A3", "Dishes", 30*time.Second, []string{"Alice", "Bob"}, clock.Now())
	assert.NoError(t, err)

	_, err = dir.Bid("A3", "Eve", 3, clock.Now())
	check.True(t, errors.Is(err, ErrNotAllowed))
	_, ok := reg.Get("Eve")
	check.False(t, ok)
}

func TestDirectoryBidErrors(t *testing.T) {
	dir, _, clock := newTestDirectory(t)
	_, err := dir.Create("A", "Dishes", 30*time.Second, nil, clock.Now())
	assert.NoError(t, err)

	_, err = dir.Bid("missing", "Alice", 1, clock.Now())
	check.True(t, errors.Is(err, ErrNotFound))
	_, err = dir.Bid("A", "   ", 1, clock.Now())
	check.True(t, errors.Is(err, ErrInvalidName))
	_, err = dir.Bid("A", "Alice", -1, clock.Now())
	check.True(t, errors.Is(err, ErrInvalidBid))
	_, err = dir.Bid("A", "Alice", 11, clock.Now())
	check.True(t, errors.Is(err, ErrInsufficientPoints))
}

func TestDirectoryAutoSettleOnResults(t *testing.T) {
	dir, reg, clock := newTestDirectory(t)
	_, err := dir.Create("A4", "Laundry", 5*time.Second, []string{"Alice", "Bob"}, clock.Now())
	assert.NoError(t, err)
	_, err = dir.Bid("A4", "Alice", 1, clock.Now())
	assert.NoError(t, err)
	_, err = dir.Bid("A4", "Bob", 4, clock.Now())
	assert.NoError(t, err)

	clock.Advance(10 * time.Second)
	s, err := dir.Results("A4", clock.Now())
	assert.NoError(t, err)
	check.True(t, s.Settled)
	check.Equal(t, StatusClosed, s.Status)
	check.Equal(t, 0, s.SecondsRemaining)
	assert.True(t, s.AssignedUser != nil)
	check.Equal(t, "Alice", *s.AssignedUser)
	check.Equal(t, 10, points(t, reg, "Alice"))
	check.Equal(t, 6, points(t, reg, "Bob"))

	again, err := dir.Results("A4", clock.Now())
	assert.NoError(t, err)
	check.False(t, again.Settled)

	_, err = dir.Bid("A4", "Bob", 1, clock.Now())
	check.True(t, errors.Is(err, ErrAuctionClosed))
}

func TestDirectoryBidSettlesExpiredAuction(t *testing.T) {
	dir, reg, clock := newTestDirectory(t)
	_, err := dir.Create("A5", "Trash", 2*time.Second, nil, clock.Now())
	assert.NoError(t, err)
	_, err = dir.Bid("A5", "Alice", 2, clock.Now())
	assert.NoError(t, err)

	clock.Advance(2 * time.Second)
	s, err := dir.Bid("A5", "Bob", 1, clock.Now())
	check.True(t, errors.Is(err, ErrAuctionClosed))
	check.True(t, s.Settled)
	check.Equal(t, StatusClosed, s.Status)
	alice, _ := reg.Get("Alice")
	check.Equal(t, []string{"Trash"}, alice.AssignedTasks)
	_, ok := reg.Get("Bob")
	check.False(t, ok)
}

func TestDirectoryResultsNotFound(t *testing.T) {
	dir, _, clock := newTestDirectory(t)
	_, err := dir.Results("nope", clock.Now())
	check.True(t, errors.Is(err, ErrNotFound))
}

func TestDirectoryResultsBeforeExpiry(t *testing.T) {
	dir, _, clock := newTestDirectory(t)
	_, err := dir.Create("A", "Dishes", 30*time.Second, nil, clock.Now())
	assert.NoError(t, err)
	_, err = dir.Bid("A", "Alice", 1, clock.Now())
	assert.NoError(t, err)

	clock.Advance(12 * time.Second)
	s, err := dir.Results("A", clock.Now())
	assert.NoError(t, err)
	check.Equal(t, StatusOpen, s.Status)
	check.Equal(t, 18, s.SecondsRemaining)
	check.True(t, s.AssignedUser == nil)
}

func TestLeaderboardOrder(t *testing.T) {
	reg := NewRegistry(10)
	for _, n := range []string{"bob", "Carl", "alice", "Dana", "Eve"} {
		reg.Ensure(n)
	}
	set := func(name string, pts, tasks int) {
		p, _ := reg.Get(name)
		p.Points = pts
		for range tasks {
			p.AssignedTasks = append(p.AssignedTasks, "t")
		}
	}
	set("bob", 10, 1)
	set("Carl", 10, 1)
	set("alice", 10, 1)
	set("Dana", 10, 0)
	set("Eve", 12, 3)

	var got []string
	for _, row := range Leaderboard(reg) {
		got = append(got, row.Name)
	}
	check.Equal(t, []string{"Eve", "Dana", "alice", "bob", "Carl"}, got)
}
