package taskauction

import "time"

var epoch = time.Unix(1_700_000_000, 0)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: epoch} }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// mockRandSource returns a fixed sequence, then zeros.
type mockRandSource struct {
	sequence []int
	index    int
	calls    int
}

func (m *mockRandSource) Intn(n int) int {
	m.calls++
	if m.index >= len(m.sequence) {
		return 0
	}
	val := m.sequence[m.index] % n
	m.index++
	return val
}
