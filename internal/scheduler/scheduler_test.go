package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/history"
	"github.com/hamed0406/sitewatch/internal/probe"
	"github.com/hamed0406/sitewatch/internal/snapshot"
)

// --- fakes ---

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) bool {
	c.mu.Lock()
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return ctx.Err() == nil
}

func (c *fakeClock) sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.slept))
	copy(out, c.slept)
	return out
}

// scriptedChecker returns a fixed outcome per URL, optionally sleeping first
// and optionally advancing a fake clock to simulate a slow round.
type scriptedChecker struct {
	outcomes map[string]probe.Outcome
	delays   map[string]time.Duration
	advance  time.Duration
	clock    *fakeClock
}

func (f *scriptedChecker) Check(ctx context.Context, target string) probe.Outcome {
	if d := f.delays[target]; d > 0 {
		time.Sleep(d)
	}
	if f.advance > 0 {
		f.clock.Advance(f.advance)
	}
	return f.outcomes[target]
}

// capturePresenter records snapshots and cancels the run context after a
// fixed number of rounds.
type capturePresenter struct {
	mu        sync.Mutex
	snaps     []snapshot.Snapshot
	stopAfter int
	cancel    context.CancelFunc
}

func (p *capturePresenter) Present(s snapshot.Snapshot) {
	p.mu.Lock()
	p.snaps = append(p.snaps, s)
	n := len(p.snaps)
	p.mu.Unlock()
	if n >= p.stopAfter {
		p.cancel()
	}
}

func (p *capturePresenter) all() []snapshot.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]snapshot.Snapshot, len(p.snaps))
	copy(out, p.snaps)
	return out
}

func runRounds(t *testing.T, s *Scheduler, p *capturePresenter) []snapshot.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.cancel = cancel
	s.Run(ctx)
	return p.all()
}

// --- tests ---

func TestScheduler_SnapshotKeepsConfiguredOrder(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c"}
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://a": {Kind: probe.Up, StatusCode: 200, LatencyMS: 5},
			"https://b": {Kind: probe.Up, StatusCode: 200, LatencyMS: 90},
			"https://c": {Kind: probe.Up, StatusCode: 204, LatencyMS: 7},
		},
		// b is the slowest; the snapshot must still wait for it and list
		// entries a, b, c.
		delays: map[string]time.Duration{"https://b": 80 * time.Millisecond},
	}
	p := &capturePresenter{stopAfter: 1}
	s := New(zap.NewNop(), urls, chk, history.New(0), p, 10*time.Second, time.Second, 0)

	snaps := runRounds(t, s, p)
	if len(snaps) != 1 {
		t.Fatalf("want 1 snapshot, got %d", len(snaps))
	}
	snap := snaps[0]
	if len(snap.Entries) != 3 {
		t.Fatalf("no partial rounds: want 3 entries, got %d", len(snap.Entries))
	}
	for i, u := range urls {
		if snap.Entries[i].URL != u {
			t.Fatalf("entry %d: want %s, got %s", i, u, snap.Entries[i].URL)
		}
	}
	if snap.Entries[1].Outcome.StatusCode != 200 {
		t.Fatalf("slow probe's result missing: %+v", snap.Entries[1].Outcome)
	}
}

func TestScheduler_ProbesRunConcurrently(t *testing.T) {
	urls := []string{"https://a", "https://b", "https://c"}
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://a": {Kind: probe.Up, StatusCode: 200, LatencyMS: 1},
			"https://b": {Kind: probe.Up, StatusCode: 200, LatencyMS: 1},
			"https://c": {Kind: probe.Up, StatusCode: 200, LatencyMS: 1},
		},
		delays: map[string]time.Duration{
			"https://a": 100 * time.Millisecond,
			"https://b": 100 * time.Millisecond,
			"https://c": 100 * time.Millisecond,
		},
	}
	p := &capturePresenter{stopAfter: 1}
	s := New(zap.NewNop(), urls, chk, history.New(0), p, 10*time.Second, time.Second, 0)

	start := time.Now()
	runRounds(t, s, p)
	if wall := time.Since(start); wall > 250*time.Millisecond {
		t.Fatalf("round took %v; probes look serialized", wall)
	}
}

func TestScheduler_DownNeverRecordsASample(t *testing.T) {
	urls := []string{"https://dead"}
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://dead": {Kind: probe.Down, Reason: probe.ReasonConnection},
		},
	}
	hist := history.New(0)
	p := &capturePresenter{stopAfter: 3}
	s := New(zap.NewNop(), urls, chk, hist, p, time.Millisecond, time.Second, 0)

	runRounds(t, s, p)
	if got := hist.Series("https://dead"); len(got) != 0 {
		t.Fatalf("always-failing endpoint must keep an empty series, got %v", got)
	}
}

func TestScheduler_DegradedStillRecords(t *testing.T) {
	urls := []string{"https://err"}
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://err": {Kind: probe.Degraded, StatusCode: 500, LatencyMS: 200},
		},
	}
	hist := history.New(0)
	p := &capturePresenter{stopAfter: 1}
	s := New(zap.NewNop(), urls, chk, hist, p, time.Millisecond, time.Second, 0)

	snaps := runRounds(t, s, p)
	got := hist.Series("https://err")
	if len(got) != 1 || got[0] != 200 {
		t.Fatalf("degraded response must record its latency, got %v", got)
	}
	e := snaps[0].Entries[0]
	if e.Outcome.IsUp() {
		t.Fatal("500 must not count as up")
	}
	if e.Outcome.LatencyLabel() != "200ms" || e.Outcome.StatusLabel() != "UP (500)" {
		t.Fatalf("labels wrong: %q %q", e.Outcome.StatusLabel(), e.Outcome.LatencyLabel())
	}
}

func TestScheduler_IntervalAnchoredAtDispatch(t *testing.T) {
	urls := []string{"https://a"}
	clk := newFakeClock()
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://a": {Kind: probe.Up, StatusCode: 200, LatencyMS: 1},
		},
	}
	p := &capturePresenter{stopAfter: 3}
	s := New(zap.NewNop(), urls, chk, history.New(0), p, 10*time.Second, time.Second, 0)
	s.Clock = clk

	snaps := runRounds(t, s, p)
	// Probes take no simulated time, so every inter-round sleep is the full
	// interval and consecutive round starts are exactly 10s apart.
	slept := clk.sleeps()
	if len(slept) != 2 {
		t.Fatalf("want 2 sleeps for 3 rounds, got %v", slept)
	}
	for _, d := range slept {
		if d != 10*time.Second {
			t.Fatalf("want full 10s sleeps, got %v", slept)
		}
	}
	for i := 1; i < len(snaps); i++ {
		gap := snaps[i].StartedAt.Sub(snaps[i-1].StartedAt)
		if gap != 10*time.Second {
			t.Fatalf("round %d started %v after previous, want 10s", i+1, gap)
		}
	}
}

func TestScheduler_OverrunStartsNextRoundImmediately(t *testing.T) {
	urls := []string{"https://slow"}
	clk := newFakeClock()
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://slow": {Kind: probe.Up, StatusCode: 200, LatencyMS: 12000},
		},
		advance: 12 * time.Second, // round takes 12s against a 10s interval
		clock:   clk,
	}
	p := &capturePresenter{stopAfter: 2}
	s := New(zap.NewNop(), urls, chk, history.New(0), p, 10*time.Second, time.Second, 0)
	s.Clock = clk

	runRounds(t, s, p)
	if slept := clk.sleeps(); len(slept) != 0 {
		t.Fatalf("overrun round must roll straight into the next, slept %v", slept)
	}
}

func TestScheduler_CancelStopsAfterCurrentRound(t *testing.T) {
	urls := []string{"https://a"}
	chk := &scriptedChecker{
		outcomes: map[string]probe.Outcome{
			"https://a": {Kind: probe.Up, StatusCode: 200, LatencyMS: 1},
		},
	}
	p := &capturePresenter{stopAfter: 1}
	s := New(zap.NewNop(), urls, chk, history.New(0), p, time.Hour, time.Second, 0)

	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The first Present cancels; Run must return promptly instead of
	// sleeping out the hour-long interval.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}
	if got := len(p.all()); got != 1 {
		t.Fatalf("want exactly 1 published round, got %d", got)
	}
}
