package snapshot

import (
	"time"

	"github.com/hamed0406/sitewatch/internal/probe"
)

// Entry is one endpoint's result within a round.
type Entry struct {
	URL     string        `json:"url"`
	Outcome probe.Outcome `json:"outcome"`
	At      time.Time     `json:"at"`
	// Series is the endpoint's latency history at round end, oldest to
	// newest, at most the store capacity. Never mutated after assembly.
	Series []float64 `json:"series"`
}

// Snapshot is the immutable result set published at the end of one round.
// Entries are in configured endpoint order regardless of probe completion
// order. Each round fully replaces the previous snapshot.
type Snapshot struct {
	Round     int           `json:"round"`
	StartedAt time.Time     `json:"started_at"`
	Interval  time.Duration `json:"interval"`
	Entries   []Entry       `json:"entries"`
}

// Presenter consumes published snapshots. Implementations must not retain or
// mutate the snapshot's slices.
type Presenter interface {
	Present(Snapshot)
}

// SeriesSource yields an endpoint's latency series. *history.Store satisfies
// it; tests pass a map-backed fake.
type SeriesSource interface {
	Series(url string) []float64
}

// Assemble builds a snapshot from one round's outcomes and the history state
// at round end. Pure: no clock, no network. urls, outcomes and times are
// parallel slices in configured order.
func Assemble(round int, startedAt time.Time, interval time.Duration, urls []string, outcomes []probe.Outcome, times []time.Time, src SeriesSource) Snapshot {
	entries := make([]Entry, len(urls))
	for i, u := range urls {
		entries[i] = Entry{
			URL:     u,
			Outcome: outcomes[i],
			At:      times[i],
			Series:  src.Series(u),
		}
	}
	return Snapshot{
		Round:     round,
		StartedAt: startedAt,
		Interval:  interval,
		Entries:   entries,
	}
}

// TimeLabel is the per-row display time.
func (e Entry) TimeLabel() string { return e.At.Format("15:04:05") }

// HeaderLabel is the round header time.
func (s Snapshot) HeaderLabel() string { return s.StartedAt.Format("2006-01-02 15:04:05") }
