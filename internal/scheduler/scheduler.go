package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/history"
	"github.com/hamed0406/sitewatch/internal/probe"
	"github.com/hamed0406/sitewatch/internal/snapshot"
)

// Scheduler drives the round loop: each round probes every endpoint
// concurrently, joins, records latencies, and publishes one snapshot. It is
// the sole writer to the history store; writes happen only in the post-join
// phase, never while probes are in flight.
type Scheduler struct {
	Logger      *zap.Logger
	Endpoints   []string
	Checker     probe.Checker
	History     *history.Store
	Presenter   snapshot.Presenter
	Interval    time.Duration
	Timeout     time.Duration
	Concurrency int
	Clock       Clock
}

func New(
	logger *zap.Logger,
	endpoints []string,
	checker probe.Checker,
	hist *history.Store,
	presenter snapshot.Presenter,
	interval time.Duration,
	timeout time.Duration,
	concurrency int,
) *Scheduler {
	if concurrency < 1 || concurrency > len(endpoints) {
		concurrency = len(endpoints)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Scheduler{
		Logger:      logger,
		Endpoints:   endpoints,
		Checker:     checker,
		History:     hist,
		Presenter:   presenter,
		Interval:    interval,
		Timeout:     timeout,
		Concurrency: concurrency,
		Clock:       realClock{},
	}
}

// Run loops rounds until ctx is cancelled. The first round starts
// immediately; round N+1 starts Interval after round N's dispatch began, or
// immediately if the round overran the interval. Missed ticks are absorbed,
// never replayed. An in-flight round always finishes before the loop stops,
// so no partial snapshot is ever published.
func (s *Scheduler) Run(ctx context.Context) {
	for round := 1; ; round++ {
		start := s.Clock.Now()
		s.runOnce(ctx, round, start)

		if ctx.Err() != nil {
			s.Logger.Info("scheduler_stopped", zap.Int("rounds", round))
			return
		}

		elapsed := s.Clock.Now().Sub(start)
		if remaining := s.Interval - elapsed; remaining > 0 {
			if !s.Clock.Sleep(ctx, remaining) {
				s.Logger.Info("scheduler_stopped", zap.Int("rounds", round))
				return
			}
		}
	}
}

// runOnce executes one full round: fork, join, record, assemble, publish.
func (s *Scheduler) runOnce(ctx context.Context, round int, start time.Time) {
	outcomes := make([]probe.Outcome, len(s.Endpoints))
	times := make([]time.Time, len(s.Endpoints))

	sem := make(chan struct{}, s.Concurrency)
	var wg sync.WaitGroup

	for i, url := range s.Endpoints {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, url string) {
			defer func() { <-sem }()
			defer wg.Done()

			// Deliberately not a child of ctx: cancellation stops future
			// rounds but lets in-flight probes resolve, so the store never
			// sees a half-finished round.
			cctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
			defer cancel()

			times[i] = s.Clock.Now()
			outcomes[i] = s.Checker.Check(cctx, url)
		}(i, url)
	}
	wg.Wait()

	for i, url := range s.Endpoints {
		out := outcomes[i]
		if out.Completed() {
			s.History.Record(url, out.LatencyMS)
		}
		s.Logger.Debug("probe_done",
			zap.String("url", url),
			zap.Int("status", out.StatusCode),
			zap.Bool("up", out.IsUp()),
			zap.Float64("latency_ms", out.LatencyMS),
			zap.String("label", out.StatusLabel()),
		)
	}

	snap := snapshot.Assemble(round, start, s.Interval, s.Endpoints, outcomes, times, s.History)
	s.Presenter.Present(snap)

	s.Logger.Info("round_published",
		zap.Int("round", round),
		zap.Int("endpoints", len(s.Endpoints)),
	)
}
