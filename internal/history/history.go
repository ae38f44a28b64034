package history

import "sync"

// DefaultSize is the number of latency samples kept per endpoint.
const DefaultSize = 50

// Store keeps a bounded, per-endpoint series of latency samples in
// milliseconds. Samples come only from completed requests, so a series reads
// "how slow was it when reachable", not "was it reachable". Rings are created
// lazily on first record and live for the process.
type Store struct {
	mu    sync.RWMutex
	size  int
	rings map[string]*ring
}

func New(size int) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	return &Store{
		size:  size,
		rings: make(map[string]*ring),
	}
}

// Record appends one sample, evicting the single oldest when full.
func (s *Store) Record(url string, latencyMS float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rings[url]
	if r == nil {
		r = newRing(s.size)
		s.rings[url] = r
	}
	r.push(latencyMS)
}

// Series returns the samples oldest to newest as a fresh slice; nil for an
// endpoint never successfully probed.
func (s *Store) Series(url string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.rings[url]
	if r == nil {
		return nil
	}
	return r.snapshot()
}

// Clear drops an endpoint's samples. Useful for long-running resets.
func (s *Store) Clear(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rings, url)
}

// ring is a fixed-capacity FIFO of float64.
type ring struct {
	buf  []float64
	head int // index of oldest sample
	n    int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	if r.n < len(r.buf) {
		r.buf[(r.head+r.n)%len(r.buf)] = v
		r.n++
		return
	}
	// full: overwrite the oldest slot and advance
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring) snapshot() []float64 {
	out := make([]float64, r.n)
	for i := 0; i < r.n; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}
