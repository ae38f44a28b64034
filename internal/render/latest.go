package render

import (
	"sync/atomic"

	"github.com/hamed0406/sitewatch/internal/snapshot"
)

// Latest holds the newest snapshot for concurrent readers (the API). Each
// published snapshot fully replaces the previous one.
type Latest struct {
	v atomic.Value // snapshot.Snapshot
}

func (l *Latest) Present(s snapshot.Snapshot) {
	l.v.Store(s)
}

// Get returns the newest snapshot; ok is false before the first round.
func (l *Latest) Get() (snapshot.Snapshot, bool) {
	v := l.v.Load()
	if v == nil {
		return snapshot.Snapshot{}, false
	}
	return v.(snapshot.Snapshot), true
}
