package render

import "github.com/hamed0406/sitewatch/internal/snapshot"

// Multi fans one snapshot out to several presenters in order.
type Multi []snapshot.Presenter

func (m Multi) Present(s snapshot.Snapshot) {
	for _, p := range m {
		if p == nil {
			continue
		}
		p.Present(s)
	}
}
