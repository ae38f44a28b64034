package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hamed0406/sitewatch/internal/snapshot"
)

const (
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
	ansiClear = "\033[2J\033[H"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkWidth pads short sparklines so columns line up across rows.
const sparkWidth = 20

// Sparkline renders a latency series as block runes; "No data" for an empty
// series.
func Sparkline(series []float64) string {
	levels := snapshot.Levels(series)
	if levels == nil {
		return "No data"
	}
	var b strings.Builder
	for _, l := range levels {
		b.WriteRune(sparkRunes[l])
	}
	for i := len(levels); i < sparkWidth; i++ {
		b.WriteRune(sparkRunes[0])
	}
	return b.String()
}

// Terminal redraws a status table on every published snapshot. It is a thin
// presentation layer; all classification and series math happens upstream.
type Terminal struct {
	Out     io.Writer
	NoColor bool

	mu sync.Mutex
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{Out: out}
}

func (t *Terminal) Present(s snapshot.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	urlWidth := len("Site")
	for _, e := range s.Entries {
		if len(e.URL) > urlWidth {
			urlWidth = len(e.URL)
		}
	}

	var b strings.Builder
	if !t.NoColor {
		b.WriteString(ansiClear)
	}
	b.WriteString(t.color(ansiBold, fmt.Sprintf("Last Check: %s | Check Interval: %ds\n",
		s.HeaderLabel(), int(s.Interval.Seconds()))))
	fmt.Fprintf(&b, "%-8s  %-*s  %-24s  %13s  %s\n", "Time", urlWidth, "Site", "Status", "Response Time", "Trend")

	for _, e := range s.Entries {
		row := fmt.Sprintf("%-8s  %-*s  %-24s  %13s  %s",
			e.TimeLabel(), urlWidth, e.URL, e.Outcome.StatusLabel(), e.Outcome.LatencyLabel(), Sparkline(e.Series))
		color := ansiGreen
		if !e.Outcome.IsUp() {
			color = ansiRed
		}
		b.WriteString(t.color(color, row))
		b.WriteByte('\n')
	}

	fmt.Fprint(t.Out, b.String())
}

func (t *Terminal) color(code, s string) string {
	if t.NoColor {
		return s
	}
	return code + s + ansiReset
}
