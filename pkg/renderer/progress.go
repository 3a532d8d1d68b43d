package renderer

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const progressBarCells = 40

// ProgressReporter receives completed-work notifications during a render
type ProgressReporter interface {
	Add(n int)
	Finish()
}

// ProgressBar draws a carriage-return progress bar such as "\r[####....] 10%".
// It redraws only when the whole percentage increases and is safe for
// concurrent use by render workers.
type ProgressBar struct {
	out   io.Writer
	total int

	mu      sync.Mutex
	done    int
	lastPct int
}

// NewProgressBar creates a progress bar for total units of work
func NewProgressBar(out io.Writer, total int) *ProgressBar {
	return &ProgressBar{out: out, total: total, lastPct: -1}
}

// Add records n completed units and redraws if the percentage moved
func (p *ProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += n
	if p.done > p.total {
		p.done = p.total
	}

	pct := 100
	if p.total > 0 {
		pct = p.done * 100 / p.total
	}
	if pct <= p.lastPct {
		return
	}
	p.lastPct = pct
	p.draw(pct)
}

// Finish terminates the bar line
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
}

// Percent returns the last drawn percentage, or -1 before the first draw
func (p *ProgressBar) Percent() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPct
}

func (p *ProgressBar) draw(pct int) {
	filled := pct * progressBarCells / 100
	fmt.Fprintf(p.out, "\r[%s%s] %d%%",
		strings.Repeat("#", filled), strings.Repeat(".", progressBarCells-filled), pct)
}

// nopProgress ignores progress updates
type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}
