// Package progress reports scheduler progress on the terminal.
package progress

import (
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.trai.ch/quick/internal/core/ports"
)

var _ ports.Progress = (*Bar)(nil)

// Bar implements ports.Progress with a terminal progress bar.
type Bar struct {
	mu  sync.Mutex
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBar creates a Bar drawing on w.
func NewBar(w io.Writer) *Bar {
	return &Bar{w: w}
}

// Start creates the bar for total packages.
func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.w),
		progressbar.OptionSetDescription("building"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
}

// Advance moves the bar by one package and shows its label.
func (b *Bar) Advance(label string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	b.bar.Describe(label)
	_ = b.bar.Add(1)
}

// Finish completes the bar.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
	b.bar = nil
}

// Done returns how many packages were reported since Start.
func (b *Bar) Done() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar == nil {
		return 0
	}
	return int(b.bar.State().CurrentNum)
}

// Silent implements ports.Progress without output.
type Silent struct{}

// Start does nothing.
func (Silent) Start(int) {}

// Advance does nothing.
func (Silent) Advance(string) {}

// Finish does nothing.
func (Silent) Finish() {}
