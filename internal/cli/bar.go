package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// tickReporter shows force simulation progress.
type tickReporter interface {
	Start(total int)
	Tick(n int)
	Finish()
}

// newTickReporter returns a progress bar on w, or a line reporter when
// running under CI.
func newTickReporter(w io.Writer) tickReporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &lineReporter{w: w}
	}
	return &barReporter{w: w}
}

// lazyReporter defers Start until the first tick, so runs served from the
// cache never draw a bar.
type lazyReporter struct {
	r       tickReporter
	total   int
	started bool
}

func newLazyReporter(r tickReporter, total int) *lazyReporter {
	return &lazyReporter{r: r, total: total}
}

func (l *lazyReporter) Tick(n int) {
	if !l.started {
		l.started = true
		l.r.Start(l.total)
	}
	l.r.Tick(n)
}

func (l *lazyReporter) Finish() {
	if l.started {
		l.r.Finish()
	}
}

type barReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *barReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Simulating network"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *barReporter) Tick(n int) {
	if r.bar != nil {
		_ = r.bar.Set(n)
	}
}

func (r *barReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// lineReporter prints one line per tenth of the run.
type lineReporter struct {
	w     io.Writer
	total int
	next  int
}

func (r *lineReporter) Start(total int) {
	r.total = total
	r.next = step(total)
	fmt.Fprintf(r.w, "Simulating network for %d ticks\n", total)
}

func (r *lineReporter) Tick(n int) {
	if r.total == 0 || n < r.next {
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] simulating network\n", n, r.total)
	r.next = n + step(r.total)
}

func (r *lineReporter) Finish() {
	fmt.Fprintln(r.w, "Network simulation complete")
}

func step(total int) int {
	if s := total / 10; s > 0 {
		return s
	}
	return 1
}
