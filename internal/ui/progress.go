package ui

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// Progress counts visited entries on a spinner. The zero value and a nil
// *Progress do nothing, so callers need not check the mode.
type Progress struct {
	bar *progressbar.ProgressBar
}

// DefaultThrottle is the minimum interval between redraws on a terminal.
const DefaultThrottle = 100 * time.Millisecond

// NewProgress draws a spinner labelled description on w, redrawing at
// most once per throttle. A zero throttle redraws on every entry.
func NewProgress(w io.Writer, description string, throttle time.Duration) *Progress {
	return &Progress{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("entries"),
			progressbar.OptionThrottle(throttle),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// ForMode returns a spinner on w in interactive mode and nil otherwise.
func ForMode(mode Mode, w io.Writer, description string) *Progress {
	if mode != ModeInteractive {
		return nil
	}
	return NewProgress(w, description, DefaultThrottle)
}

// Visit advances the spinner by one entry. It matches
// scanner.Options.Progress.
func (p *Progress) Visit(*fts.Entry) {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish clears the spinner. Later calls do nothing.
func (p *Progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	p.bar = nil
}
