// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bayesian Estimation of Multi-State Markov Models from Panel Data
// Class: 02-613 at Caregie Mellon University

package main

import (
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// NopProgress ignores every report
type NopProgress struct{}

func (NopProgress) Start(int)      {}
func (NopProgress) Step(int, bool) {}
func (NopProgress) Finish()        {}

func observerOrNop(p ProgressObserver) ProgressObserver {
	if p == nil {
		return NopProgress{}
	}
	return p
}

// BarProgress draws a terminal progress bar with the running acceptance rate.
// When the writer is not a terminal it logs a line every LogEvery iterations instead.
type BarProgress struct {
	Description string
	Writer      io.Writer
	// Log interval for non-terminal output (if 0, a tenth of the run is used)
	LogEvery int

	bar      *progressbar.ProgressBar
	isTTY    bool
	total    int
	accepted int
}

// NewBarProgress returns a progress observer writing to stderr
func NewBarProgress(description string) *BarProgress {
	return &BarProgress{Description: description, Writer: os.Stderr}
}

// Start implements ProgressObserver
func (b *BarProgress) Start(total int) {
	if b.Writer == nil {
		b.Writer = os.Stderr
	}
	b.total = total
	b.accepted = 0
	b.isTTY = isTerminalWriter(b.Writer)
	if b.LogEvery <= 0 {
		b.LogEvery = total / 10
		if b.LogEvery == 0 {
			b.LogEvery = 1
		}
	}

	if !b.isTTY {
		return
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.Writer),
		progressbar.OptionSetDescription(b.Description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("draws"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Step implements ProgressObserver
func (b *BarProgress) Step(i int, accepted bool) {
	if accepted {
		b.accepted++
	}
	if b.bar != nil {
		_ = b.bar.Add(1)
		return
	}
	if i%b.LogEvery == 0 || i == b.total {
		glog.Infof("%s: %d/%d draws, acceptance rate %.3f",
			b.Description, i, b.total, float64(b.accepted)/float64(i))
	}
}

// Finish implements ProgressObserver
func (b *BarProgress) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// isTerminalWriter reports whether w is a terminal file descriptor
func isTerminalWriter(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
