// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const barWidth = 40

// Progress renders a single-line page progress bar with ETA
type Progress struct {
	out     io.Writer
	label   string
	enabled bool
	start   time.Time
}

// NewProgress creates a progress bar on out. The bar is silent when disabled.
func NewProgress(out io.Writer, label string, enabled bool) *Progress {
	return &Progress{
		out:     out,
		label:   label,
		enabled: enabled,
	}
}

// Update redraws the bar for current out of total units
func (p *Progress) Update(current, total int) {
	if !p.enabled || total <= 0 {
		return
	}
	if current == 0 || p.start.IsZero() {
		p.start = time.Now()
	}

	percent := float64(current) / float64(total) * 100
	filledWidth := barWidth * current / total
	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)

	var etaStr string
	if current > 0 && current < total {
		elapsed := time.Since(p.start)
		avgTime := elapsed / time.Duration(current)
		remaining := time.Duration(total-current) * avgTime
		etaStr = fmt.Sprintf(" ETA: %s", remaining.Round(time.Second))
	}

	fmt.Fprintf(p.out, "\r%s [%s] %d/%d pages (%.1f%%)%s", p.label, bar, current, total, percent, etaStr)
	if current == total {
		fmt.Fprintf(p.out, "\n")
	}
}

// IsInteractive reports whether f is attached to a terminal
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
