// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter writes styled, user-facing status messages.
// It is passed to every stage instead of living in a package-level variable.
type Reporter struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewReporter creates a reporter writing to out (stdout when nil).
// noColor only affects this reporter; color.NoColor is left alone.
func NewReporter(out io.Writer, noColor bool) *Reporter {
	if out == nil {
		out = os.Stdout
	}

	colors := map[string]*color.Color{
		"title":   color.New(color.FgGreen, color.Bold),
		"success": color.New(color.FgGreen),
		"warning": color.New(color.FgYellow),
		"error":   color.New(color.FgRed),
		"label":   color.New(color.FgWhite, color.Bold),
		"info":    color.New(color.FgCyan),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}

	return &Reporter{
		out:    out,
		colors: colors,
	}
}

// Title prints a bold green heading
func (r *Reporter) Title(format string, args ...interface{}) {
	r.colors["title"].Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Plain prints an unstyled line
func (r *Reporter) Plain(format string, args ...interface{}) {
	fmt.Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Info prints an informational line
func (r *Reporter) Info(format string, args ...interface{}) {
	r.colors["info"].Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Success prints a green line
func (r *Reporter) Success(format string, args ...interface{}) {
	r.colors["success"].Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Warn prints a yellow line
func (r *Reporter) Warn(format string, args ...interface{}) {
	r.colors["warning"].Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Error prints a red line
func (r *Reporter) Error(format string, args ...interface{}) {
	r.colors["error"].Fprintln(r.out, fmt.Sprintf(format, args...))
}

// Result prints a bold label followed by a plain value
func (r *Reporter) Result(label string, value interface{}) {
	r.colors["label"].Fprint(r.out, label)
	fmt.Fprintf(r.out, " %v\n", value)
}
