// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package runner wires validation, extraction, writing and token counting
// into the single pass the command performs.
package runner

import (
	"errors"
	"fmt"

	"pdfrange/internal/console"
	"pdfrange/internal/extract"
	"pdfrange/internal/observability"
	"pdfrange/internal/output"
	"pdfrange/internal/tokens"
	"pdfrange/internal/validate"
)

// Options describes one extraction request
type Options struct {
	InputPath  string
	Range      extract.PageRange
	Backend    extract.Backend
	OutputPath string // explicit output path; derived from InputPath when empty
	OutputDir  string // directory for the derived output name
	Inspect    bool   // print pdfcpu document info before extracting
}

// Result summarizes a completed run
type Result struct {
	OutputPath     string
	Written        bool
	PageCount      int
	PagesExtracted int
	FailedPages    []int
	CharCount      int
	Tokens         tokens.Count
}

// Runner executes the pipeline with injected collaborators
type Runner struct {
	reporter *console.Reporter
	observer *observability.StandardObserver
	counter  *tokens.Counter
	progress *console.Progress
	open     extract.OpenFunc
	write    func(path, text string) error
}

// Option customizes a Runner
type Option func(*Runner)

// WithObserver sets the step observer
func WithObserver(o *observability.StandardObserver) Option {
	return func(r *Runner) { r.observer = o }
}

// WithProgress sets the extraction progress bar
func WithProgress(p *console.Progress) Option {
	return func(r *Runner) { r.progress = p }
}

// WithOpener replaces how documents are opened
func WithOpener(open extract.OpenFunc) Option {
	return func(r *Runner) { r.open = open }
}

// WithWriter replaces how the output file is written
func WithWriter(write func(path, text string) error) Option {
	return func(r *Runner) { r.write = write }
}

// New creates a Runner reporting through reporter and counting with counter
func New(reporter *console.Reporter, counter *tokens.Counter, opts ...Option) *Runner {
	r := &Runner{
		reporter: reporter,
		counter:  counter,
		open:     extract.Open,
		write:    output.Write,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run performs one extraction. It returns a nil Result when the run stopped
// before any text was extracted. Pages that failed to extract and a failed
// write are reported, the remaining text is still saved and counted, and the
// failures are returned together with the Result.
func (r *Runner) Run(opts Options) (*Result, error) {
	done := r.observer.StartStep("runner", "run", opts.InputPath)

	if err := validate.PDFPath(opts.InputPath); err != nil {
		r.reporter.Error("Invalid PDF file. Please enter a valid PDF file path.")
		r.observer.LogDetail("validate", err.Error())
		done(false, "invalid input")
		return nil, err
	}
	r.reporter.Success("Valid PDF file path.")

	if opts.Inspect {
		r.inspect(opts.InputPath)
	}

	extraction, pageCount, err := r.extract(opts)
	if err != nil {
		done(false, err.Error())
		return nil, err
	}
	text := extraction.Text()

	result := &Result{
		PageCount:      pageCount,
		PagesExtracted: len(extraction.Pages) - len(extraction.Failures),
		CharCount:      len([]rune(text)),
	}
	for _, failure := range extraction.Failures {
		result.FailedPages = append(result.FailedPages, failure.Page)
		r.reporter.Error("Could not extract text from page %d: %v", failure.Page, failure.Err)
	}
	pageErr := extraction.Err()

	writeErr := r.save(opts, text, result)

	finishCount := r.observer.StartStep("tokens", "count", "")
	count, err := r.counter.Count(text)
	if err != nil {
		finishCount(false, err.Error())
		done(false, "token counting failed")
		return result, errors.Join(pageErr, writeErr, fmt.Errorf("counting tokens: %w", err))
	}
	finishCount(true, fmt.Sprintf("%d tokens (%s)", count.Tokens, count.Encoding))
	result.Tokens = count

	r.reporter.Result("Number of tokens in extracted text:", count.Tokens)
	r.reporter.Title("Done!")

	err = errors.Join(pageErr, writeErr)
	done(err == nil, "")
	return result, err
}

// extract opens the document, extracts the range and always closes the document
func (r *Runner) extract(opts Options) (*extract.Extraction, int, error) {
	finishOpen := r.observer.StartStep("extract", "open", opts.InputPath)
	doc, err := r.open(opts.InputPath, opts.Backend)
	if err != nil {
		finishOpen(false, err.Error())
		r.reporter.Error("Error opening PDF: %v", err)
		return nil, 0, err
	}
	defer doc.Close()

	pageCount := doc.PageCount()
	finishOpen(true, fmt.Sprintf("%d pages", pageCount))

	var progress extract.ProgressFunc
	if r.progress != nil {
		progress = r.progress.Update
	}

	finishPages := r.observer.StartStep("extract", "pages "+opts.Range.String(), opts.InputPath)
	extraction, err := extract.Pages(doc, opts.Range, progress)
	if err != nil {
		finishPages(false, err.Error())
		r.reporter.Error("Page range out of bounds: requested pages %d-%d, but the document has %d page(s).",
			opts.Range.Start, opts.Range.End, pageCount)
		return nil, pageCount, err
	}
	finishPages(true, fmt.Sprintf("%d pages", len(extraction.Pages)))

	return extraction, pageCount, nil
}

// save writes the text and reports the outcome; the error is returned, not fatal
func (r *Runner) save(opts Options, text string, result *Result) error {
	outPath, err := output.Resolve(opts.InputPath, opts.Range, opts.OutputPath, opts.OutputDir)
	if err != nil {
		r.reporter.Error("Error saving file: %v", err)
		return fmt.Errorf("%w: %w", output.ErrWrite, err)
	}
	result.OutputPath = outPath

	finish := r.observer.StartStep("output", "write", outPath)
	if err := r.write(outPath, text); err != nil {
		finish(false, err.Error())
		r.reporter.Error("Error saving file: %v", err)
		return err
	}
	finish(true, fmt.Sprintf("%d bytes", len(text)))

	result.Written = true
	r.reporter.Success("Text extracted and saved to %s", outPath)
	return nil
}

// inspect prints pdfcpu's view of the document; failures only warn
func (r *Runner) inspect(path string) {
	info, err := extract.Inspect(path)
	if err != nil {
		r.reporter.Warn("Could not inspect document: %v", err)
		return
	}
	r.reporter.Info("PDF %s, %d page(s), %d bytes, encrypted: %t",
		info.Version, info.PageCount, info.FileSize, info.Encrypted)
}
