// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdfrange/internal/console"
	"pdfrange/internal/extract"
	"pdfrange/internal/observability"
	"pdfrange/internal/output"
	"pdfrange/internal/testutil"
	"pdfrange/internal/tokens"
	"pdfrange/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocument struct {
	pages  []string
	fail   map[int]error
	closed int
}

func (s *stubDocument) PageCount() int { return len(s.pages) }

func (s *stubDocument) PageText(index int) (string, error) {
	if err, ok := s.fail[index]; ok {
		return "", err
	}
	return s.pages[index], nil
}

func (s *stubDocument) Close() error {
	s.closed++
	return nil
}

func newTestRunner(t *testing.T, opts ...Option) (*Runner, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	reporter := console.NewReporter(&out, true)
	counter := tokens.NewCounter("o200k_base", "cl100k_base", func(msg string) { reporter.Warn("%s", msg) })
	return New(reporter, counter, opts...), &out
}

func stubOpener(doc *stubDocument, calls *int) extract.OpenFunc {
	return func(path string, backend extract.Backend) (extract.Document, error) {
		*calls++
		return doc, nil
	}
}

func TestRun_ExtractsWritesAndCounts(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "report.pdf", "alpha", "bravo", "charlie", "delta", "echo")

	r, out := newTestRunner(t)
	res, err := r.Run(Options{
		InputPath: input,
		Range:     extract.PageRange{Start: 2, End: 4},
		Backend:   extract.BackendPdfcpu,
	})
	require.NoError(t, err)

	wantPath := filepath.Join(dir, "report_002-004.txt")
	assert.Equal(t, wantPath, res.OutputPath)
	assert.True(t, res.Written)
	assert.Equal(t, 5, res.PageCount)
	assert.Equal(t, 3, res.PagesExtracted)
	assert.Empty(t, res.FailedPages)

	data, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, "bravo\ncharlie\ndelta", string(data))
	assert.Equal(t, len("bravo\ncharlie\ndelta"), res.CharCount)
	assert.Positive(t, res.Tokens.Tokens)
	assert.Equal(t, "o200k_base", res.Tokens.Encoding)

	text := out.String()
	assert.Contains(t, text, "Valid PDF file path.")
	assert.Contains(t, text, "Text extracted and saved to "+wantPath)
	assert.Contains(t, text, "Number of tokens in extracted text:")
	assert.True(t, strings.HasSuffix(text, "Done!\n"))
}

func TestRun_DefaultBackendReadsRealPDF(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "book.PDF", "FirstPage", "SecondPage")

	r, _ := newTestRunner(t)
	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 2}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "book_001-002.txt"), res.OutputPath)
	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FirstPage")
	assert.Contains(t, string(data), "SecondPage")

	original, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(original, []byte("%PDF-")), "input must not be overwritten")
}

func TestRun_InvalidInputStopsEarly(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("plain"), 0644))

	for _, input := range []string{filepath.Join(dir, "missing.pdf"), txt, dir} {
		t.Run(filepath.Base(input), func(t *testing.T) {
			calls := 0
			r, out := newTestRunner(t, WithOpener(stubOpener(&stubDocument{pages: []string{"x"}}, &calls)))

			res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 1}})
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, validate.ErrInvalidInput))
			assert.Zero(t, calls, "document must not be opened")
			assert.Contains(t, out.String(), "Invalid PDF file. Please enter a valid PDF file path.")
			assert.NotContains(t, out.String(), "Number of tokens")
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no output file is written")
}

func TestRun_OutOfRangeFailsVisiblyAndCloses(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "short.pdf", "only")

	doc := &stubDocument{pages: []string{"a", "b"}}
	calls := 0
	r, out := newTestRunner(t, WithOpener(stubOpener(doc, &calls)))

	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 2, End: 3}})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, extract.ErrPageRangeOutOfBounds))
	assert.Equal(t, 1, doc.closed, "document is released on the failure path")
	assert.Contains(t, out.String(), "Page range out of bounds")

	_, statErr := os.Stat(filepath.Join(dir, "short_002-003.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_WriteFailureStillCounts(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "x")

	doc := &stubDocument{pages: []string{"hello world"}}
	calls := 0
	r, out := newTestRunner(t, WithOpener(stubOpener(doc, &calls)))

	res, err := r.Run(Options{
		InputPath:  input,
		Range:      extract.PageRange{Start: 1, End: 1},
		OutputPath: filepath.Join(dir, "no-such-dir", "out.txt"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, output.ErrWrite))
	require.NotNil(t, res)
	assert.False(t, res.Written)
	assert.Equal(t, 2, res.Tokens.Tokens)
	assert.Equal(t, 1, doc.closed)

	text := out.String()
	assert.Contains(t, text, "Error saving file:")
	assert.Contains(t, text, "Number of tokens in extracted text: 2")
}

func TestRun_CustomWriterFailure(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "x")

	calls := 0
	denied := errors.New("permission denied")
	r, out := newTestRunner(t,
		WithOpener(stubOpener(&stubDocument{pages: []string{"a", "b"}}, &calls)),
		WithWriter(func(path, text string) error { return denied }),
	)

	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 2}})
	assert.ErrorIs(t, err, denied)
	require.NotNil(t, res)
	assert.Positive(t, res.Tokens.Tokens)
	assert.Contains(t, out.String(), "Error saving file: permission denied")
}

func TestRun_PageFailureSavesRestAndFails(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "x")

	broken := errors.New("malformed content stream")
	doc := &stubDocument{
		pages: []string{"first", "second", "third"},
		fail:  map[int]error{1: broken},
	}
	calls := 0
	r, out := newTestRunner(t, WithOpener(stubOpener(doc, &calls)))

	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 3}})
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrPageExtraction)
	assert.ErrorIs(t, err, broken)

	require.NotNil(t, res)
	assert.Equal(t, []int{2}, res.FailedPages)
	assert.Equal(t, 2, res.PagesExtracted)
	assert.True(t, res.Written)
	assert.Positive(t, res.Tokens.Tokens)
	assert.Equal(t, 1, doc.closed)

	data, readErr := os.ReadFile(res.OutputPath)
	require.NoError(t, readErr)
	assert.Equal(t, "first\n\nthird", string(data))

	text := out.String()
	assert.Contains(t, text, "Could not extract text from page 2: malformed content stream")
	assert.Contains(t, text, "Number of tokens in extracted text:")
}

func TestRun_EncodingFallbackWarns(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "x")

	var out bytes.Buffer
	reporter := console.NewReporter(&out, true)
	counter := tokens.NewCounter("bogus_base", "cl100k_base", func(msg string) { reporter.Warn("%s", msg) })
	calls := 0
	r := New(reporter, counter, WithOpener(stubOpener(&stubDocument{pages: []string{"hello world"}}, &calls)))

	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 1}})
	require.NoError(t, err)
	assert.True(t, res.Tokens.FellBack)
	assert.Equal(t, 2, res.Tokens.Tokens)
	assert.Contains(t, out.String(), "Model name 'bogus_base' not found. Using 'cl100k_base' instead.")
}

func TestRun_TokenCountingFailure(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "x")

	var out bytes.Buffer
	reporter := console.NewReporter(&out, true)
	calls := 0
	r := New(reporter, tokens.NewCounter("bogus", "also_bogus", nil),
		WithOpener(stubOpener(&stubDocument{pages: []string{"x"}}, &calls)))

	res, err := r.Run(Options{InputPath: input, Range: extract.PageRange{Start: 1, End: 1}})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Written, "output is saved before counting")
	assert.NotContains(t, out.String(), "Done!")
}

func TestRun_ProgressObserverAndInspect(t *testing.T) {
	dir := t.TempDir()
	input := testutil.WriteTextPDF(t, dir, "doc.pdf", "one", "two", "three")

	var progressBuf, debugBuf bytes.Buffer
	r, out := newTestRunner(t,
		WithProgress(console.NewProgress(&progressBuf, "Extracting text...", true)),
		WithObserver(observability.NewStandardObserver(observability.ObservabilityDebug, &debugBuf)),
	)

	_, err := r.Run(Options{
		InputPath: input,
		Range:     extract.PageRange{Start: 1, End: 3},
		Backend:   extract.BackendPdfcpu,
		Inspect:   true,
	})
	require.NoError(t, err)

	assert.Contains(t, progressBuf.String(), "3/3 pages")
	assert.Contains(t, debugBuf.String(), "extract: pages 1-3 completed")
	assert.Contains(t, debugBuf.String(), "runner: run completed")
	assert.Contains(t, out.String(), "3 page(s)")
}
