// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPageRangeOutOfBounds matches every RangeError
	ErrPageRangeOutOfBounds = errors.New("page range out of bounds")

	// ErrPageExtraction matches the error of an Extraction with failed pages
	ErrPageExtraction = errors.New("page text extraction failed")
)

// PageRange is a 1-indexed, inclusive page interval
type PageRange struct {
	Start int
	End   int
}

// Len returns the number of pages in the range
func (r PageRange) Len() int {
	return r.End - r.Start + 1
}

func (r PageRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Validate requires 1 <= Start <= End <= pageCount
func (r PageRange) Validate(pageCount int) error {
	if r.Start < 1 || r.End < r.Start || r.End > pageCount {
		return &RangeError{Range: r, PageCount: pageCount}
	}
	return nil
}

// RangeError reports a page range the document cannot satisfy
type RangeError struct {
	Range     PageRange
	PageCount int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("page range out of bounds: requested pages %d-%d, document has %d page(s)",
		e.Range.Start, e.Range.End, e.PageCount)
}

// Is lets errors.Is(err, ErrPageRangeOutOfBounds) match any RangeError
func (e *RangeError) Is(target error) bool {
	return target == ErrPageRangeOutOfBounds
}

// ProgressFunc is called with the number of pages done out of total
type ProgressFunc func(done, total int)

// PageFailure records a page whose text could not be extracted
type PageFailure struct {
	Page int // 1-based
	Err  error
}

// Extraction holds the per-page text of a range, in page order.
// A failed page contributes "" to Pages and an entry to Failures, so the
// remaining pages keep their positions.
type Extraction struct {
	Range    PageRange
	Pages    []string
	Failures []PageFailure
}

// Text joins the page texts with newlines
func (e *Extraction) Text() string {
	return Join(e.Pages)
}

// Err returns nil when every page was read. Otherwise it lists the failed
// pages in an error matching ErrPageExtraction and each page's cause.
func (e *Extraction) Err() error {
	if len(e.Failures) == 0 {
		return nil
	}

	pages := make([]string, len(e.Failures))
	causes := make([]error, len(e.Failures))
	for i, failure := range e.Failures {
		pages[i] = strconv.Itoa(failure.Page)
		causes[i] = failure.Err
	}
	return fmt.Errorf("%w: page(s) %s: %w", ErrPageExtraction, strings.Join(pages, ", "), errors.Join(causes...))
}

// Pages extracts the text of every page in r. The range is checked against
// the document before any page is read, so the result always holds exactly
// r.Len() entries.
func Pages(doc Document, r PageRange, progress ProgressFunc) (*Extraction, error) {
	if err := r.Validate(doc.PageCount()); err != nil {
		return nil, err
	}

	total := r.Len()
	result := &Extraction{
		Range: r,
		Pages: make([]string, 0, total),
	}

	if progress != nil {
		progress(0, total)
	}
	for index := r.Start - 1; index < r.End; index++ {
		text, err := doc.PageText(index)
		if err != nil {
			result.Failures = append(result.Failures, PageFailure{Page: index + 1, Err: err})
			text = ""
		}
		result.Pages = append(result.Pages, text)

		if progress != nil {
			progress(len(result.Pages), total)
		}
	}

	return result, nil
}

// Join concatenates page texts with newline separators
func Join(pages []string) string {
	return strings.Join(pages, "\n")
}
