// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package validate is the input gate: it checks the PDF path before the
// document is opened.
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidInput matches every InputError
var ErrInvalidInput = errors.New("invalid PDF file")

// Reason explains why an input path was rejected
type Reason int

const (
	ReasonNotFound Reason = iota
	ReasonNotRegular
	ReasonBadExtension
	ReasonUnreadable
)

func (r Reason) String() string {
	switch r {
	case ReasonNotFound:
		return "file does not exist"
	case ReasonNotRegular:
		return "not a regular file"
	case ReasonBadExtension:
		return "file name does not end in .pdf"
	case ReasonUnreadable:
		return "file cannot be inspected"
	default:
		return "unknown"
	}
}

// InputError describes a rejected input path
type InputError struct {
	Path   string
	Reason Reason
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidInput) match any InputError
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// HasPDFExtension reports whether name ends in .pdf, ignoring case
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// PDFPath succeeds only for an existing regular file named *.pdf (any case)
func PDFPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &InputError{Path: path, Reason: ReasonNotFound}
		}
		return &InputError{Path: path, Reason: ReasonUnreadable, Err: err}
	}

	if !info.Mode().IsRegular() {
		return &InputError{Path: path, Reason: ReasonNotRegular}
	}

	if !HasPDFExtension(path) {
		return &InputError{Path: path, Reason: ReasonBadExtension}
	}

	return nil
}
