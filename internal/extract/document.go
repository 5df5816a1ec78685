// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extract opens PDF documents and pulls plain text out of a page range.
package extract

import (
	"fmt"
	"strings"
)

// Document is an opened PDF exposing its pages by zero-based index
type Document interface {
	// PageCount returns the total number of pages
	PageCount() int

	// PageText returns the text of the page at index (0-based).
	// A page without text returns "" and a nil error.
	PageText(index int) (string, error)

	// Close releases resources associated with the document
	Close() error
}

// Backend names the PDF library used to read a document
type Backend string

const (
	BackendLedongthuc Backend = "ledongthuc"
	BackendPdfcpu     Backend = "pdfcpu"
)

// ParseBackend converts a config or flag value into a Backend
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendLedongthuc:
		return BackendLedongthuc, nil
	case BackendPdfcpu:
		return BackendPdfcpu, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected %s or %s)", name, BackendLedongthuc, BackendPdfcpu)
	}
}

// OpenFunc opens a document; Open is the production implementation
type OpenFunc func(path string, backend Backend) (Document, error)

// Open opens the PDF at path with the selected backend
func Open(path string, backend Backend) (Document, error) {
	switch backend {
	case BackendLedongthuc, "":
		return openLedongthuc(path)
	case BackendPdfcpu:
		return openPdfcpu(path)
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return fmt.Errorf("page index %d out of range [0, %d)", index, count)
	}
	return nil
}
