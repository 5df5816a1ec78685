// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pdfrange/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePages = []string{"PageOneText", "PageTwoText", "", "PageFourText"}

func TestOpen_Backends(t *testing.T) {
	for _, backend := range []Backend{BackendLedongthuc, BackendPdfcpu} {
		t.Run(string(backend), func(t *testing.T) {
			path := testutil.WriteTextPDF(t, t.TempDir(), "sample.pdf", samplePages...)

			doc, err := Open(path, backend)
			require.NoError(t, err)
			defer doc.Close()

			require.Equal(t, len(samplePages), doc.PageCount())

			got, err := Pages(doc, PageRange{Start: 2, End: 4}, nil)
			require.NoError(t, err)
			require.Len(t, got.Pages, 3)
			assert.Empty(t, got.Failures)

			assert.Contains(t, got.Pages[0], "PageTwoText")
			assert.Equal(t, "", got.Pages[1], "page without text yields an empty string")
			assert.Contains(t, got.Pages[2], "PageFourText")
			assert.NotContains(t, got.Text(), "PageOneText")

			_, err = Pages(doc, PageRange{Start: 4, End: 5}, nil)
			assert.True(t, errors.Is(err, ErrPageRangeOutOfBounds))
		})
	}
}

func TestOpen_PdfcpuExactText(t *testing.T) {
	path := testutil.WriteTextPDF(t, t.TempDir(), "exact.pdf", "Hello (World)", "Second page")

	doc, err := Open(path, BackendPdfcpu)
	require.NoError(t, err)
	defer doc.Close()

	got, err := Pages(doc, PageRange{Start: 1, End: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello (World)\nSecond page", got.Text())
}

func TestOpen_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0644))

	for _, backend := range []Backend{BackendLedongthuc, BackendPdfcpu} {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := Open(path, backend)
			assert.Error(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("whatever.pdf", Backend("xpdf"))
	assert.Error(t, err)
}

func TestDocument_PageTextIndexChecked(t *testing.T) {
	path := testutil.WriteTextPDF(t, t.TempDir(), "two.pdf", "a", "b")

	for _, backend := range []Backend{BackendLedongthuc, BackendPdfcpu} {
		t.Run(string(backend), func(t *testing.T) {
			doc, err := Open(path, backend)
			require.NoError(t, err)
			defer doc.Close()

			_, err = doc.PageText(2)
			assert.Error(t, err)
			_, err = doc.PageText(-1)
			assert.Error(t, err)
		})
	}
}

func TestInspect(t *testing.T) {
	path := testutil.WriteTextPDF(t, t.TempDir(), "info.pdf", "a", "b", "c")

	info, err := Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, 3, info.PageCount)
	assert.NotEmpty(t, info.Version)
	assert.False(t, info.Encrypted)
	assert.Positive(t, info.FileSize)

	_, err = Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestLedongthucClose_Idempotent(t *testing.T) {
	path := testutil.WriteTextPDF(t, t.TempDir(), "close.pdf", "x")

	doc, err := Open(path, BackendLedongthuc)
	require.NoError(t, err)
	assert.NoError(t, doc.Close())
	assert.NoError(t, doc.Close())
}
