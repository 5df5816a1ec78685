// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package testutil builds small PDF fixtures for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// BuildTextPDF returns a PDF with one page per entry in pages. Each page shows
// its text in a single Tj operation using Helvetica; an empty entry produces a
// page with no text.
func BuildTextPDF(pages ...string) []byte {
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 font, then a page + content stream pair per page
	objCount := 3 + 2*len(pages)
	offsets := make([]int, objCount+1)

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), len(pages))

	offsets[3] = b.Len()
	widths := strings.TrimSpace(strings.Repeat("600 ", 126-32+1))
	fmt.Fprintf(&b, "3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths [%s] >>\nendobj\n", widths)

	for i, text := range pages {
		stream := "BT\nET"
		if text != "" {
			stream = "BT\n/F1 12 Tf\n72 720 Td\n(" + escapeLiteral(text) + ") Tj\nET"
		}

		offsets[pageObj(i)] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>\nendobj\n",
			pageObj(i), contentObj(i))

		offsets[contentObj(i)] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", contentObj(i), len(stream), stream)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", objCount+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= objCount; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", objCount+1, xrefOffset)

	return []byte(b.String())
}

// WriteTextPDF writes BuildTextPDF(pages...) to dir/name and returns the path
func WriteTextPDF(t testing.TB, dir, name string, pages ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildTextPDF(pages...), 0644); err != nil {
		t.Fatalf("failed to write test PDF: %v", err)
	}
	return path
}

func pageObj(i int) int    { return 4 + 2*i }
func contentObj(i int) int { return 5 + 2*i }

func escapeLiteral(text string) string {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "(", `\(`)
	return strings.ReplaceAll(escaped, ")", `\)`)
}
