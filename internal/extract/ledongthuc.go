// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ledongthucDocument implements Document using ledongthuc/pdf
type ledongthucDocument struct {
	file   io.Closer
	reader *pdf.Reader
}

func openLedongthuc(path string) (doc Document, err error) {
	// The parser panics on some malformed files instead of returning an error
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("error opening PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	return &ledongthucDocument{file: f, reader: r}, nil
}

func (d *ledongthucDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) PageText(index int) (text string, err error) {
	if err := checkIndex(index, d.PageCount()); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: malformed content: %v", index+1, r)
		}
	}()

	p := d.reader.Page(index + 1)
	if p.V.IsNull() {
		return "", nil
	}

	return extractTextWithProperSpacing(p)
}

func (d *ledongthucDocument) Close() error {
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// extractTextWithProperSpacing extracts text using row-based positioning for better spacing
func extractTextWithProperSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		// Fallback to simple text extraction if row-based fails
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(text, "\n"), nil
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// PDF origin is bottom-left: higher Y is higher on the page
	sort.SliceStable(sortedRows, func(i, j int) bool {
		return sortedRows[i].Position > sortedRows[j].Position
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(rowText)
	}

	return buf.String(), nil
}

// reconstructRowText reconstructs text from a row with spacing based on coordinates
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)

	// Stable: glyphs of one show-text operation can share an X
	sort.SliceStable(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer
	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i == len(sortedElements)-1 {
			break
		}
		next := sortedElements[i+1]
		if strings.HasSuffix(element.S, " ") || strings.HasPrefix(next.S, " ") {
			continue
		}

		fontSize := element.FontSize
		if fontSize <= 0 {
			fontSize = 12 // Default font size
		}

		// Row extraction reports whole show-text runs without widths; estimate half an em per glyph
		width := element.W
		if width <= 0 {
			width = float64(utf8.RuneCountInString(element.S)) * fontSize * 0.5
		}
		gap := next.X - (element.X + width)

		// A gap wider than 20% of the font size reads as a word break
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}

	return buf.String()
}
