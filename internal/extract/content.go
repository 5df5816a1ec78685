// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// kerningSpace is the TJ adjustment (thousandths of an em) read as a word break
const kerningSpace = -200

// TextFromContentStream collects the strings shown by text operators in a
// decoded page content stream. Line-moving operators start a new line.
// Glyph codes are read as Latin-1 unless the string carries a UTF-16 BOM;
// font encodings and ToUnicode maps are not consulted.
func TextFromContentStream(data []byte) string {
	s := &streamScanner{data: data}
	var out textBuilder

	var operands []string
	var numbers []float64
	inArray := false

	// Baseline of the last Tm, so words placed one matrix at a time stay on
	// one line. A closed text object breaks the line unless the next Tm
	// lands on that same baseline.
	var lastTmY float64
	haveTmY := false
	pendingBreak := false

	for {
		tok, kind := s.next()
		switch kind {
		case tokEOF:
			return out.String()
		case tokString:
			operands = append(operands, tok)
		case tokNumber:
			n, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				continue
			}
			if inArray && n <= kerningSpace {
				operands = append(operands, " ")
			}
			numbers = append(numbers, n)
		case tokArrayStart:
			inArray = true
		case tokArrayEnd:
			inArray = false
		case tokOperator:
			switch tok {
			case "Tj", "TJ":
				if pendingBreak {
					out.newline()
					pendingBreak = false
				}
				out.write(strings.Join(operands, ""))
			case "'", "\"":
				out.newline()
				pendingBreak, haveTmY = false, false
				out.write(strings.Join(operands, ""))
			case "Td", "TD":
				if len(numbers) >= 2 && numbers[len(numbers)-1] != 0 {
					out.newline()
					pendingBreak, haveTmY = false, false
				} else if !pendingBreak {
					out.space()
				}
			case "T*":
				out.newline()
				pendingBreak, haveTmY = false, false
			case "Tm":
				if len(numbers) >= 6 {
					y := numbers[len(numbers)-1]
					if haveTmY && y == lastTmY {
						out.space()
					} else {
						out.newline()
					}
					lastTmY, haveTmY = y, true
				} else {
					out.newline()
					haveTmY = false
				}
				pendingBreak = false
			case "ET":
				pendingBreak = true
			case "BI":
				s.skipInlineImage()
			}
			operands = operands[:0]
			numbers = numbers[:0]
			inArray = false
		}
	}
}

// textBuilder accumulates lines without leading, trailing or doubled separators
type textBuilder struct {
	lines   []string
	current strings.Builder
}

func (b *textBuilder) write(s string) {
	b.current.WriteString(s)
}

func (b *textBuilder) space() {
	cur := b.current.String()
	if cur != "" && !strings.HasSuffix(cur, " ") {
		b.current.WriteByte(' ')
	}
}

func (b *textBuilder) newline() {
	line := strings.TrimRight(b.current.String(), " ")
	b.current.Reset()
	if strings.TrimSpace(line) != "" {
		b.lines = append(b.lines, line)
	}
}

func (b *textBuilder) String() string {
	b.newline()
	return strings.Join(b.lines, "\n")
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokNumber
	tokArrayStart
	tokArrayEnd
	tokOperator
	tokOther
)

type streamScanner struct {
	data []byte
	pos  int
}

func isDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func (s *streamScanner) next() (string, tokenKind) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			s.pos++
			return decodeGlyphs(s.literal()), tokString
		case c == '<':
			if s.peek(1) == '<' {
				s.pos += 2
				return "<<", tokOther
			}
			s.pos++
			return decodeGlyphs(s.hex()), tokString
		case c == '>':
			s.pos++
			if s.peek(0) == '>' {
				s.pos++
			}
			return ">>", tokOther
		case c == '[':
			s.pos++
			return "[", tokArrayStart
		case c == ']':
			s.pos++
			return "]", tokArrayEnd
		case c == '/':
			s.pos++
			return "/" + s.word(), tokOther
		case c == '{' || c == '}' || c == ')':
			s.pos++
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			return s.word(), tokNumber
		default:
			return s.word(), tokOperator
		}
	}
	return "", tokEOF
}

func (s *streamScanner) peek(offset int) byte {
	if s.pos+offset < len(s.data) {
		return s.data[s.pos+offset]
	}
	return 0
}

func (s *streamScanner) word() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelimiter(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		// Lone delimiter we do not otherwise handle
		s.pos++
	}
	return string(s.data[start:s.pos])
}

// literal reads a (string) body after the opening paren, honoring nesting and escapes
func (s *streamScanner) literal() []byte {
	var buf bytes.Buffer
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return buf.Bytes()
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				// Line continuation
				if s.peek(0) == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					buf.WriteByte(byte(val))
				} else {
					buf.WriteByte(e)
				}
			}
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return buf.Bytes()
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

// hex reads a <hex string> body after the opening angle bracket
func (s *streamScanner) hex() []byte {
	var digits []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, len(digits)/2)
	for i := range out {
		out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
	}
	return out
}

// skipInlineImage advances past inline image data up to and including EI
func (s *streamScanner) skipInlineImage() {
	for s.pos+2 <= len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			(s.pos == 0 || isWhite(s.data[s.pos-1])) &&
			(s.pos+2 == len(s.data) || isWhite(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// decodeGlyphs maps string bytes to text: UTF-16BE with a BOM, Latin-1 otherwise
func decodeGlyphs(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		body := raw[2:]
		units := make([]uint16, 0, len(body)/2)
		for i := 0; i+1 < len(body); i += 2 {
			units = append(units, uint16(body[i])<<8|uint16(body[i+1]))
		}
		return string(utf16.Decode(units))
	}

	var sb strings.Builder
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			sb.WriteByte(' ')
		case unicode.IsPrint(r):
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
