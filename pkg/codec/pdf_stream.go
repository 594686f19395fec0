package codec

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

type operandKind int

const (
	opNumber operandKind = iota
	opString
	opArray
	opOther
)

type operand struct {
	kind  operandKind
	num   float64
	str   []byte
	items []operand
}

// contentStreamText recovers the text drawn by a page content stream. It is a
// best-effort reader: fonts with custom encodings come out as their raw codes.
func contentStreamText(data []byte) string {
	s := &streamScanner{data: data}
	var (
		out   strings.Builder
		stack []operand
	)

	newline := func() {
		if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
			out.WriteByte('\n')
		}
	}

	for {
		op, tok, ok := s.next()
		if !ok {
			break
		}
		if tok != "" {
			switch tok {
			case "Tj":
				if str, found := lastString(stack); found {
					out.WriteString(decodePDFBytes(str))
				}
			case "'", "\"":
				newline()
				if str, found := lastString(stack); found {
					out.WriteString(decodePDFBytes(str))
				}
			case "TJ":
				if n := len(stack); n > 0 && stack[n-1].kind == opArray {
					for _, it := range stack[n-1].items {
						switch it.kind {
						case opString:
							out.WriteString(decodePDFBytes(it.str))
						case opNumber:
							switch {
							case it.num < -1000:
								out.WriteString("  ")
							case it.num < -250:
								out.WriteByte(' ')
							}
						}
					}
				}
			case "Td", "TD":
				if n := len(stack); n >= 2 && stack[n-1].kind == opNumber {
					if math.Abs(stack[n-1].num) > 0.5 {
						newline()
					} else if stack[n-2].kind == opNumber && stack[n-2].num > 0.5 {
						out.WriteString("  ")
					}
				}
			case "T*", "Tm":
				newline()
			case "BI":
				s.skipInlineImage()
			}
			stack = stack[:0]
			continue
		}
		stack = append(stack, op)
	}

	return tidyLines(out.String())
}

func lastString(stack []operand) ([]byte, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].kind == opString {
			return stack[i].str, true
		}
	}
	return nil, false
}

func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// decodePDFBytes handles UTF-16BE strings (with BOM) and falls back to cp1252.
func decodePDFBytes(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		u := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			u = append(u, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u))
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

type streamScanner struct {
	data []byte
	pos  int
}

func isPDFWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// next returns either an operand or an operator token.
func (s *streamScanner) next() (operand, string, bool) {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case isPDFWhite(c):
			s.pos++
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case c == '(':
			return operand{kind: opString, str: s.literal()}, "", true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.pos += 2
				return operand{kind: opOther}, "", true
			}
			return operand{kind: opString, str: s.hex()}, "", true
		case c == '>':
			s.pos++
			if s.pos < len(s.data) && s.data[s.pos] == '>' {
				s.pos++
			}
			return operand{kind: opOther}, "", true
		case c == '[':
			s.pos++
			return operand{kind: opArray, items: s.array()}, "", true
		case c == ']':
			s.pos++
		case c == '/':
			s.pos++
			s.regular()
			return operand{kind: opOther}, "", true
		case c == '{' || c == '}' || c == ')':
			s.pos++
		default:
			word := s.regular()
			if word == "" {
				s.pos++
				continue
			}
			if n, err := strconv.ParseFloat(word, 64); err == nil {
				return operand{kind: opNumber, num: n}, "", true
			}
			return operand{}, word, true
		}
	}
	return operand{}, "", false
}

func (s *streamScanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && !isPDFWhite(s.data[s.pos]) && !isPDFDelim(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *streamScanner) array() []operand {
	var items []operand
	for s.pos < len(s.data) {
		for s.pos < len(s.data) && isPDFWhite(s.data[s.pos]) {
			s.pos++
		}
		if s.pos >= len(s.data) {
			break
		}
		if s.data[s.pos] == ']' {
			s.pos++
			break
		}
		op, tok, ok := s.next()
		if !ok {
			break
		}
		if tok != "" {
			continue
		}
		items = append(items, op)
	}
	return items
}

func (s *streamScanner) literal() []byte {
	s.pos++ // opening paren
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
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; k++ {
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

func (s *streamScanner) hex() []byte {
	s.pos++ // '<'
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		c := s.data[s.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
		s.pos++
	}
	s.pos++ // '>'
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i < len(digits); i += 2 {
		v, _ := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		out = append(out, byte(v))
	}
	return out
}

// skipInlineImage jumps past the binary payload between ID and EI.
func (s *streamScanner) skipInlineImage() {
	if i := bytes.Index(s.data[s.pos:], []byte("ID")); i >= 0 {
		s.pos += i + 2
	}
	for s.pos < len(s.data) {
		i := bytes.Index(s.data[s.pos:], []byte("EI"))
		if i < 0 {
			s.pos = len(s.data)
			return
		}
		end := s.pos + i
		s.pos = end + 2
		if end > 0 && isPDFWhite(s.data[end-1]) && (s.pos >= len(s.data) || isPDFWhite(s.data[s.pos])) {
			return
		}
	}
}
