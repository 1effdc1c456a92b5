package extract

import (
	"strconv"
	"strings"
)

// showText collects the strings drawn by text-showing operators (Tj, TJ, '
// and ") in a page content stream. Line-moving operators and the end of a
// text object insert line breaks; large negative TJ kerning inserts a space.
// Glyphs are taken as single-byte codes, which covers the standard encodings
// and leaves embedded CID fonts unreadable.
func showText(content []byte) string {
	var (
		out     strings.Builder
		pending []string
		inArray bool
		array   strings.Builder
	)

	s := content
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '(':
			str, next := literalString(s, i)
			if inArray {
				array.WriteString(str)
			} else {
				pending = append(pending, str)
			}
			i = next
		case c == '<' && i+1 < len(s) && s[i+1] == '<':
			i += 2
		case c == '<':
			str, next := hexString(s, i)
			if inArray {
				array.WriteString(str)
			} else {
				pending = append(pending, str)
			}
			i = next
		case c == '[':
			inArray = true
			array.Reset()
			i++
		case c == ']':
			inArray = false
			pending = append(pending, array.String())
			i++
		case c == '%':
			for i < len(s) && s[i] != '\n' && s[i] != '\r' {
				i++
			}
		case isDelimiter(c):
			i++
		default:
			start := i
			for i < len(s) && !isDelimiter(s[i]) && s[i] != '(' && s[i] != '<' && s[i] != '[' && s[i] != ']' {
				i++
			}
			if i == start {
				i++
				continue
			}
			tok := string(s[start:i])

			if inArray {
				if n, err := strconv.ParseFloat(tok, 64); err == nil && n < -200 {
					array.WriteByte(' ')
				}
				continue
			}

			switch tok {
			case "Tj", "TJ":
				writeLast(&out, pending)
			case "'", "\"":
				out.WriteByte('\n')
				writeLast(&out, pending)
			case "T*", "Td", "TD", "ET":
				if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
					out.WriteByte('\n')
				}
			}
			if isOperator(tok) {
				pending = pending[:0]
			}
		}
	}

	return out.String()
}

func writeLast(out *strings.Builder, pending []string) {
	if len(pending) == 0 {
		return
	}
	// single-byte glyph codes are read as Latin-1
	for _, b := range []byte(pending[len(pending)-1]) {
		out.WriteRune(rune(b))
	}
}

func isOperator(tok string) bool {
	if tok == "" {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return tok[0] != '/'
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0, '>', '{', '}', ')':
		return true
	}
	return false
}

// literalString decodes a (...) string starting at s[i] and returns it with
// the index just past its closing parenthesis.
func literalString(s []byte, i int) (string, int) {
	var b strings.Builder
	depth := 0
	i++
	for i < len(s) {
		c := s[i]
		switch c {
		case '\\':
			i++
			if i >= len(s) {
				return b.String(), i
			}
			switch e := s[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
			default:
				if e >= '0' && e <= '7' {
					end := i
					for end < len(s) && end < i+3 && s[end] >= '0' && s[end] <= '7' {
						end++
					}
					n, _ := strconv.ParseUint(string(s[i:end]), 8, 8)
					b.WriteByte(byte(n))
					i = end
					continue
				}
				b.WriteByte(e)
			}
		case '(':
			depth++
			b.WriteByte(c)
		case ')':
			if depth == 0 {
				return b.String(), i + 1
			}
			depth--
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
		i++
	}
	return b.String(), i
}

// hexString decodes a <...> string starting at s[i].
func hexString(s []byte, i int) (string, int) {
	var digits []byte
	i++
	for i < len(s) && s[i] != '>' {
		if isHex(s[i]) {
			digits = append(digits, s[i])
		}
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}

	out := make([]byte, 0, len(digits)/2)
	for j := 0; j < len(digits); j += 2 {
		n, _ := strconv.ParseUint(string(digits[j:j+2]), 16, 8)
		out = append(out, byte(n))
	}
	return string(out), i + 1
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
