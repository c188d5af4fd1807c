package jsonrepair

import (
	"fmt"
	"strings"
)

// Repair rewrites a JSON-looking span so it parses: trailing commas before
// } or ] are dropped and stray backslashes inside strings are doubled.
// Valid escapes pass through unchanged.
func Repair(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	inString := false
	last := len(text) - 1

	for i := 0; i < len(text); i++ {
		c := text[i]

		if !inString {
			switch {
			case c == '"':
				inString = true
			case c == ',' && closesNext(text, i+1):
				continue
			case c == '\\' && i == last:
				b.WriteString(`\\`)
				continue
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = false
			b.WriteByte(c)
		case '\\':
			if i == last {
				b.WriteString(`\\`)
				continue
			}
			next := text[i+1]
			switch {
			case isSimpleEscape(next):
				b.WriteByte(c)
				b.WriteByte(next)
				i++
			case next == 'u':
				b.WriteString(`\u`)
				i++
				if hasHex4(text, i+1) {
					b.WriteString(text[i+1 : i+5])
					i += 4
				}
			default:
				// the character after the stray backslash is emitted on the next turn
				b.WriteString(`\\`)
			}
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

// RepairStrict is the slower last-chance pass. On top of Repair it escapes
// raw control characters inside strings, doubles a backslash before a u that
// lacks four hex digits, and closes whatever string or containers are still
// open at the end of the input.
func RepairStrict(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 32)

	var open []byte
	inString := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if !inString {
			switch c {
			case '"':
				inString = true
			case ',':
				if n := nextSignificant(text, i+1); n == '}' || n == ']' || n == 0 {
					continue
				}
			case '{':
				open = append(open, '}')
			case '[':
				open = append(open, ']')
			case '}', ']':
				if len(open) > 0 && open[len(open)-1] == c {
					open = open[:len(open)-1]
				}
			case '\\':
				continue
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '"':
			inString = false
			b.WriteByte(c)
		case c == '\\':
			if i == len(text)-1 {
				b.WriteString(`\\`)
				continue
			}
			next := text[i+1]
			switch {
			case isSimpleEscape(next):
				b.WriteByte(c)
				b.WriteByte(next)
				i++
			case next == 'u' && hasHex4(text, i+2):
				b.WriteString(text[i : i+6])
				i += 5
			default:
				b.WriteString(`\\`)
			}
		case c < 0x20:
			b.WriteString(controlEscape(c))
		default:
			b.WriteByte(c)
		}
	}

	if inString {
		b.WriteByte('"')
	}
	out := strings.TrimRight(b.String(), " \t\r\n")
	if len(open) > 0 {
		out = strings.TrimSuffix(out, ",")
		if strings.HasSuffix(out, ":") {
			out += "null"
		}
	}
	for i := len(open) - 1; i >= 0; i-- {
		out += string(open[i])
	}
	return out
}

func isSimpleEscape(c byte) bool {
	switch c {
	case '\\', '"', '/', 'b', 'f', 'n', 'r', 't':
		return true
	}
	return false
}

func hasHex4(s string, at int) bool {
	if at < 0 || at+4 > len(s) {
		return false
	}
	for _, c := range []byte(s[at : at+4]) {
		if !isHex(c) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// closesNext reports whether the next non-space byte at or after i closes a
// container.
func closesNext(s string, i int) bool {
	n := nextSignificant(s, i)
	return n == '}' || n == ']'
}

// nextSignificant returns the first non-space byte at or after i, or 0 at the
// end of input.
func nextSignificant(s string, i int) byte {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return s[i]
		}
	}
	return 0
}

func controlEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	}
	return fmt.Sprintf(`\u%04x`, c)
}
