// Package jsonrepair recovers JSON objects from untrusted model output.
package jsonrepair

import (
	"strings"
	"unicode"
)

const fence = "```"

// Extract narrows raw model output to the span most likely to hold the
// intended JSON object. It does not validate the result.
//
// Order: fenced ```json block, first balanced {...} span, first { to last },
// and finally the text unchanged.
func Extract(text string) string {
	if body, ok := fencedObject(text); ok {
		return body
	}

	start := strings.IndexByte(text, '{')
	if start == -1 {
		return text
	}
	if end := MatchingBrace(text, start); end != -1 {
		return text[start : end+1]
	}
	if last := strings.LastIndexByte(text, '}'); last > start {
		return text[start : last+1]
	}
	return text
}

// fencedObject looks for a code fence, optionally tagged json, whose body
// starts with { and ends with } right before a closing fence.
func fencedObject(text string) (string, bool) {
	for from := 0; from < len(text); {
		i := strings.Index(text[from:], fence)
		if i == -1 {
			return "", false
		}
		open := from + i + len(fence)
		body := open
		if len(text)-body >= 4 && strings.EqualFold(text[body:body+4], "json") {
			body += 4
		}
		rest := strings.TrimLeftFunc(text[body:], unicode.IsSpace)
		body = len(text) - len(rest)

		if strings.HasPrefix(rest, "{") {
			if span, ok := closingFence(text, body); ok {
				return span, true
			}
		}
		from = open
	}
	return "", false
}

func closingFence(text string, body int) (string, bool) {
	for from := body; from < len(text); {
		j := strings.Index(text[from:], fence)
		if j == -1 {
			return "", false
		}
		candidate := strings.TrimRightFunc(text[body:from+j], unicode.IsSpace)
		if len(candidate) >= 2 && strings.HasSuffix(candidate, "}") {
			return candidate, true
		}
		from += j + len(fence)
	}
	return "", false
}

// MatchingBrace returns the index of the } closing the { at start, skipping
// braces inside quoted strings, or -1 when the object never closes.
func MatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}

		if char == '\\' && inString {
			escaped = true
			continue
		}

		if char == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
