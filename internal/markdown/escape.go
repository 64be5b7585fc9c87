package markdown

import "strings"

// Characters that open inline formatting anywhere in a line.
const inlineChars = "\\`*_[]<>|~"

// Escape makes line render as plain text inside a Markdown paragraph. Inline
// formatting characters are escaped everywhere; heading, list and setext
// markers only where CommonMark reads them, at the start of the line.
func Escape(line string) string {
	content := strings.TrimLeft(line, " ")
	offset := len(line) - len(content)

	marker := -1
	if at := blockMarker(content); at >= 0 {
		marker = offset + at
	}

	var b strings.Builder
	b.Grow(len(line) + 4)

	// All escaped characters are ASCII, so walking bytes never splits a rune.
	for i := 0; i < len(line); i++ {
		c := line[i]
		if i == marker || strings.IndexByte(inlineChars, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return b.String()
}

// blockMarker returns the index of the character in s that would start a
// block construct, or -1.
func blockMarker(s string) int {
	if s == "" {
		return -1
	}

	switch s[0] {
	case '#', '=', '-', '+':
		return 0
	}

	digits := 0
	for digits < len(s) && digits < 9 && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return digits
	}

	return -1
}
