package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeWord prepares a dictionary line for the word pool:
//   - trims leading/trailing whitespace
//   - composes to Unicode NFC so that "é" and "é" are the same word
//
// Case is left untouched; callers decide when to lowercase.
func NormalizeWord(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return ""
	}
	return norm.NFC.String(word)
}

// CollapseSpaces compresses runs of ' ' into a single space. Other
// whitespace (tabs, newlines) is preserved verbatim.
func CollapseSpaces(text string) string {
	if !strings.Contains(text, "  ") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
