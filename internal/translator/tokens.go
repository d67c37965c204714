package translator

import (
	"unicode"
	"unicode/utf8"
)

type token struct {
	text string
	word bool
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

// tokenize splits text into alternating runs of word and non-word runes.
// Concatenating the tokens gives text back.
func tokenize(text string) []token {
	var tokens []token
	start := 0
	inWord := false
	for i, r := range text {
		w := isWordRune(r)
		if i == 0 {
			inWord = w
			continue
		}
		if w != inWord {
			tokens = append(tokens, token{text: text[start:i], word: inWord})
			start = i
			inWord = w
		}
	}
	if start < len(text) {
		tokens = append(tokens, token{text: text[start:], word: inWord})
	}
	return tokens
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) || unicode.IsTitle(r)
}
