// Package syllabizer turns raw hunspell word lists into word pools and word
// pools into syllable pools.
package syllabizer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/hyphen"
)

// Syllabizer splits words into syllables with a chain of hyphenators.
type Syllabizer struct {
	chain hyphen.Chain
}

// New creates a Syllabizer narrowing every word with each hyphenator of
// chain in turn.
func New(chain hyphen.Chain) *Syllabizer {
	return &Syllabizer{chain: chain}
}

// Syllabize returns the ordered syllable fragments of word. The word is
// lowercased and split on apostrophes first. Fragments are not deduplicated,
// so they concatenate back to the lowercased word without its apostrophes.
func (s *Syllabizer) Syllabize(word string) []string {
	parts := strings.FieldsFunc(strings.ToLower(word), isApostrophe)
	out := make([]string, 0, len(parts)*2)
	for _, p := range parts {
		out = append(out, s.chain.Split(p)...)
	}
	return out
}

// Distinct drops repeated fragments, keeping first-seen order.
func Distinct(frags []string) []string {
	seen := make(map[string]struct{}, len(frags))
	out := make([]string, 0, len(frags))
	for _, f := range frags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// BuildPool syllabizes every word and buckets the distinct syllables by
// length.
func (s *Syllabizer) BuildPool(words domain.WordPool) domain.SyllablePool {
	pool := make(domain.SyllablePool)
	for _, w := range words {
		pool.Add(Distinct(s.Syllabize(strings.TrimSpace(w)))...)
	}
	return pool
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

// ParseRaw reads a hunspell dictionary. The first line (the word count) is
// skipped, morphological flags after '/' are dropped and words of
// non-Latin-script languages are transliterated. Lines with
// superscript/subscript digits, non-letters or irregular capitalization
// (acronyms) are discarded.
func ParseRaw(lang string, r io.Reader) (domain.WordPool, error) {
	lang = domain.NormalizeLang(lang)
	table := translitTable(lang)
	lower := cases.Lower(language.Make(lang))

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var words []string
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		line, _, _ := strings.Cut(sc.Text(), "/")
		line = domain.NormalizeWord(line)
		line = transliterate(table, line)
		if !acceptWord(line) {
			continue
		}
		words = append(words, lower.String(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("parse raw %s: %w", lang, err)
	}
	return domain.NewWordPool(words), nil
}

func acceptWord(w string) bool {
	if w == "" || strings.ContainsFunc(w, isScriptDigit) {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	_, tail, _ := cutFirstRune(w)
	return tail == "" || isLowerTail(tail)
}

func cutFirstRune(s string) (string, string, bool) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:], true
		}
	}
	return s, "", false
}

// isLowerTail has the semantics of Python's str.islower: at least one cased
// rune and no upper or title case runes.
func isLowerTail(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r), unicode.IsTitle(r):
			return false
		case unicode.IsLower(r):
			cased = true
		}
	}
	return cased
}

func isScriptDigit(r rune) bool {
	switch {
	case r == '¹', r == '²', r == '³':
		return true
	case r >= '⁰' && r <= '⁹':
		return true
	case r >= '₀' && r <= '₉':
		return true
	}
	return false
}
