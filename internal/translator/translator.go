// Package translator turns text into an invented language and back using
// the dictionaries built by the scrambler.
package translator

import (
	"math/rand/v2"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// Syllabizer splits a word into syllables.
type Syllabizer interface {
	Syllabize(word string) []string
}

// placeholder marks already translated runes during Degibberify.
const placeholder = '\ufffd'

// Gibberify translates text with a forward dictionary. Non-word runs are
// copied verbatim. Each word is syllabized and every syllable replaced by
// its mapping; a syllable missing from the dictionary gets a random value
// of the same length (or of any length if that bucket is absent).
// Capitalization is carried over and runs of spaces are collapsed.
func Gibberify(d *domain.Dictionary, syl Syllabizer, text string, rng *rand.Rand) string {
	if text == "" {
		return ""
	}
	upper := cases.Upper(language.Und)
	title := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, tok := range tokenize(text) {
		if !tok.word {
			b.WriteString(tok.text)
			continue
		}

		var w strings.Builder
		for _, s := range syl.Syllabize(tok.text) {
			if v, ok := d.Lookup(s); ok {
				w.WriteString(v)
				continue
			}
			v, _ := d.RandomValue(rng, utf8.RuneCountInString(s))
			w.WriteString(v)
		}

		out := w.String()
		if startsUpper(tok.text) {
			if utf8.RuneCountInString(tok.text) >= 2 && isAllUpper(tok.text) {
				out = upper.String(out)
			} else {
				out = title.String(out)
			}
		}
		b.WriteString(out)
	}
	return domain.CollapseSpaces(b.String())
}

// Degibberify approximates the inverse of Gibberify with a reverse
// dictionary. Longer syllables are matched first; within a length the
// syllables are tried in lexicographic order. Every match is replaced in
// the output and masked in a working copy so that it cannot match again.
// Unmatched text is left as is (lowercased).
func Degibberify(d *domain.Dictionary, text string) string {
	if text == "" {
		return ""
	}
	out := []rune(strings.ToLower(text))
	work := slices.Clone(out)

	for _, n := range d.Lengths() {
		for _, key := range d.Keys(n) {
			k := []rune(key)
			if len(k) == 0 {
				continue
			}
			mapping := []rune(d.Buckets[n][key])
			mask := slices.Repeat([]rune{placeholder}, len(mapping))

			for i := 0; i+len(k) <= len(work); {
				if !slices.Equal(work[i:i+len(k)], k) {
					i++
					continue
				}
				work = slices.Replace(work, i, i+len(k), mask...)
				out = slices.Replace(out, i, i+len(k), mapping...)
				i += len(mapping)
			}
		}
	}
	return string(out)
}
