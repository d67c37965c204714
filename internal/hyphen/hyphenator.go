// Package hyphen implements Liang's pattern hyphenation over the libhyphen
// ".dic" pattern files used by LibreOffice and pyphen.
package hyphen

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Default minimum number of runes kept before the first and after the last
// hyphenation point.
const (
	DefaultLeftMin  = 2
	DefaultRightMin = 2
)

// pattern holds the inter-letter values of one pattern with leading and
// trailing zeros trimmed. offset is the index of the first kept value.
type pattern struct {
	offset int
	values []int
}

// Hyphenator finds hyphenation points in words of one language.
type Hyphenator struct {
	Lang     string
	LeftMin  int
	RightMin int

	patterns map[string]pattern
	maxLen   int
}

// Parse reads a libhyphen pattern file. The first line names the charset,
// which must be UTF-8. Comments and LEFTHYPHENMIN-style directives are
// skipped; a line may hold several whitespace-separated patterns.
// Non-standard hyphenation suffixes ("/ck=k,1,2") are ignored but the
// pattern values before them are kept.
func Parse(lang string, r io.Reader) (*Hyphenator, error) {
	h := &Hyphenator{
		Lang:     lang,
		LeftMin:  DefaultLeftMin,
		RightMin: DefaultRightMin,
		patterns: make(map[string]pattern),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	first := true
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if first {
			first = false
			if cs := strings.ToUpper(line); cs != "UTF-8" && cs != "UTF8" {
				return nil, fmt.Errorf("hyphen %s: unsupported charset %q", lang, line)
			}
			continue
		}
		if skipLine(line) {
			continue
		}
		for _, p := range strings.Fields(line) {
			h.add(p)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hyphen %s: read: %w", lang, err)
	}
	if first {
		return nil, fmt.Errorf("hyphen %s: empty pattern file", lang)
	}
	return h, nil
}

// ParseBytes is Parse over an in-memory pattern file.
func ParseBytes(lang string, data []byte) (*Hyphenator, error) {
	return Parse(lang, bytes.NewReader(data))
}

func skipLine(line string) bool {
	if line == "" || line[0] == '%' || line[0] == '#' {
		return true
	}
	for _, directive := range []string{
		"LEFTHYPHENMIN", "RIGHTHYPHENMIN",
		"COMPOUNDLEFTHYPHENMIN", "COMPOUNDRIGHTHYPHENMIN",
		"NEXTLEVEL", "NOHYPHEN",
	} {
		if strings.HasPrefix(line, directive) {
			return true
		}
	}
	return false
}

func (h *Hyphenator) add(line string) {
	if i := strings.IndexByte(line, '/'); i >= 0 {
		line = line[:i]
	}
	line = decodeHex(line)

	var (
		letters []rune
		values  []int
		pending int
	)
	for _, r := range line {
		if r >= '0' && r <= '9' {
			pending = int(r - '0')
			continue
		}
		letters = append(letters, unicode.ToLower(r))
		values = append(values, pending)
		pending = 0
	}
	values = append(values, pending)

	if len(letters) == 0 {
		return
	}

	start, end := 0, len(values)
	for start < end && values[start] == 0 {
		start++
	}
	for end > start && values[end-1] == 0 {
		end--
	}
	if start == end {
		return
	}

	key := string(letters)
	h.patterns[key] = pattern{offset: start, values: values[start:end]}
	if len(letters) > h.maxLen {
		h.maxLen = len(letters)
	}
}

// decodeHex replaces TeX-style "^^hh" escapes with the byte they name.
func decodeHex(s string) string {
	if !strings.Contains(s, "^^") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if i+3 < len(s) && s[i] == '^' && s[i+1] == '^' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteRune(rune(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// Len is the number of loaded patterns.
func (h *Hyphenator) Len() int { return len(h.patterns) }

// Positions returns the rune offsets inside word where a hyphen may be
// inserted, honoring LeftMin and RightMin.
func (h *Hyphenator) Positions(word string) []int {
	runes := []rune(strings.ToLower(word))
	n := len(runes)
	if n == 0 || len(h.patterns) == 0 {
		return nil
	}

	pointed := make([]rune, 0, n+2)
	pointed = append(pointed, '.')
	pointed = append(pointed, runes...)
	pointed = append(pointed, '.')

	refs := make([]int, len(pointed)+1)
	for i := 0; i < len(pointed)-1; i++ {
		limit := min(i+h.maxLen, len(pointed))
		for j := i + 1; j <= limit; j++ {
			p, ok := h.patterns[string(pointed[i:j])]
			if !ok {
				continue
			}
			for k, v := range p.values {
				if idx := i + p.offset + k; v > refs[idx] {
					refs[idx] = v
				}
			}
		}
	}

	var positions []int
	for i, v := range refs {
		pos := i - 1
		if v%2 == 1 && pos >= h.LeftMin && pos <= n-h.RightMin {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Split cuts word at every hyphenation point. The fragments concatenate back
// to the lowercased word.
func (h *Hyphenator) Split(word string) []string {
	word = strings.ToLower(word)
	positions := h.Positions(word)
	if len(positions) == 0 {
		return []string{word}
	}

	out := make([]string, 0, len(positions)+1)
	byteAt := 0
	runeAt := 0
	prev := 0
	for _, pos := range positions {
		for runeAt < pos {
			_, size := utf8.DecodeRuneInString(word[byteAt:])
			byteAt += size
			runeAt++
		}
		out = append(out, word[prev:byteAt])
		prev = byteAt
	}
	return append(out, word[prev:])
}

// Hyphenate inserts sep at every hyphenation point of word.
func (h *Hyphenator) Hyphenate(word, sep string) string {
	return strings.Join(h.Split(word), sep)
}
