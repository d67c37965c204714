package domain

import (
	"slices"
	"unicode/utf8"
)

// WordPool is a sorted set of unique lowercase words of one natural language.
type WordPool []string

// NewWordPool sorts and deduplicates words.
func NewWordPool(words []string) WordPool {
	out := slices.Clone(words)
	slices.Sort(out)
	return WordPool(slices.Compact(out))
}

// SyllablePool buckets unique syllables by their length in runes. Each
// bucket is kept sorted.
type SyllablePool map[int][]string

// Add inserts syllables into the pool, ignoring the empty string and
// syllables already present.
func (p SyllablePool) Add(syllables ...string) {
	for _, s := range syllables {
		if s == "" {
			continue
		}
		n := utf8.RuneCountInString(s)
		bucket := p[n]
		i, found := slices.BinarySearch(bucket, s)
		if found {
			continue
		}
		p[n] = slices.Insert(bucket, i, s)
	}
}

// Contains reports whether s is in the pool.
func (p SyllablePool) Contains(s string) bool {
	_, found := slices.BinarySearch(p[utf8.RuneCountInString(s)], s)
	return found
}

// Merge adds every syllable of other to p.
func (p SyllablePool) Merge(other SyllablePool) {
	for _, n := range other.Lengths() {
		p.Add(other[n]...)
	}
}

// Lengths returns the bucket lengths in ascending order.
func (p SyllablePool) Lengths() []int {
	lengths := make([]int, 0, len(p))
	for n, bucket := range p {
		if len(bucket) > 0 {
			lengths = append(lengths, n)
		}
	}
	slices.Sort(lengths)
	return lengths
}

// Flatten returns all syllables ordered by length, then lexicographically.
func (p SyllablePool) Flatten() []string {
	out := make([]string, 0, p.Len())
	for _, n := range p.Lengths() {
		out = append(out, p[n]...)
	}
	return out
}

// Len is the total number of syllables across all buckets.
func (p SyllablePool) Len() int {
	total := 0
	for _, bucket := range p {
		total += len(bucket)
	}
	return total
}

// Filter returns a new pool holding the syllables for which keep is true,
// visited in Flatten order.
func (p SyllablePool) Filter(keep func(string) bool) SyllablePool {
	out := make(SyllablePool, len(p))
	for _, n := range p.Lengths() {
		var bucket []string
		for _, s := range p[n] {
			if keep(s) {
				bucket = append(bucket, s)
			}
		}
		if len(bucket) > 0 {
			out[n] = bucket
		}
	}
	return out
}
