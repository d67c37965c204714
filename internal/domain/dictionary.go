package domain

import (
	"math/rand/v2"
	"slices"
	"time"
	"unicode/utf8"
)

// Dictionary is a syllable substitution table plus the metadata describing
// how it was built. Forward dictionaries (natural to invented) are bucketed
// by the rune length of the input syllable, reverse ones by the rune length
// of the invented syllable, which is their key.
type Dictionary struct {
	LangIn      string                    `json:"lang_in"`
	LangOut     string                    `json:"lang_out"`
	Reverse     bool                      `json:"reverse"`
	Settings    GibSettings               `json:"settings"`
	Fingerprint string                    `json:"fingerprint"`
	Version     string                    `json:"version"`
	CreatedAt   time.Time                 `json:"created_at"`
	Buckets     map[int]map[string]string `json:"buckets"`

	index *dictIndex
}

// dictIndex holds the sorted bucket lengths and keys of a prepared
// dictionary.
type dictIndex struct {
	lengths []int
	keys    map[int][]string
}

// Prepare sorts bucket lengths and keys once so that Lengths, Keys and
// RandomValue stop copying and sorting on every call. It must run before the
// dictionary is shared between goroutines; Set drops the index again.
func (d *Dictionary) Prepare() {
	idx := &dictIndex{
		lengths: d.sortedLengths(),
		keys:    make(map[int][]string, len(d.Buckets)),
	}
	for _, n := range idx.lengths {
		idx.keys[n] = d.sortedKeys(n)
	}
	d.index = idx
}

// Key is the storage key of the dictionary.
func (d *Dictionary) Key() string { return PairKey(d.LangIn, d.LangOut) }

// Lookup returns the mapping for syllable s.
func (d *Dictionary) Lookup(s string) (string, bool) {
	v, ok := d.Buckets[utf8.RuneCountInString(s)][s]
	return v, ok
}

// Lengths returns the non-empty bucket lengths, longest first. The slice of
// a prepared dictionary is shared and must not be modified.
func (d *Dictionary) Lengths() []int {
	if d.index != nil {
		return d.index.lengths
	}
	return d.sortedLengths()
}

func (d *Dictionary) sortedLengths() []int {
	lengths := make([]int, 0, len(d.Buckets))
	for n, bucket := range d.Buckets {
		if len(bucket) > 0 {
			lengths = append(lengths, n)
		}
	}
	slices.Sort(lengths)
	slices.Reverse(lengths)
	return lengths
}

// Keys returns the sorted keys of the bucket for length n. The slice of a
// prepared dictionary is shared and must not be modified.
func (d *Dictionary) Keys(n int) []string {
	if d.index != nil {
		return d.index.keys[n]
	}
	return d.sortedKeys(n)
}

func (d *Dictionary) sortedKeys(n int) []string {
	bucket := d.Buckets[n]
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len is the total number of entries.
func (d *Dictionary) Len() int {
	total := 0
	for _, bucket := range d.Buckets {
		total += len(bucket)
	}
	return total
}

// RandomValue picks a uniformly random value from the bucket for length n.
// When that bucket is missing a random bucket is used instead. It returns
// false only for an empty dictionary.
func (d *Dictionary) RandomValue(rng *rand.Rand, n int) (string, bool) {
	keys := d.Keys(n)
	if len(keys) == 0 {
		lengths := d.Lengths()
		if len(lengths) == 0 {
			return "", false
		}
		n = lengths[rng.IntN(len(lengths))]
		keys = d.Keys(n)
	}
	return d.Buckets[n][keys[rng.IntN(len(keys))]], true
}

// Set stores key → value in the bucket for length n.
func (d *Dictionary) Set(n int, key, value string) {
	d.index = nil
	if d.Buckets == nil {
		d.Buckets = make(map[int]map[string]string)
	}
	bucket, ok := d.Buckets[n]
	if !ok {
		bucket = make(map[string]string)
		d.Buckets[n] = bucket
	}
	bucket[key] = value
}
