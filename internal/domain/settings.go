package domain

import (
	"encoding/hex"
	"encoding/json"
	"slices"

	"github.com/zeebo/blake3"
)

// GibSettings configures one invented language.
type GibSettings struct {
	Pool       []string `yaml:"pool" json:"pool"`
	Enrich     []string `yaml:"enrich,omitempty" json:"enrich,omitempty"`
	Impoverish []string `yaml:"impoverish,omitempty" json:"impoverish,omitempty"`
	Remove     []string `yaml:"remove,omitempty" json:"remove,omitempty"`
}

// Clone returns a deep copy of s.
func (s GibSettings) Clone() GibSettings {
	return GibSettings{
		Pool:       slices.Clone(s.Pool),
		Enrich:     slices.Clone(s.Enrich),
		Impoverish: slices.Clone(s.Impoverish),
		Remove:     slices.Clone(s.Remove),
	}
}

// Equal reports whether two settings describe the same language. Pool order
// is irrelevant, pattern order is not since patterns apply sequentially.
func (s GibSettings) Equal(o GibSettings) bool {
	a, b := slices.Clone(s.Pool), slices.Clone(o.Pool)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b) &&
		slices.Equal(s.Enrich, o.Enrich) &&
		slices.Equal(s.Impoverish, o.Impoverish) &&
		slices.Equal(s.Remove, o.Remove)
}

// Fingerprint is a BLAKE3 digest of the canonical form of s.
func (s GibSettings) Fingerprint() string {
	c := s.Clone()
	slices.Sort(c.Pool)
	return digest(c)
}

// GenerationFingerprint identifies one dictionary build: the settings plus
// everything else that changes its output.
func GenerationFingerprint(s GibSettings, seed uint64, retain float64, version string) string {
	return digest(struct {
		Settings string  `json:"settings"`
		Seed     uint64  `json:"seed"`
		Retain   float64 `json:"retain"`
		Version  string  `json:"version"`
	}{s.Fingerprint(), seed, retain, version})
}

func digest(v any) string {
	// json.Marshal never fails for these plain structs.
	data, _ := json.Marshal(v)
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
