package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/gibberify/internal/domain"
)

//go:embed languages.yaml
var defaultLanguages []byte

// Languages is the language configuration: which natural languages to draw
// words from and how each invented language is assembled.
type Languages struct {
	RealLangs []string                      `yaml:"real_langs" json:"real_langs"`
	GibLangs  map[string]domain.GibSettings `yaml:"gib_langs"  json:"gib_langs"`
}

// DefaultLanguages returns the built-in language configuration.
func DefaultLanguages() *Languages {
	l, err := ParseLanguages(defaultLanguages)
	if err != nil {
		panic(fmt.Sprintf("config: embedded languages.yaml: %v", err))
	}
	return l
}

// ParseLanguages strictly decodes a YAML (or JSON) language config and
// validates it. Unknown keys are errors.
func ParseLanguages(data []byte) (*Languages, error) {
	var l Languages

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return nil, domain.NewConfigError("languages", err)
	}

	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadLanguages reads the language config at path, falling back to the
// built-in default when the file does not exist.
func LoadLanguages(path string) (*Languages, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLanguages(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	l, err := ParseLanguages(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return l, nil
}

// Validate checks the language config and normalises it in place:
// codes are lowercased and real_langs is deduplicated and sorted.
func (l *Languages) Validate() error {
	if len(l.RealLangs) == 0 {
		return domain.NewConfigError("real_langs",
			domain.NewValidationError("real_langs", "at least one language required"))
	}

	real := make([]string, 0, len(l.RealLangs))
	for _, code := range l.RealLangs {
		real = append(real, domain.NormalizeLang(code))
	}
	slices.Sort(real)
	real = slices.Compact(real)
	if unknown := unsupported(real); len(unknown) > 0 {
		return domain.NewConfigError("real_langs",
			fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, strings.Join(unknown, ", ")))
	}
	l.RealLangs = real

	gib := make(map[string]domain.GibSettings, len(l.GibLangs))
	for _, code := range sortedKeys(l.GibLangs) {
		s := l.GibLangs[code]
		key := "gib_langs." + code

		name := strings.ToLower(strings.TrimSpace(code))
		if name == "" || strings.Contains(name, "-") {
			return domain.NewConfigError(key,
				domain.NewValidationError(key, "invalid language code"))
		}
		if domain.IsNatural(name) {
			return domain.NewConfigError(key,
				domain.NewValidationError(key, "invented language collides with a natural language"))
		}
		if _, dup := gib[name]; dup {
			return domain.NewConfigError(key,
				domain.NewValidationError(key, "invented language code duplicates "+name))
		}

		if len(s.Pool) == 0 {
			return domain.NewConfigError(key+".pool", domain.ErrEmptyPool)
		}
		for i, p := range s.Pool {
			s.Pool[i] = domain.NormalizeLang(p)
		}
		if unknown := unsupported(s.Pool); len(unknown) > 0 {
			return domain.NewConfigError(key+".pool",
				fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, strings.Join(unknown, ", ")))
		}
		for _, p := range s.Pool {
			if _, ok := slices.BinarySearch(real, p); !ok {
				return domain.NewConfigError(key+".pool",
					domain.NewValidationError(key+".pool", p+" is not listed in real_langs"))
			}
		}
		gib[name] = s
	}
	l.GibLangs = gib

	return nil
}

// GibCodes returns the invented language codes, sorted.
func (l *Languages) GibCodes() []string {
	return sortedKeys(l.GibLangs)
}

// Write validates l and persists it as YAML at path. The file is replaced
// atomically.
func (l *Languages) Write(path string) error {
	if err := l.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("config: marshal languages: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".languages-*.tmp")
	if err != nil {
		return fmt.Errorf("config: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("config: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: rename to %s: %w", path, err)
	}
	return nil
}

func unsupported(codes []string) []string {
	var out []string
	for _, c := range codes {
		if !domain.IsNatural(c) {
			out = append(out, c)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
