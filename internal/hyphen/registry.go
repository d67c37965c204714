package hyphen

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/heartmarshall/gibberify/internal/domain"
)

// DefaultLanguages are the pattern sets every word is narrowed with when no
// other list is configured.
var DefaultLanguages = []string{
	"en", "it", "de", "fr", "ru", "es", "nl", "ca",
	"el", "et", "is", "lt", "nb", "pt", "sk",
}

// patternFiles maps a base language code to its libhyphen file name.
var patternFiles = map[string]string{
	"bg": "hyph_bg_BG.dic",
	"ca": "hyph_ca.dic",
	"cs": "hyph_cs_CZ.dic",
	"da": "hyph_da_DK.dic",
	"de": "hyph_de_DE.dic",
	"el": "hyph_el_GR.dic",
	"en": "hyph_en_US.dic",
	"es": "hyph_es.dic",
	"et": "hyph_et_EE.dic",
	"fr": "hyph_fr.dic",
	"gl": "hyph_gl.dic",
	"hr": "hyph_hr_HR.dic",
	"hu": "hyph_hu_HU.dic",
	"is": "hyph_is.dic",
	"it": "hyph_it_IT.dic",
	"lt": "hyph_lt.dic",
	"lv": "hyph_lv_LV.dic",
	"nb": "hyph_nb_NO.dic",
	"nl": "hyph_nl_NL.dic",
	"nn": "hyph_nn_NO.dic",
	"pl": "hyph_pl_PL.dic",
	"pt": "hyph_pt_PT.dic",
	"ro": "hyph_ro_RO.dic",
	"ru": "hyph_ru_RU.dic",
	"sk": "hyph_sk_SK.dic",
	"sl": "hyph_sl_SI.dic",
	"sr": "hyph_sr.dic",
	"sv": "hyph_sv.dic",
	"uk": "hyph_uk_UA.dic",
}

// FileName returns the pattern file name for lang.
func FileName(lang string) (string, bool) {
	name, ok := patternFiles[domain.NormalizeLang(lang)]
	return name, ok
}

// Check verifies that every code has hyphenation patterns. Unknown codes are
// reported together as a configuration error.
func Check(langs []string) error {
	var unknown []string
	for _, l := range langs {
		if _, ok := FileName(l); !ok {
			unknown = append(unknown, l)
		}
	}
	if len(unknown) > 0 {
		return domain.NewConfigError("hyphenation",
			fmt.Errorf("%w: %s", domain.ErrUnsupportedLanguage, strings.Join(unknown, ", ")))
	}
	return nil
}

// Source provides raw pattern files.
type Source interface {
	Patterns(ctx context.Context, lang string) ([]byte, error)
}

// Load checks langs, fetches their pattern files from src and parses them
// into a Chain in the given order.
func Load(ctx context.Context, src Source, langs []string) (Chain, error) {
	if err := Check(langs); err != nil {
		return nil, err
	}
	chain := make(Chain, 0, len(langs))
	for _, l := range langs {
		data, err := src.Patterns(ctx, l)
		if err != nil {
			return nil, fmt.Errorf("load patterns %s: %w", l, err)
		}
		h, err := ParseBytes(l, data)
		if err != nil {
			return nil, err
		}
		chain = append(chain, h)
	}
	return chain, nil
}

// Chain applies several hyphenators in turn, each one splitting the
// fragments produced by the previous one.
type Chain []*Hyphenator

// Split returns the fragments of word after every hyphenator has run. Empty
// fragments are dropped, so the result concatenates back to the lowercased
// word.
func (c Chain) Split(word string) []string {
	frags := []string{strings.ToLower(word)}
	for _, h := range c {
		next := make([]string, 0, len(frags))
		for _, f := range frags {
			next = append(next, h.Split(f)...)
		}
		frags = next
	}
	return slices.DeleteFunc(frags, func(s string) bool { return s == "" })
}

// Langs returns the languages of the chain in order.
func (c Chain) Langs() []string {
	out := make([]string, len(c))
	for i, h := range c {
		out[i] = h.Lang
	}
	return out
}
