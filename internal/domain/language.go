package domain

import (
	"slices"
	"strings"
)

// naturalLanguages lists every natural language gibberify can draw words from.
var naturalLanguages = map[string]string{
	"bg": "Bulgarian",
	"ca": "Catalan",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"et": "Estonian",
	"fr": "French",
	"gl": "Galician",
	"hr": "Croatian",
	"hu": "Hungarian",
	"is": "Icelandic",
	"it": "Italian",
	"lt": "Lithuanian",
	"lv": "Latvian",
	"nb": "Norwegian-Bokmål",
	"nl": "Dutch",
	"nn": "Norwegian-Nynorsk",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"sr": "Serbian",
	"sv": "Swedish",
	"uk": "Ukrainian",
}

// NormalizeLang reduces a language code to its lowercase base form by
// stripping any locale suffix: "en_US" and "pt-BR" become "en" and "pt".
func NormalizeLang(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "_-."); i >= 0 {
		code = code[:i]
	}
	return code
}

// IsNatural reports whether code (after normalization) is a supported
// natural language.
func IsNatural(code string) bool {
	_, ok := naturalLanguages[NormalizeLang(code)]
	return ok
}

// LangName returns the English name of a natural language, or the code
// itself for invented languages.
func LangName(code string) string {
	if name, ok := naturalLanguages[NormalizeLang(code)]; ok {
		return name
	}
	return code
}

// NaturalLanguages returns all supported natural language codes, sorted.
func NaturalLanguages() []string {
	codes := make([]string, 0, len(naturalLanguages))
	for c := range naturalLanguages {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	return codes
}

// PairKey is the storage key of a dictionary translating from langIn to langOut.
func PairKey(langIn, langOut string) string {
	return langIn + "-" + langOut
}

// SplitPairKey is the inverse of PairKey.
func SplitPairKey(key string) (langIn, langOut string, ok bool) {
	return strings.Cut(key, "-")
}
