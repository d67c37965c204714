package syllabizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "ju", 'я': "ja",
}

// Per-language differences from the Russian table.
var cyrillicOverrides = map[string]map[rune]string{
	"uk": {
		'г': "h", 'ґ': "g", 'е': "e", 'є': "je", 'и': "y", 'і': "i",
		'ї': "ji", 'й': "j", 'щ': "shch", '\'': "",
	},
	"bg": {
		'щ': "sht", 'ъ': "a", 'ь': "j", 'ю': "yu", 'я': "ya",
	},
	"sr": {
		'ђ': "đ", 'ж': "ž", 'ј': "j", 'љ': "lj", 'њ': "nj", 'ћ': "ć",
		'ц': "c", 'ч': "č", 'џ': "dž", 'ш': "š", 'х': "h",
	},
}

var greek = map[rune]string{
	'α': "a", 'ά': "a", 'β': "v", 'γ': "g", 'δ': "d", 'ε': "e", 'έ': "e",
	'ζ': "z", 'η': "i", 'ή': "i", 'θ': "th", 'ι': "i", 'ί': "i", 'ϊ': "i",
	'ΐ': "i", 'κ': "k", 'λ': "l", 'μ': "m", 'ν': "n", 'ξ': "x", 'ο': "o",
	'ό': "o", 'π': "p", 'ρ': "r", 'σ': "s", 'ς': "s", 'τ': "t", 'υ': "y",
	'ύ': "y", 'ϋ': "y", 'ΰ': "y", 'φ': "f", 'χ': "ch", 'ψ': "ps", 'ω': "o",
	'ώ': "o",
}

// translitTable returns the Latin transliteration table for lang, or nil
// when the language is written in Latin script already.
func translitTable(lang string) map[rune]string {
	switch lang {
	case "ru":
		return cyrillic
	case "uk", "bg", "sr":
		table := make(map[rune]string, len(cyrillic)+len(cyrillicOverrides[lang]))
		for r, s := range cyrillic {
			table[r] = s
		}
		for r, s := range cyrillicOverrides[lang] {
			table[r] = s
		}
		return table
	case "el":
		return greek
	}
	return nil
}

// transliterate rewrites text with table. Case is carried over to the first
// rune of each replacement so that capitalization filters still apply.
func transliterate(table map[rune]string, text string) string {
	if table == nil {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		lower := unicode.ToLower(r)
		repl, ok := table[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r && repl != "" {
			first, size := utf8.DecodeRuneInString(repl)
			b.WriteRune(unicode.ToUpper(first))
			b.WriteString(repl[size:])
			continue
		}
		b.WriteString(repl)
	}
	return b.String()
}
