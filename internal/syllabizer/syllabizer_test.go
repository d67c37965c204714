package syllabizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gibberify/internal/domain"
	"github.com/heartmarshall/gibberify/internal/hyphen"
)

func newTestSyllabizer(t *testing.T) *Syllabizer {
	t.Helper()
	h, err := hyphen.ParseBytes("xx", []byte("UTF-8\ne1s\n"))
	require.NoError(t, err)
	return New(hyphen.Chain{h})
}

func TestSyllabize(t *testing.T) {
	t.Parallel()

	s := newTestSyllabizer(t)

	tests := []struct {
		word string
		want []string
	}{
		{word: "test", want: []string{"te", "st"}},
		{word: "Test", want: []string{"te", "st"}},
		{word: "don't", want: []string{"don", "t"}},
		{word: "l’testa", want: []string{"l", "te", "sta"}},
		{word: "testes", want: []string{"te", "stes"}},
		{word: "", want: []string{}},
		{word: "'", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.Syllabize(tt.word))
		})
	}
}

func TestSyllabize_NoCharactersLost(t *testing.T) {
	t.Parallel()

	s := newTestSyllabizer(t)
	for _, w := range []string{"tests", "Testes", "mississippi", "abcdefgh", "éstes", "tes"} {
		got := strings.Join(s.Syllabize(w), "")
		assert.Equal(t, strings.ToLower(w), got, w)
	}
}

func TestDistinct(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"ba", "na"}, Distinct([]string{"ba", "na", "na"}))
	assert.Equal(t, []string{"na", "ba"}, Distinct([]string{"na", "ba", "na", "ba"}))
	assert.Empty(t, Distinct(nil))
}

func TestBuildPool(t *testing.T) {
	t.Parallel()

	s := newTestSyllabizer(t)
	pool := s.BuildPool(domain.WordPool{"test", "tester", "word"})

	assert.Equal(t, []string{"st", "te"}, pool[2])
	assert.Equal(t, []string{"ster", "word"}, pool[4])
	assert.Equal(t, 4, pool.Len())
}

func TestParseRaw(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"9",
		"test/ABC",
		"Word",
		"NASA",
		"H₂O",
		"x²",
		"mother-in-law",
		"café",
		"  spaced  ",
		"test",
		"",
	}, "\n")

	words, err := ParseRaw("en_US", strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, domain.WordPool{"café", "spaced", "test", "word"}, words)
}

func TestParseRaw_Transliterates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		raw  string
		want domain.WordPool
	}{
		{
			name: "russian",
			lang: "ru",
			raw:  "3\nМосква\nкот/N\nЖКХ\n",
			want: domain.WordPool{"kot", "moskva"},
		},
		{
			name: "greek",
			lang: "el",
			raw:  "1\nΟδός\n",
			want: domain.WordPool{"odos"},
		},
		{
			name: "ukrainian apostrophe",
			lang: "uk",
			raw:  "1\nм'ясо\n",
			want: domain.WordPool{"mjaso"},
		},
		{
			name: "serbian",
			lang: "sr",
			raw:  "1\nчаша\n",
			want: domain.WordPool{"čaša"},
		},
		{
			name: "latin untouched",
			lang: "it",
			raw:  "1\nperché\n",
			want: domain.WordPool{"perché"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRaw(tt.lang, strings.NewReader(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRaw_Empty(t *testing.T) {
	t.Parallel()

	words, err := ParseRaw("en", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestAcceptWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		word string
		want bool
	}{
		{"a", true},
		{"A", true},
		{"Paris", true},
		{"iPhone", false},
		{"NASA", false},
		{"abc1", false},
		{"x²", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, acceptWord(tt.word), tt.word)
	}
}
