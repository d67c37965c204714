package domain

import "testing"

func TestNormalizeWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  hello  ", want: "hello"},
		{name: "case preserved", input: "Hello", want: "Hello"},
		{name: "composed stays composed", input: "café", want: "café"},
		{name: "decomposed is composed", input: "café", want: "café"},
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
		{name: "tabs and spaces", input: "\t hello \t", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeWord(tt.input); got != tt.want {
				t.Errorf("NormalizeWord(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no runs", input: "hello world", want: "hello world"},
		{name: "double space", input: "hello  world", want: "hello world"},
		{name: "many spaces", input: "a    b     c", want: "a b c"},
		{name: "leading run", input: "   a", want: " a"},
		{name: "tabs kept", input: "a\t\tb", want: "a\t\tb"},
		{name: "newline breaks run", input: "a \n b", want: "a \n b"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CollapseSpaces(tt.input); got != tt.want {
				t.Errorf("CollapseSpaces(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
