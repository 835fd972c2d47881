package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercases ascii", input: "Red SUV", want: "red suv"},
		{name: "punctuation between words", input: "word,  word", want: "word word"},
		{name: "tabs and newlines", input: "  Tab\t\tand\nNewline  ", want: " tab and newline "},
		{name: "hyphen deleted not replaced", input: "5-day dual-clutch", want: "5day dualclutch"},
		{name: "non-ascii deleted", input: "Café ÀB 10€", want: "caf b 10"},
		{name: "unicode whitespace collapses", input: "red\u00a0\u2003suv", want: "red suv"},
		{name: "digits kept", input: "45,000 km", want: "45000 km"},
		{name: "dash surrounded by spaces leaves double space", input: "raised — seems", want: "raised  seems"},
		{name: "information separators collapse", input: "rc \x1c money\x1d\x1e\x1fback", want: "rc money back"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_IdempotentWithoutDeletedGaps(t *testing.T) {
	inputs := []string{
		"",
		"Customer wants a red SUV, 20,000 km!",
		"  multiple   spaces\t\there ",
		"ÜBER-Großartig 2019",
		"price,issue; too-expensive",
	}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestNormalize_SecondPassCollapsesDeletedGaps(t *testing.T) {
	once := Normalize("raised — seems expensive")
	assert.Equal(t, "raised  seems expensive", once)
	assert.Equal(t, "raised seems expensive", Normalize(once))
	assert.NotEqual(t, once, Normalize(once))
}

func TestNormalize_OutputAlphabet(t *testing.T) {
	out := Normalize("Mixed CASE, punctuation!? tabs\tand émojis 🚗 and 123")
	for _, r := range out {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' '
		assert.True(t, ok, "unexpected rune %q in %q", r, out)
	}
}
