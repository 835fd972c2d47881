package transcript

import (
	"strings"
	"unicode"
)

// Normalize returns the canonical matching form of text.
//
// The steps run in a fixed order: ASCII letters are lowercased, every run of
// whitespace becomes a single space, and finally every character that is not
// a lowercase ASCII letter, digit or space is deleted. The order is part of
// the contract: normalized output is compared byte for byte.
//
// Normalize is not idempotent. A deleted character between two whitespace
// runs leaves two adjacent spaces, which a second pass collapses.
func Normalize(text string) string {
	return stripNonAlphanumeric(collapseWhitespace(lowerASCII(text)))
}

// lowerASCII folds A-Z only; everything else passes through untouched.
func lowerASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace extends unicode.IsSpace with the ASCII information separators
// U+001C..U+001F, which transcripts exported from legacy systems use as
// field and record breaks.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func stripNonAlphanumeric(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return b.String()
}
