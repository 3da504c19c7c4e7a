package poem

import (
	"strings"
	"unicode"
)

// Grade reports whether guess matches the hidden word, ignoring case and
// surrounding punctuation.
func Grade(guess, word string) bool {
	g := normalizeWord(guess)
	if g == "" {
		return false
	}
	return g == normalizeWord(word)
}

func normalizeWord(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return strings.ToLower(s)
}
