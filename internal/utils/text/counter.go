// Package text holds the small string helpers shared by the classifier
// prompt builders and the ingestion normalizer.
package text

import "unicode/utf8"

// CountRunes counts Unicode characters, not bytes.
//
//	CountRunes("hello")   // 5
//	CountRunes("こんにちは") // 5
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// Truncate cuts s to at most maxRunes characters without splitting a rune.
// It reports whether anything was cut.
func Truncate(s string, maxRunes int) (string, bool) {
	if maxRunes <= 0 {
		return "", s != ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s, false
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i], true
		}
		n++
	}
	return s, false
}
