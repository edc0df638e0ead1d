package text

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// truncationMarker matches the "[+1234 chars]" suffix NewsAPI appends to
// clipped article content.
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

var whitespace = regexp.MustCompile(`\s+`)

// StripHTML returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style bodies are dropped. Plain text passes through
// with only whitespace normalised.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CollapseWhitespace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseWhitespace(fragment)
	}
	doc.Find("script, style, noscript").Remove()
	return CollapseWhitespace(doc.Text())
}

// StripTruncationMarker removes a trailing "[+N chars]" marker.
func StripTruncationMarker(s string) string {
	return truncationMarker.ReplaceAllString(s, "")
}

// CollapseWhitespace trims s and folds every whitespace run into one space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
