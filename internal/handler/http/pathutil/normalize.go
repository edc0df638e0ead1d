package pathutil

import (
	"regexp"
	"strings"
)

type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// Most specific first.
var pathPatterns = []pathPattern{
	{regexp.MustCompile(`^/news/\d+$`), "/news/:id"},
	{regexp.MustCompile(`^/timeline/\d+$`), "/timeline/:newsId"},
	{regexp.MustCompile(`^/getAllSides/\d+$`), "/getAllSides/:newsId"},
	{regexp.MustCompile(`^/getAiAnswer/[^/]+/\d+$`), "/getAiAnswer/:question/:newsId"},
	{regexp.MustCompile(`^/groups/\d+/user/[^/]+/follow$`), "/groups/:id/user/:token/follow"},
	{regexp.MustCompile(`^/groups/\d+/user/[^/]+/unfollow$`), "/groups/:id/user/:token/unfollow"},
	{regexp.MustCompile(`^/groups/\d+/news$`), "/groups/:id/news"},
	{regexp.MustCompile(`^/groups/\d+/follow$`), "/groups/:id/follow"},
	{regexp.MustCompile(`^/groups/\d+/unfollow$`), "/groups/:id/unfollow"},
	{regexp.MustCompile(`^/groups/\d+$`), "/groups/:id"},
}

// NormalizePath replaces ids, questions and tokens in known routes with
// placeholders so metric labels stay bounded. The query string and a trailing
// slash are dropped; unknown paths are returned unchanged.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
