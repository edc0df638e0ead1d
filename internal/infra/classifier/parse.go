package classifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"topicfeed/internal/usecase/ingest"
)

// ErrMalformedReply is returned when no JSON array can be found in a reply.
var ErrMalformedReply = errors.New("classifier reply is not a JSON array")

// ParseSuggestions extracts the suggestion array from a model reply. Code
// fences and surrounding prose are tolerated; items that are not objects with
// a string name are dropped and the result is sanitised to at most max entries.
func ParseSuggestions(reply string, max int) ([]ingest.Suggestion, error) {
	items, err := findArray(stripCodeFence(reply))
	if err != nil {
		return nil, err
	}

	suggestions := lo.FilterMap(items, func(raw json.RawMessage, _ int) (ingest.Suggestion, bool) {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil {
			return ingest.Suggestion{}, false
		}
		name, ok := item["name"].(string)
		if !ok {
			return ingest.Suggestion{}, false
		}
		desc, _ := item["description"].(string)
		return ingest.Suggestion{Name: name, Description: desc}, true
	})
	return ingest.SanitizeSuggestions(suggestions, max), nil
}

// findArray returns the elements of the first JSON array in body that holds
// an object, or of the first decodable array when none does. Brackets in
// prose ("see [1]") are skipped.
func findArray(body string) ([]json.RawMessage, error) {
	var (
		first   []json.RawMessage
		found   bool
		lastErr error
	)
	for i := 0; i < len(body); i++ {
		if body[i] != '[' {
			continue
		}
		var items []json.RawMessage
		if err := json.NewDecoder(strings.NewReader(body[i:])).Decode(&items); err != nil {
			lastErr = err
			continue
		}
		if lo.SomeBy(items, isObject) {
			return items, nil
		}
		if !found {
			first, found = items, true
		}
	}
	if found {
		return first, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, lastErr)
	}
	return nil, ErrMalformedReply
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // drop the language tag line
	}
	return strings.TrimSuffix(strings.TrimSpace(s), "```")
}
