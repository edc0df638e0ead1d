// Package pathutil parses route parameters and normalises request paths for
// metric labels.
package pathutil

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a path parameter is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID reads the named ServeMux wildcard and parses it as a positive int64.
func ParseID(r *http.Request, name string) (int64, error) {
	return parsePositive(r.PathValue(name))
}

// ExtractID trims prefix from path and parses the remainder as a positive int64.
func ExtractID(path, prefix string) (int64, error) {
	return parsePositive(strings.TrimPrefix(path, prefix))
}

func parsePositive(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
