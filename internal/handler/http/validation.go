package http

import (
	"errors"
	"net/http"

	"topicfeed/internal/handler/http/respond"
)

// Input limits applied before routing.
const (
	MaxAuthHeaderBytes = 8 << 10
	MaxPathBytes       = 2 << 10
)

var (
	errAuthHeaderTooLong = errors.New("authorization header too long")
	errPathTooLong       = errors.New("request path too long")
)

// InputValidation rejects oversized Authorization headers and paths.
// Body size is capped separately by LimitRequestBody.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.Header.Get("Authorization")) > MaxAuthHeaderBytes {
				respond.Error(w, http.StatusBadRequest, errAuthHeaderTooLong)
				return
			}
			if len(r.URL.Path) > MaxPathBytes {
				respond.Error(w, http.StatusRequestURITooLong, errPathTooLong)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
