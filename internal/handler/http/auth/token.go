package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// QueryTokenParam is the query parameter accepted when no Authorization
// header is sent.
const QueryTokenParam = "jwtToken"

var (
	// ErrMissingToken means the request carried no token at all.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers bad signatures, wrong algorithms, expiry and
	// tokens without a usable user id.
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier validates HS256 tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier returns a Verifier for secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// Verify checks the token and returns the user id from the "id" claim,
// falling back to "sub".
func (v *Verifier) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	if len(v.secret) == 0 {
		return "", fmt.Errorf("%w: no secret configured", ErrInvalidToken)
	}

	claims := jwt.MapClaims{}
	tok, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if id := claimString(claims["id"]); id != "" {
		return id, nil
	}
	if sub, _ := claims.GetSubject(); sub != "" {
		return sub, nil
	}
	return "", fmt.Errorf("%w: no user id claim", ErrInvalidToken)
}

// claimString accepts string ids and the numeric ids JSON decodes as float64.
func claimString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// TokenFromRequest returns the bearer token from the Authorization header,
// or the jwtToken query parameter when the header is absent.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get(QueryTokenParam)
}
