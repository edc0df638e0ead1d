package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(extra jwt.MapClaims) jwt.MapClaims {
	c := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	for k, v := range extra {
		c[k] = v
	}
	return c
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testSecret)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		want    string
		wantErr error
	}{
		{
			name: "id claim",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(jwt.MapClaims{"id": "user-1", "sub": "other"}))
			},
			want: "user-1",
		},
		{
			name: "numeric id claim",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(jwt.MapClaims{"id": 42}))
			},
			want: "42",
		},
		{
			name: "sub fallback",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(jwt.MapClaims{"sub": "user-2"}))
			},
			want: "user-2",
		},
		{
			name:    "empty",
			token:   func(*testing.T) string { return "" },
			wantErr: ErrMissingToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), validClaims(jwt.MapClaims{"id": "u"}))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong algorithm",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(jwt.MapClaims{"id": "u"}))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u", "exp": time.Now().Add(-time.Minute).Unix()})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "u"})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "no user id",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(nil))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := v.Verify(tt.token(t))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifier_NoSecret(t *testing.T) {
	t.Parallel()

	tok := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(jwt.MapClaims{"id": "u"}))
	_, err := NewVerifier("").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		target string
		want   string
	}{
		{name: "bearer header", header: "Bearer abc", target: "/news", want: "abc"},
		{name: "lowercase scheme", header: "bearer abc", target: "/news", want: "abc"},
		{name: "query parameter", target: "/news?jwtToken=xyz", want: "xyz"},
		{name: "header wins", header: "Bearer abc", target: "/news?jwtToken=xyz", want: "abc"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", target: "/news", want: ""},
		{name: "none", target: "/news", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, TokenFromRequest(r))
		})
	}
}
