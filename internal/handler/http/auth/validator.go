package auth

import (
	"errors"
	"fmt"
	"strings"
)

// MinSecretLength is the shortest JWT_SECRET accepted at startup.
const MinSecretLength = 32

var weakSecrets = []string{
	"secret",
	"changeme",
	"password",
	"jwtsecret",
	"your-secret",
	"topicfeed",
}

// ValidateSecret rejects empty, short and well-known JWT secrets.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters (got %d)", MinSecretLength, len(secret))
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.ReplaceAll(lower, weak, "") == "" {
			return errors.New("JWT_SECRET must not be a well-known placeholder")
		}
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return errors.New("JWT_SECRET must not be a single repeated character")
	}
	return nil
}
