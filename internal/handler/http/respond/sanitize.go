package respond

import (
	"regexp"
)

var (
	// The Anthropic pattern must run before the generic sk- one.
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9]{10,}`)
	dbPasswordPattern   = regexp.MustCompile(`://([^:/]+):([^@]+)@`)
	jwtPattern          = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]*`)
	apiKeyParamPattern  = regexp.MustCompile(`(?i)(api_?key=)[^&\s"]+`)
)

// SanitizeError returns err's message with API keys, DSN passwords and JWTs
// masked. Tokens can appear in request paths, so they end up in wrapped
// client errors.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = jwtPattern.ReplaceAllString(msg, "eyJ****")
	msg = apiKeyParamPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
