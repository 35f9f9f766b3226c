package llm

import (
	"errors"
	"strings"
)

// ConfigError marks a configuration problem such as a missing API key or an
// unknown provider. Configuration errors are fatal: retrying cannot fix
// them, so the retry layer returns them immediately.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return e.Reason
}

// Error classes derived from provider errors, used to pick a user-facing
// explanation.
const (
	ClassConfig    = "config"
	ClassRateLimit = "rate_limit"
	ClassAuth      = "auth"
	ClassNetwork   = "network"
	ClassGeneric   = "generic"
)

// Classify buckets err into one of the error classes. Providers return
// largely untyped errors, so beyond *ConfigError this is best-effort string
// matching on the error text.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ClassConfig
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "429"),
		strings.Contains(msg, "too many requests"):
		return ClassRateLimit
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "invalid api key"):
		return ClassAuth
	case strings.Contains(msg, "connection"),
		strings.Contains(msg, "network"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "no such host"):
		return ClassNetwork
	default:
		return ClassGeneric
	}
}

// UserMessage turns a provider error into a short explanation suitable for
// showing in a chat surface.
func UserMessage(err error) string {
	switch Classify(err) {
	case ClassConfig:
		return "Configuration error: " + err.Error()
	case ClassRateLimit:
		return "The model provider is rate limiting requests. Wait a moment and try again."
	case ClassAuth:
		return "Authentication with the model provider failed. Check your API key."
	case ClassNetwork:
		return "Could not reach the model provider. Check your network connection."
	default:
		return "The model request failed: " + err.Error()
	}
}
