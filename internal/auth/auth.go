// Package auth provides Linear API key management.
// It implements a simple interface with multiple providers following the
// "deep modules" principle - simple interface, lookup order hidden.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvVar is the environment variable holding a Linear API key.
const EnvVar = "LINEAR_API_KEY"

// ErrNoToken is returned when no provider yields a key.
var ErrNoToken = errors.New("no Linear API key found")

// TokenProvider defines the interface for obtaining a Linear API key.
// Implementations may use different sources (environment, config file, etc).
type TokenProvider interface {
	GetToken() (string, error)
}

// EnvProvider obtains keys from the LINEAR_API_KEY environment variable.
// This is the preferred method so keys stay out of config files.
type EnvProvider struct{}

// GetToken reads the LINEAR_API_KEY environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := strings.TrimSpace(os.Getenv(EnvVar))
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", EnvVar)
	}
	return token, nil
}

// StaticProvider returns a fixed key, typically api_key from the config file.
type StaticProvider struct {
	Token string
}

// GetToken returns the configured key.
func (s *StaticProvider) GetToken() (string, error) {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return "", errors.New("api_key not set in config file")
	}
	return token, nil
}

// GetToken tries each provider in order and returns the first key found.
// When all fail it returns a clear, actionable error.
func GetToken(providers ...TokenProvider) (string, error) {
	var errs []string
	for _, p := range providers {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err.Error())
	}

	return "", fmt.Errorf(
		"%w (%s).\n"+
			"Please either:\n"+
			"  1. Set the %s environment variable to a personal API key, or\n"+
			"  2. Add api_key to your config file\n"+
			"Create a key under Linear Settings > Security & access > Personal API keys",
		ErrNoToken, strings.Join(errs, "; "), EnvVar,
	)
}
