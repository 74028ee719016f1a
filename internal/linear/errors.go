package linear

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrNotAuthenticated = errors.New("not authenticated - set LINEAR_API_KEY or api_key in the config file")
	ErrNotFound         = errors.New("resource not found")
	ErrRateLimited      = errors.New("API rate limit exceeded")
)

// APIError wraps Linear API errors with the operation that failed
type APIError struct {
	Operation string
	Resource  string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Resource, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound checks if an error indicates a resource was not found
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "entity not found") ||
		strings.Contains(msg, "not_found")
}

// IsRateLimited checks if an error indicates rate limiting.
// Linear reports it as a RATELIMITED GraphQL error or an HTTP 429.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "ratelimited") ||
		strings.Contains(msg, "status code: 429")
}

// IsAuthError checks if an error indicates authentication issues
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "status code: 401") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "not authenticated")
}

// WrapError wraps an API error with operation context, mapping known
// failure modes onto the package sentinels.
func WrapError(operation, resource string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case IsRateLimited(err):
		err = fmt.Errorf("%w: %v", ErrRateLimited, err)
	case IsNotFound(err):
		err = fmt.Errorf("%w: %v", ErrNotFound, err)
	case IsAuthError(err):
		err = fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}

	return &APIError{
		Operation: operation,
		Resource:  resource,
		Err:       err,
	}
}
