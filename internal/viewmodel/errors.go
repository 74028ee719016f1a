package viewmodel

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingIdentifier indicates the view was opened without a project ID.
	ErrMissingIdentifier = errors.New("no project selected: pass --project or set project in the config file")
	// ErrFetchFailure matches every FetchError.
	ErrFetchFailure = errors.New("fetch failed")
)

// FetchError reports a failed call to the Fetcher.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrFetchFailure) hold for any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailure
}
