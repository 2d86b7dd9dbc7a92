// ABOUTME: Typed error for failed journal API round trips.
// ABOUTME: Distinguishes transport failures from error statuses and bad bodies.
package api

import (
	"errors"
	"fmt"
)

// ErrMalformedKey is wrapped by a list FetchError when LastEvaluatedKey is
// present but carries no SK1 string.
var ErrMalformedKey = errors.New("LastEvaluatedKey has no SK1 entry id")

// Operation names carried by FetchError.
const (
	OpList   = "list"
	OpCreate = "create"
	OpDelete = "delete"
)

// FetchError reports a failed API call. Status is zero when the request never
// produced a response.
type FetchError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		if e.Body != "" {
			return fmt.Sprintf("%s entries: remote API returned %d: %s", e.Op, e.Status, e.Body)
		}
		return fmt.Sprintf("%s entries: remote API returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s entries: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
