package subscription

import (
	"errors"
	"fmt"
)

var ErrMissingUserID = errors.New("user id is not defined")

// NetworkError is returned when the subscription API could not be reached or
// answered with a non-2xx status.
type NetworkError struct {
	UserID     string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch subscription %s: http status %d", e.UserID, e.StatusCode)
	}
	return fmt.Sprintf("fetch subscription %s: %v", e.UserID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the API answered 404 for the user.
func (e *NetworkError) NotFound() bool {
	return e.StatusCode == 404
}
