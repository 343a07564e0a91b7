package request

import (
	"errors"
	"fmt"
	"net/http"
)

// RemoteError is any non-success outcome of a backend call. Message
// prefers the backend's JSON error envelope, then raw body text, then a
// generic fallback.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func IsForbidden(err error) bool {
	s := statusOf(err)

	return s == http.StatusForbidden || s == http.StatusUnauthorized
}

func statusOf(err error) int {
	var re *RemoteError

	if errors.As(err, &re) {
		return re.Status
	}

	return 0
}
