package scraper

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
)

// ErrNoContributions is returned by Extract when no strategy found any day.
// Callers treat it as an empty graph, not as a failed fetch.
var ErrNoContributions = errors.New("no contribution days found")

// ErrBodyTooLarge is wrapped in a *TransportError when a page exceeds the read limit.
var ErrBodyTooLarge = errors.New("response body too large")

// TransportError wraps a failure to reach the upstream host.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Reason returns the sentinel reported as LastDay.
func (e *TransportError) Reason() string {
	return contrib.ConnectionError
}

// StatusError is returned when upstream answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Reason returns the sentinel reported as LastDay.
func (e *StatusError) Reason() string {
	return contrib.StatusReason(e.StatusCode)
}

// Reason maps a fetch error to the sentinel reported as LastDay.
func Reason(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Reason()
	}
	return contrib.ConnectionError
}
