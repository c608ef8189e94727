package fetcher

import (
	"errors"
	"fmt"
)

// Kind distinguishes the failure classes the pipeline reacts to
// differently: timeouts, HTTP status errors and everything else on the
// wire.
type Kind string

const (
	KindTimeout Kind = "timeout"
	KindStatus  Kind = "http_status"
	KindNetwork Kind = "network"
)

// Error is a classified fetch failure. StatusCode is set only for
// KindStatus.
type Error struct {
	Kind       Kind
	StatusCode int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("fetch %s: timed out: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var fe *Error
	if errors.As(err, &fe) && fe.Kind == KindStatus {
		return fe.StatusCode, true
	}
	return 0, false
}

// IsTimeout reports whether err is a classified fetch timeout.
func IsTimeout(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTimeout
}
