package ai

import (
	"errors"
	"net/http"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/httpclient"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err should not be retried.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// providerError turns a provider call failure into a network error,
// marking client errors other than rate limiting as permanent.
func providerError(provider string, err error) error {
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		summary := scribe_err.ExtractSummary(statusErr.Body, 2)
		wrapped := scribe_err.NewNetworkError(provider+" request failed: "+summary, err)
		if isPermanentStatus(statusErr.StatusCode) {
			return NewPermanentError(wrapped)
		}
		return wrapped
	}
	return scribe_err.NewNetworkError(provider+" request failed", err)
}

func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 &&
		code != http.StatusTooManyRequests &&
		code != http.StatusRequestTimeout
}
