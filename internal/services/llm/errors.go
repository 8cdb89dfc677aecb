package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"promptkit/internal/services"
)

// ErrorKind buckets transport failures.
type ErrorKind string

const (
	KindConnectivity ErrorKind = "connectivity"
	KindRateLimit    ErrorKind = "rate_limit"
	KindAPI          ErrorKind = "api"
	KindOther        ErrorKind = "other"
)

// TransportError reports a failed call to the remote service. It matches
// services.ErrTransport via errors.Is.
type TransportError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (http %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrTransport}
	}
	return []error{services.ErrTransport, e.Err}
}

func newTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *TransportError
	if errors.As(err, &existing) {
		return err
	}
	te := &TransportError{Kind: KindOther, Op: op, Err: err}

	var statusErr *httpStatusError
	var emptyErr *emptyContentError
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.As(err, &statusErr):
		te.StatusCode = statusErr.StatusCode
		if statusErr.StatusCode == http.StatusTooManyRequests {
			te.Kind = KindRateLimit
		} else {
			te.Kind = KindAPI
		}
	case errors.As(err, &emptyErr), errors.Is(err, errAPIResponse):
		te.Kind = KindAPI
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		te.Kind = KindConnectivity
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		te.Kind = KindConnectivity
	}
	return te
}

var errAPIResponse = errors.New("api response error")

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("llm request: http %d: %s", e.StatusCode, snippet(e.Body))
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
	Snippet      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf(
		"%s: empty content (finish_reason=%q, refusal=%q, response_snippet=%s)",
		e.Op,
		e.FinishReason,
		e.Refusal,
		e.Snippet,
	)
}
