package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/yndnr/securenotes-go/internal/telemetry/metric"
)

// ErrBadBaseURL is returned for an API address that is not http(s).
var ErrBadBaseURL = errors.New("invalid API base URL")

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the human-readable text extracted from the body, if any.
	Message string
	Body    []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Unauthorized reports whether the API rejected the credential.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	// Kind is one of metric.KindTimeout, metric.KindCanceled, metric.KindNetwork.
	Kind string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request ran past its deadline.
func (e *TransportError) Timeout() bool {
	return e.Kind == metric.KindTimeout
}

// IsUnauthorized reports whether err is a 401 StatusError.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Unauthorized()
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status of a StatusError, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// MessageOr returns the API-provided message carried by err, or fallback
// when there is none. Transport failures keep their cause after the
// fallback.
func MessageOr(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("%s (%v)", fallback, te.Err)
	}
	return fallback
}

func classifyTransport(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return metric.KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return metric.KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return metric.KindCanceled
	}
	return metric.KindNetwork
}

// errorBody covers the error shapes the API emits: {"detail": "..."},
// FastAPI validation lists {"detail": [{"msg": "..."}]}, and
// {"code": "...", "message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// extractMessage pulls detail, then message, then code out of a JSON body.
func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(eb.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if eb.Message != "" {
		return eb.Message
	}
	return eb.Code
}
