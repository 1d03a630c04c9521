package gen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for generate operations.
var (
	// ErrInvalidArgument indicates a missing or empty model or prompt.
	// Surfaced before any network activity.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnexpectedFormat indicates a buffered response body that matched
	// neither accepted shape (object with string response, or bare string).
	ErrUnexpectedFormat = errors.New("unexpected response format")

	// ErrNoResponse indicates no response was received at all
	// (connection refused, DNS failure, timeout).
	ErrNoResponse = errors.New("no response received")
)

// maxErrorBody bounds how much of a failed response body is carried in
// error messages.
const maxErrorBody = 512

// StatusError reports an HTTP status outside [200,300).
// Body holds a truncated rendering of the response body, when available.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// truncateBody caps a response body rendering at maxErrorBody characters,
// with an ellipsis marker when truncated.
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	return string(body[:maxErrorBody]) + "..."
}

// Error wraps generate errors with context.
type Error struct {
	Op        string // Operation that failed ("generate", "stream")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new generate error.
func NewError(op string, err error, retryable bool) *Error {
	return &Error{Op: op, Err: err, Retryable: retryable}
}

// IsRetryable checks if an error is likely transient and worth retrying.
// The client itself never retries; this is advisory for callers.
func IsRetryable(err error) bool {
	var genErr *Error
	if errors.As(err, &genErr) {
		return genErr.Retryable
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// retryableStatus reports whether an HTTP status is worth retrying.
func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}
