package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/myflix/internal/shared"
)

// GenericMessage is the user facing text for any failed call.
const GenericMessage = "Something bad happened; please try again later."

// Kind classifies an [APIError].
type Kind string

const (
	KindNetwork    Kind = "network"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindDecode     Kind = "decode"
)

// APIError is returned by every [Client] operation.
type APIError struct {
	Kind       Kind
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s error", e.Op, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %s", e.Body)
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Message returns the generic text shown to users.
func (e *APIError) Message() string { return GenericMessage }

// Detail returns the most specific text available: the server's payload, then a local
// validation failure, then [GenericMessage].
func (e *APIError) Detail() string {
	if e.Body != "" {
		return e.Body
	}
	if e.Kind == KindValidation && e.Err != nil {
		return e.Err.Error()
	}
	return GenericMessage
}

// KindOf returns the kind of the first [*APIError] in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsAuth(err error) bool       { return KindOf(err) == KindAuth }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNetwork(err error) bool    { return KindOf(err) == KindNetwork }

// ErrorDetail returns [APIError.Detail] for API errors and err.Error() otherwise.
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// kindForStatus maps a non-2xx status code.
func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusNotFound:
		return KindNotFound
	case code >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

func sentinelFor(kind Kind) error {
	switch kind {
	case KindAuth:
		return shared.ErrAuthFailed
	case KindNotFound:
		return shared.ErrAPIRequest
	case KindServer:
		return shared.ErrServiceUnavailable
	case KindValidation:
		return shared.ErrInvalidInput
	default:
		return shared.ErrAPIRequest
	}
}

func statusError(op string, code int, body []byte) *APIError {
	kind := kindForStatus(code)
	return &APIError{
		Kind:       kind,
		Op:         op,
		StatusCode: code,
		Body:       strings.TrimSpace(string(body)),
		Err:        sentinelFor(kind),
	}
}

// transportError classifies a failure returned by [http.Client.Do].
func transportError(op string, err error) *APIError {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return &APIError{Kind: KindAuth, Op: op, Err: shared.ErrNotAuthenticated}
	case errors.Is(err, context.Canceled):
		return &APIError{Kind: KindNetwork, Op: op, Err: fmt.Errorf("%w: %w", shared.ErrCanceled, err)}
	default:
		return &APIError{Kind: KindNetwork, Op: op, Err: err}
	}
}
