package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured failure from the remote service: the HTTP status
// and, when the body carried one, the server-supplied message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unauthorized reports whether the server rejected the session credential.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// AsAPIError unwraps err into an *APIError if one is in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// TokenClearer is the slice of the session store the auth-failure policy
// needs.
type TokenClearer interface {
	Clear() error
}

// HandleAuthFailure applies the cross-cutting 401 policy: when err is an
// unauthorized APIError the session is cleared and true is returned so the
// caller can route back to login. Every consumer of protected endpoints
// must call this on failure.
func HandleAuthFailure(err error, store TokenClearer) bool {
	apiErr, ok := AsAPIError(err)
	if !ok || !apiErr.Unauthorized() {
		return false
	}
	// Best effort: a failed clear still forces re-login.
	_ = store.Clear()
	return true
}
