package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error currency between services and handlers. Status is
// the HTTP status the boundary maps the failure onto; Code is a stable,
// machine-readable discriminator.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// NotFound: the referenced entity id does not resolve. Checked before any
// permission decision so unknown ids are never reported as Forbidden.
func NotFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Err: fmt.Errorf("%s not found", what)}
}

// Forbidden: a policy deny. The actor and target both exist.
func Forbidden(reason string) *Error {
	if reason == "" {
		reason = "forbidden"
	}
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Err: errors.New(reason)}
}

// Unauthorized: the caller never established an identity.
func Unauthorized(reason string) *Error {
	if reason == "" {
		reason = "unauthorized"
	}
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Err: errors.New(reason)}
}

// Conflict: the request collides with existing state (duplicate unique edge,
// resubmitted attempt, owned courses blocking a user delete). The caller must
// change intent and retry.
func Conflict(reason string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Err: errors.New(reason)}
}

// InvalidState: the request shape or the referenced entities make the
// operation meaningless (wrong role pairing, short password, malformed
// answers). Distinct from Forbidden.
func InvalidState(reason string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "invalid_state", Err: errors.New(reason)}
}

// Upstream: an external collaborator (mail, token issuance) failed. Local
// state changes made on behalf of the request must be compensated before this
// is surfaced.
func Upstream(op string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: "upstream_failure", Err: fmt.Errorf("%s: %w", op, err)}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Err: err}
}

// StatusOf maps any error onto an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the stable code for an error, "internal" when unknown.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "internal"
}

func IsNotFound(err error) bool  { return CodeOf(err) == "not_found" }
func IsForbidden(err error) bool { return CodeOf(err) == "forbidden" }
func IsConflict(err error) bool  { return CodeOf(err) == "conflict" }
