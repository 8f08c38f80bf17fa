package client

import (
	"errors"
	"fmt"
)

// Error categories for adapter failures. Callers branch on category with
// errors.As / the helper predicates below; the adapter never retries.
type (
	// AuthError means the caller must trigger re-authentication.
	AuthError struct {
		Status  int
		Message string
	}

	// NetworkError is a transport failure or unexpected server status.
	// The caller may retry the same operation.
	NetworkError struct {
		Op      string
		Status  int
		Wrapped error
	}

	// ValidationError is malformed client input; retrying is pointless.
	ValidationError struct {
		Status  int
		Message string
	}

	// NotFoundError is returned for missing resources. Delete and
	// mark-read treat it as a tolerable outcome.
	NotFoundError struct {
		Resource string
	}

	// PlatformCapabilityError means push registration is unavailable in
	// the current runtime. Advisory, not fatal.
	PlatformCapabilityError struct {
		Reason string
	}
)

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication required (status %d): %s", e.Status, e.Message)
}

func (e *NetworkError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Wrapped)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

func (e *NetworkError) Unwrap() error { return e.Wrapped }

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request (status %d): %s", e.Status, e.Message)
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *PlatformCapabilityError) Error() string {
	return fmt.Sprintf("push capability unavailable: %s", e.Reason)
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsAuth reports whether err is an AuthError anywhere in its chain.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNetwork reports whether err is a NetworkError anywhere in its chain.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
