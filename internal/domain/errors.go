package domain

import (
	"errors"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrTransport     = errors.New("transport failure")
	ErrPersistence   = errors.New("persistence failure")
	ErrConfiguration = errors.New("configuration error")
	ErrBusy          = errors.New("request already in flight")
)

// Typed errors carrying context about the failure. Each maps onto one of
// the sentinels above via Is(), so callers branch with errors.Is()
// without caring which concrete type was returned.
type (
	// NotFoundError indicates a template or document id did not resolve
	NotFoundError struct {
		Resource string // "template" or "document"
		ID       string
	}

	// ValidationError indicates invalid input to a service operation
	ValidationError struct {
		Message string
	}

	// TransportError indicates the outbound AI call failed at the
	// network or HTTP level (timeout, non-2xx, malformed envelope)
	TransportError struct {
		Message string
		Err     error
	}

	// PersistenceError indicates the document blob could not be
	// serialized, written, or restored
	PersistenceError struct {
		Message string
		Err     error
	}

	// ConfigurationError indicates the process cannot start (missing
	// credential or unusable data directory)
	ConfigurationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return e.Resource + " not found: " + e.ID
}

func (e *ValidationError) Error() string    { return e.Message }
func (e *ConfigurationError) Error() string { return e.Message }

func (e *TransportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap implementations so errors.Is/As can reach the cause
func (e *TransportError) Unwrap() error   { return e.Err }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Is implementations mapping typed errors onto sentinels
func (e *NotFoundError) Is(target error) bool      { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool    { return target == ErrValidation }
func (e *TransportError) Is(target error) bool     { return target == ErrTransport }
func (e *PersistenceError) Is(target error) bool   { return target == ErrPersistence }
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }
