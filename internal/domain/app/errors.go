package app

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateID is returned when an application ID is already registered
	ErrDuplicateID = errors.New("application ID already registered")

	// ErrNotFound is returned when no application has the given ID
	ErrNotFound = errors.New("application not found")

	// ErrInvalidID is returned for IDs that cannot be registered
	ErrInvalidID = errors.New("invalid application ID")
)

// ResourceLoadError reports that an application failed to load its resources.
// The host must not activate the application for the rest of the session.
type ResourceLoadError struct {
	AppID string
	Err   error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("application %s: resource load failed: %v", e.AppID, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// ApplicationError reports a failure raised by application code while the
// host was calling into it (render or input).
type ApplicationError struct {
	AppID string
	Stage string // "render", "mouse", "key"
	Err   error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("application %s failed during %s: %v", e.AppID, e.Stage, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}
