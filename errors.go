//go:build !ios && !android && (amd64 || arm64)

package gibase

import (
	"errors"

	"github.com/dashea/gibase/attrs"
	"github.com/dashea/gibase/internal/bindings"
	"github.com/dashea/gibase/managed"
)

// Common errors
var (
	// ErrReleased indicates the wrapper's release action has already fired.
	ErrReleased = managed.ErrReleased

	// ErrNotLoaded indicates the glib libraries are not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates a required glib library cannot be found.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrNotRegistered indicates an attribute lookup for an unknown
	// (name, owner type) pair.
	ErrNotRegistered = attrs.ErrNotRegistered
)

// IsTypeMismatch returns true if the error is a failed checked cast.
func IsTypeMismatch(err error) bool {
	var mismatch *TypeMismatchError
	return errors.As(err, &mismatch)
}

// IsCapabilityViolation returns true if the error reports an operation
// outside a property's permitted-operation set.
func IsCapabilityViolation(err error) bool {
	var capErr *attrs.CapabilityError
	return errors.As(err, &capErr)
}
