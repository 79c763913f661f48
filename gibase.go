//go:build !ios && !android && (amd64 || arm64)

// Package gibase is the runtime layer shared by generated GObject bindings.
// It manages foreign objects owned by a reference-counted (or manually freed)
// native library: every pointer crossing the boundary is wrapped under one of
// three ownership disciplines (reference-counted, boxed, custom-managed) so
// the Go collector can schedule its release, and is accessed through helpers
// that keep the wrapper alive across in-flight native calls.
//
// For most use cases, use the wrapper packages directly: object, boxed, and
// opaque for ownership, attrs for property access, and glib for the real
// capability table. capability/tabletest provides an in-memory table for
// tests.
package gibase

import (
	"github.com/dashea/gibase/attrs"
	"github.com/dashea/gibase/boxed"
	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/glib"
	"github.com/dashea/gibase/internal/bindings"
	"github.com/dashea/gibase/managed"
	"github.com/dashea/gibase/object"
	"github.com/dashea/gibase/opaque"
)

// Init loads the glib libraries for the default capability table. This is
// called automatically when using DefaultTable, but can be called explicitly
// to check for errors. It is safe to call multiple times.
func Init() error {
	return glib.Load()
}

// DefaultTable returns the capability table over the system glib libraries.
func DefaultTable() (Table, error) {
	return glib.Default()
}

// IsLoaded returns true if the glib libraries have been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// Re-export common types for convenience
type (
	// Ptr is a managed handle to foreign memory with a release-once action.
	Ptr = managed.Ptr

	// Object is the reference-counted ownership wrapper.
	Object = object.Object

	// Boxed is the ownership wrapper for copyable boxed values.
	Boxed = boxed.Boxed

	// Opaque is the ownership wrapper for custom-managed values.
	Opaque = opaque.Opaque

	// Table is the capability surface a foreign type system provides.
	Table = capability.Table

	// Type identifies a foreign type.
	Type = capability.Type

	// TypeMismatchError reports a failed checked cast.
	TypeMismatchError = object.TypeMismatchError

	// ConstructProp is one entry of a construction-time property list.
	ConstructProp = attrs.ConstructProp
)

// InvalidType is the zero, never-valid type identifier.
const InvalidType = capability.InvalidType

// KeepAlive forces the runtime to treat p as reachable up to this point. It
// must follow the last use of a raw address obtained outside a WithAddr/With*
// helper.
func KeepAlive(p *Ptr) {
	managed.KeepAlive(p)
}

// LiveWrappers returns the number of owning wrappers whose release action has
// not fired yet. Useful for leak checks in tests.
func LiveWrappers() int64 {
	return managed.Live()
}
