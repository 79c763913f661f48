// Package capability defines the interface a foreign type system must provide
// for gibase to manage its objects. The runtime never dereferences a foreign
// address itself; every type-specific operation (identity checks, reference
// counting, boxed copy/free, raw allocation) goes through a Table supplied by
// the binding layer.
package capability

// Type identifies a foreign type. The zero value is never a valid type.
type Type uint64

// InvalidType is the zero, never-valid type identifier.
const InvalidType Type = 0

// Table is the capability surface of a foreign type system.
//
// Addresses passed to and returned from Table methods are opaque; gibase only
// stores and forwards them. Implementations are expected to be safe for
// concurrent use, matching the thread-safety the underlying library provides
// for its own reference counting.
type Table interface {
	// IsA reports whether the instance at addr is of type t or derives from it.
	IsA(addr uintptr, t Type) bool

	// TypeName returns the foreign name of t, for diagnostics.
	TypeName(t Type) string

	// TypeFromName resolves a foreign type name to its identifier.
	// Returns InvalidType if the name is unknown.
	TypeFromName(name string) Type

	// Ref increments the reference count of the instance at addr and returns
	// the address to use for the new reference.
	Ref(addr uintptr) uintptr

	// RefSink claims a possibly floating reference. For an instance holding a
	// floating reference the floating flag is cleared and the count is left at
	// one owned reference; otherwise it behaves like Ref.
	RefSink(addr uintptr) uintptr

	// Unref decrements the reference count of the instance at addr.
	Unref(addr uintptr)

	// IsFloatingType reports whether instances of t are constructed with a
	// floating reference. The choice between plain adoption and sink-then-adopt
	// is always driven by this flag, never by the call site.
	IsFloatingType(t Type) bool

	// BoxedCopy returns a freshly allocated copy of the boxed value at addr.
	BoxedCopy(t Type, addr uintptr) uintptr

	// BoxedFree releases the boxed value at addr.
	BoxedFree(t Type, addr uintptr)

	// Alloc allocates size bytes of foreign memory.
	Alloc(size uintptr) uintptr

	// Free releases foreign memory obtained from Alloc or Memdup.
	Free(addr uintptr)

	// Memdup allocates size bytes and fills them with a byte-for-byte copy of
	// the memory at addr.
	Memdup(addr uintptr, size uintptr) uintptr
}

// Constructor instantiates foreign objects from a construction-time property
// list. It is consumed by object.NewWithProperties; property values are routed
// through each property's construct builder before they arrive here, so names
// and values line up pairwise.
type Constructor interface {
	NewObject(t Type, names []string, values []any) (uintptr, error)
}
