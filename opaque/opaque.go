// Package opaque implements the ownership wrapper for foreign values managed
// by type-specific routines: a custom copy function, a custom free function,
// or no free function at all for statically allocated values.
package opaque

import (
	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/managed"
)

// Opaque wraps a foreign value whose lifetime is managed by custom routines.
type Opaque struct {
	ptr *managed.Ptr
}

// Wrap adopts the value at addr. A nil free means the value is never freed
// (statically allocated, or owned elsewhere for the life of the process).
func Wrap(addr uintptr, free managed.ReleaseFunc) *Opaque {
	if free == nil {
		return &Opaque{ptr: managed.Borrow(addr)}
	}
	return &Opaque{ptr: managed.Acquire(addr, free)}
}

// New copies the value at addr with the type-supplied copy routine, then
// adopts the copy with the matching free routine.
func New(copyFn func(addr uintptr) uintptr, free managed.ReleaseFunc, addr uintptr) *Opaque {
	return Wrap(copyFn(addr), free)
}

// Copy duplicates size bytes of the value at addr into freshly allocated
// foreign memory and wraps the copy; the copy is freed through the table's
// allocator.
func Copy(tbl capability.Table, addr uintptr, size uintptr) *Opaque {
	return Wrap(tbl.Memdup(addr, size), tbl.Free)
}

// CopyAddr duplicates size bytes of the value at addr and returns the raw
// address of the copy. The caller owns the result.
func CopyAddr(tbl capability.Table, size uintptr, addr uintptr) uintptr {
	return tbl.Memdup(addr, size)
}

// Addr returns the raw foreign address. See managed.Ptr.Addr for the safety
// contract; prefer WithAddr.
func (o *Opaque) Addr() uintptr {
	return o.ptr.Addr()
}

// Ptr returns the underlying managed pointer.
func (o *Opaque) Ptr() *managed.Ptr {
	return o.ptr
}

// WithAddr runs f with the raw address and keeps the wrapper alive until f
// returns.
func (o *Opaque) WithAddr(f func(addr uintptr) error) error {
	return managed.WithPtr(o.ptr, f)
}

// Free releases the value now. Wrappers constructed with a nil free function
// have nothing to release and Free fails.
func (o *Opaque) Free() error {
	return o.ptr.FreeNow()
}

// Disown cancels the scheduled free and returns the raw address. Wrappers
// constructed with a nil free function own nothing to hand over and Disown
// fails.
func (o *Opaque) Disown() (uintptr, error) {
	return o.ptr.Disown()
}
