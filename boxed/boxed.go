// Package boxed implements the ownership wrapper for copyable foreign values
// whose type supplies a copy/free pair rather than a reference count.
package boxed

import (
	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/managed"
)

// Boxed wraps a foreign boxed value. The wrapper owns its value outright:
// release calls the type's free function. The type identifier travels with
// the handle because the foreign free call is type-parameterized; it is
// captured by the release closure.
type Boxed struct {
	ptr *managed.Ptr
	tbl capability.Table
	typ capability.Type
}

// release builds the type-bound free action for typ.
func release(tbl capability.Table, typ capability.Type) managed.ReleaseFunc {
	return func(addr uintptr) {
		tbl.BoxedFree(typ, addr)
	}
}

// Copy wraps an independent copy of the externally owned value at addr.
// The source is left untouched and its owner remains responsible for it.
func Copy(tbl capability.Table, typ capability.Type, addr uintptr) *Boxed {
	return Take(tbl, typ, tbl.BoxedCopy(typ, addr))
}

// Take wraps a value the caller already owns, without copying. The wrapper
// takes over responsibility for freeing it.
func Take(tbl capability.Table, typ capability.Type, addr uintptr) *Boxed {
	return &Boxed{
		ptr: managed.Acquire(addr, release(tbl, typ)),
		tbl: tbl,
		typ: typ,
	}
}

// Type returns the foreign type of the boxed value.
func (b *Boxed) Type() capability.Type {
	return b.typ
}

// Addr returns the raw foreign address. See managed.Ptr.Addr for the safety
// contract; prefer WithAddr.
func (b *Boxed) Addr() uintptr {
	return b.ptr.Addr()
}

// Ptr returns the underlying managed pointer.
func (b *Boxed) Ptr() *managed.Ptr {
	return b.ptr
}

// WithAddr runs f with the raw address and keeps the wrapper alive until f
// returns.
func (b *Boxed) WithAddr(f func(addr uintptr) error) error {
	return managed.WithPtr(b.ptr, f)
}

// CopyAddr produces a new foreign copy of the value and returns its raw
// address. The caller owns the copy and must arrange for it to be freed.
func (b *Boxed) CopyAddr() (uintptr, error) {
	var out uintptr
	err := b.WithAddr(func(addr uintptr) error {
		out = b.tbl.BoxedCopy(b.typ, addr)
		return nil
	})
	return out, err
}

// Free releases the value now instead of waiting for the collector. Boxed
// values sometimes need deterministic destruction ahead of finalization; after
// Free the wrapper must not be used. Freeing twice returns managed.ErrReleased
// rather than freeing twice.
func (b *Boxed) Free() error {
	return b.ptr.FreeNow()
}

// Disown cancels the scheduled free and returns the raw address; the caller
// takes over ownership of the value.
func (b *Boxed) Disown() (uintptr, error) {
	return b.ptr.Disown()
}
