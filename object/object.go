// Package object implements the reference-counted ownership wrapper for
// foreign objects. An Object owns exactly one reference on the foreign side
// and schedules the matching unref through its managed pointer.
package object

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/internal/trace"
	"github.com/dashea/gibase/managed"
)

// ErrNilConstructor is returned by NewWithProperties when no constructor hook
// is supplied.
var ErrNilConstructor = errors.New("gibase: nil object constructor")

// Object wraps a reference-counted foreign instance. The declared type is the
// type the wrapper was constructed as; the concrete foreign type may derive
// from it.
type Object struct {
	ptr *managed.Ptr
	tbl capability.Table
	typ capability.Type
}

// Adopt takes ownership of an existing reference at addr without touching the
// reference count. The caller must actually hold that reference; for
// constructor return values that may be floating, use Claim instead.
func Adopt(tbl capability.Table, typ capability.Type, addr uintptr) *Object {
	return &Object{
		ptr: managed.Acquire(addr, tbl.Unref),
		tbl: tbl,
		typ: typ,
	}
}

// Claim normalizes ownership of a freshly constructed instance and adopts it.
// For types constructed with a floating reference the reference is sunk
// first; for all other types the constructor's reference is adopted as-is.
// The choice is driven solely by the capability table's per-type flag.
func Claim(tbl capability.Table, typ capability.Type, addr uintptr) *Object {
	if tbl.IsFloatingType(typ) {
		addr = tbl.RefSink(addr)
		if trace.Enabled() {
			trace.L().Debug("ref_sink", zap.Uintptr("addr", addr), zap.String("type", tbl.TypeName(typ)))
		}
	}
	return Adopt(tbl, typ, addr)
}

// Acquire establishes a new, independent claim on the instance at addr by
// incrementing its reference count, then adopts that claim.
func Acquire(tbl capability.Table, typ capability.Type, addr uintptr) *Object {
	return Adopt(tbl, typ, tbl.Ref(addr))
}

// NewWithProperties instantiates a foreign object of type typ through ctor,
// routing the construction-time property list to it, and claims the result.
func NewWithProperties(ctor capability.Constructor, tbl capability.Table, typ capability.Type, names []string, values []any) (*Object, error) {
	if ctor == nil {
		return nil, ErrNilConstructor
	}
	addr, err := ctor.NewObject(typ, names, values)
	if err != nil {
		return nil, err
	}
	return Claim(tbl, typ, addr), nil
}

// Type returns the declared foreign type of the wrapper.
func (o *Object) Type() capability.Type {
	return o.typ
}

// Table returns the capability table the wrapper operates through.
func (o *Object) Table() capability.Table {
	return o.tbl
}

// Addr returns the raw foreign address. See managed.Ptr.Addr for the safety
// contract; prefer WithAddr.
func (o *Object) Addr() uintptr {
	return o.ptr.Addr()
}

// Ptr returns the underlying managed pointer, for code that batches several
// wrappers through managed.WithPtrs.
func (o *Object) Ptr() *managed.Ptr {
	return o.ptr
}

// WithAddr runs f with the raw address and keeps the wrapper alive until f
// returns.
func (o *Object) WithAddr(f func(addr uintptr) error) error {
	return managed.WithPtr(o.ptr, f)
}

// Ref increments the foreign reference count and returns the raw address,
// handing the new reference to another ownership context. The wrapper's own
// reference is unaffected.
func (o *Object) Ref() (uintptr, error) {
	var out uintptr
	err := o.WithAddr(func(addr uintptr) error {
		out = o.tbl.Ref(addr)
		return nil
	})
	return out, err
}

// IsA reports whether the wrapped instance is of type t or derives from it.
func (o *Object) IsA(t capability.Type) (bool, error) {
	var ok bool
	err := o.WithAddr(func(addr uintptr) error {
		ok = o.tbl.IsA(addr, t)
		return nil
	})
	return ok, err
}

// Release drops the wrapper's reference immediately instead of waiting for
// the collector. The wrapper must not be used afterwards.
func (o *Object) Release() error {
	return o.ptr.FreeNow()
}

// Disown cancels the scheduled unref and returns the raw address; the caller
// takes over the wrapper's reference.
func (o *Object) Disown() (uintptr, error) {
	return o.ptr.Disown()
}
