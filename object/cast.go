package object

import (
	"fmt"

	"github.com/dashea/gibase/capability"
)

// TypeMismatchError reports a failed checked cast. It carries the foreign
// names of both the source's declared type and the requested target type.
// Source names the type the wrapper was constructed as, not the instance's
// concrete foreign type: the capability table has no instance-to-type query,
// so the concrete type is not recoverable here. The check itself runs against
// the instance, so it is unaffected.
type TypeMismatchError struct {
	Source string // foreign name of the wrapper's declared type
	Target string // foreign name of the requested type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("gibase: cannot cast instance of type %s to type %s", e.Source, e.Target)
}

// TryCast attempts a runtime type-checked cast of src to target. On success
// it returns a new wrapper holding its own reference; on mismatch (or a
// released source) it returns nil and false.
func TryCast(target capability.Type, src *Object) (*Object, bool) {
	out, err := Cast(target, src)
	if err != nil {
		return nil, false
	}
	return out, true
}

// Cast is the failing form of TryCast: a type mismatch is a programming
// error, surfaced as a *TypeMismatchError naming both types. Errors from the
// managed pointer (a released source) propagate unchanged.
func Cast(target capability.Type, src *Object) (*Object, error) {
	var out *Object
	err := src.WithAddr(func(addr uintptr) error {
		if !src.tbl.IsA(addr, target) {
			return &TypeMismatchError{
				Source: src.tbl.TypeName(src.typ),
				Target: src.tbl.TypeName(target),
			}
		}
		out = Acquire(src.tbl, target, addr)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CastTo casts src to target and hands the resulting wrapper to wrap, which
// builds the concrete binding type. Generated bindings use this to express
// downcasts without repeating the check.
func CastTo[T any](target capability.Type, wrap func(*Object) T, src *Object) (T, error) {
	o, err := Cast(target, src)
	if err != nil {
		var zero T
		return zero, err
	}
	return wrap(o), nil
}
