//go:build !ios && !android && (amd64 || arm64)

// Package glib implements the gibase capability table on top of the real
// glib/gobject libraries, loaded at runtime with purego. It is the backend
// generated GObject bindings run against; tests and other consumers that do
// not have glib installed can use capability/tabletest instead.
package glib

import (
	"github.com/ebitengine/purego"

	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/internal/bindings"
)

// Function bindings - registered when Load succeeds.
var (
	gObjectRef            func(addr uintptr) uintptr
	gObjectRefSink        func(addr uintptr) uintptr
	gObjectUnref          func(addr uintptr)
	gTypeCheckInstanceIsA func(addr uintptr, t uintptr) int32
	gTypeIsA              func(t uintptr, isAType uintptr) int32
	gTypeName             func(t uintptr) string
	gTypeFromName         func(name string) uintptr
	gBoxedCopy            func(t uintptr, addr uintptr) uintptr
	gBoxedFree            func(t uintptr, addr uintptr)
	gMalloc0              func(size uintptr) uintptr
	gFree                 func(addr uintptr)
	gMemdup2              func(addr uintptr, size uintptr) uintptr

	gInitiallyUnownedGetType func() uintptr

	initiallyUnowned uintptr

	registered bool
)

// Load loads the glib libraries and registers the function bindings.
// Safe to call multiple times.
func Load() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	registerBindings()
	return nil
}

func registerBindings() {
	if registered {
		return
	}

	gobject := bindings.LibGObject()
	glib := bindings.LibGLib()
	if gobject == 0 || glib == 0 {
		return
	}

	purego.RegisterLibFunc(&gObjectRef, gobject, "g_object_ref")
	purego.RegisterLibFunc(&gObjectRefSink, gobject, "g_object_ref_sink")
	purego.RegisterLibFunc(&gObjectUnref, gobject, "g_object_unref")
	purego.RegisterLibFunc(&gTypeCheckInstanceIsA, gobject, "g_type_check_instance_is_a")
	purego.RegisterLibFunc(&gTypeIsA, gobject, "g_type_is_a")
	purego.RegisterLibFunc(&gTypeName, gobject, "g_type_name")
	purego.RegisterLibFunc(&gTypeFromName, gobject, "g_type_from_name")
	purego.RegisterLibFunc(&gBoxedCopy, gobject, "g_boxed_copy")
	purego.RegisterLibFunc(&gBoxedFree, gobject, "g_boxed_free")

	purego.RegisterLibFunc(&gMalloc0, glib, "g_malloc0")
	purego.RegisterLibFunc(&gFree, glib, "g_free")
	purego.RegisterLibFunc(&gMemdup2, glib, "g_memdup2")

	purego.RegisterLibFunc(&gInitiallyUnownedGetType, gobject, "g_initially_unowned_get_type")

	// Floating-by-default detection is an ancestry check against
	// GInitiallyUnowned. The type registers lazily, so a name lookup here
	// would return 0; calling its get_type both registers it and yields the
	// type id.
	initiallyUnowned = gInitiallyUnownedGetType()

	registered = true
}

// Table implements capability.Table against the loaded glib libraries.
// The zero value is not usable; construct with Default.
type Table struct{}

// Default loads glib and returns the capability table over it.
func Default() (*Table, error) {
	if err := Load(); err != nil {
		return nil, err
	}
	if !registered {
		return nil, bindings.ErrNotLoaded
	}
	return &Table{}, nil
}

// IsA implements capability.Table.
func (*Table) IsA(addr uintptr, t capability.Type) bool {
	return gTypeCheckInstanceIsA(addr, uintptr(t)) != 0
}

// TypeName implements capability.Table.
func (*Table) TypeName(t capability.Type) string {
	return gTypeName(uintptr(t))
}

// TypeFromName implements capability.Table.
func (*Table) TypeFromName(name string) capability.Type {
	return capability.Type(gTypeFromName(name))
}

// Ref implements capability.Table.
func (*Table) Ref(addr uintptr) uintptr {
	return gObjectRef(addr)
}

// RefSink implements capability.Table.
func (*Table) RefSink(addr uintptr) uintptr {
	return gObjectRefSink(addr)
}

// Unref implements capability.Table.
func (*Table) Unref(addr uintptr) {
	gObjectUnref(addr)
}

// IsFloatingType implements capability.Table. A type constructs floating
// references when it derives from GInitiallyUnowned.
func (*Table) IsFloatingType(t capability.Type) bool {
	if initiallyUnowned == 0 {
		return false
	}
	return gTypeIsA(uintptr(t), initiallyUnowned) != 0
}

// BoxedCopy implements capability.Table.
func (*Table) BoxedCopy(t capability.Type, addr uintptr) uintptr {
	return gBoxedCopy(uintptr(t), addr)
}

// BoxedFree implements capability.Table.
func (*Table) BoxedFree(t capability.Type, addr uintptr) {
	gBoxedFree(uintptr(t), addr)
}

// Alloc implements capability.Table. Memory is zero-initialized.
func (*Table) Alloc(size uintptr) uintptr {
	return gMalloc0(size)
}

// Free implements capability.Table.
func (*Table) Free(addr uintptr) {
	gFree(addr)
}

// Memdup implements capability.Table.
func (*Table) Memdup(addr uintptr, size uintptr) uintptr {
	return gMemdup2(addr, size)
}

var _ capability.Table = (*Table)(nil)
