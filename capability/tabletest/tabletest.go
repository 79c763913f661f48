// Package tabletest provides an in-memory capability.Table for tests and
// examples. Addresses are minted from the handles registry and the simulated
// objects live on the Go heap behind them, so ownership bugs show up as
// counter mismatches instead of memory corruption.
package tabletest

import (
	"fmt"
	"sync"

	"github.com/dashea/gibase/capability"
	"github.com/dashea/gibase/internal/handles"
)

type typeInfo struct {
	name     string
	parent   capability.Type
	floating bool
}

type object struct {
	typ      capability.Type
	refs     int
	floating bool
	props    map[string]any
}

type boxedVal struct {
	typ  capability.Type
	data []byte
}

type block struct {
	data []byte
}

// Table is a fake foreign type system. It implements capability.Table and
// capability.Constructor and exposes the bookkeeping tests assert on.
type Table struct {
	mu       sync.Mutex
	types    map[capability.Type]*typeInfo
	byName   map[string]capability.Type
	nextType capability.Type

	freedObjects int
	freedBoxed   int
	freedBlocks  int
	sunk         int
}

// New returns an empty fake table.
func New() *Table {
	return &Table{
		types:    make(map[capability.Type]*typeInfo),
		byName:   make(map[string]capability.Type),
		nextType: 1,
	}
}

// RegisterType adds a type. parent may be capability.InvalidType for a root
// type; floating marks types whose constructor returns a floating reference.
func (t *Table) RegisterType(name string, parent capability.Type, floating bool) capability.Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextType
	t.nextType++
	t.types[id] = &typeInfo{name: name, parent: parent, floating: floating}
	t.byName[name] = id
	return id
}

// MakeObject creates an instance of typ with one reference. For floating
// types the reference starts out floating, as a foreign constructor's would.
func (t *Table) MakeObject(typ capability.Type) uintptr {
	t.mu.Lock()
	floating := t.isFloatingLocked(typ)
	t.mu.Unlock()
	return handles.Register(&object{
		typ:      typ,
		refs:     1,
		floating: floating,
		props:    make(map[string]any),
	})
}

// NewObject implements capability.Constructor: it instantiates typ and
// applies the construction-time property list.
func (t *Table) NewObject(typ capability.Type, names []string, values []any) (uintptr, error) {
	if len(names) != len(values) {
		return 0, fmt.Errorf("tabletest: %d names but %d values", len(names), len(values))
	}
	addr := t.MakeObject(typ)
	obj := t.object(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, n := range names {
		obj.props[n] = values[i]
	}
	return addr, nil
}

// NewBoxed creates a boxed value of typ holding a copy of data.
func (t *Table) NewBoxed(typ capability.Type, data []byte) uintptr {
	d := make([]byte, len(data))
	copy(d, data)
	return handles.Register(&boxedVal{typ: typ, data: d})
}

func (t *Table) object(addr uintptr) *object {
	obj, ok := handles.Lookup(addr).(*object)
	if !ok {
		panic(fmt.Sprintf("tabletest: %#x is not a live object", addr))
	}
	return obj
}

func (t *Table) boxed(addr uintptr) *boxedVal {
	bv, ok := handles.Lookup(addr).(*boxedVal)
	if !ok {
		panic(fmt.Sprintf("tabletest: %#x is not a live boxed value", addr))
	}
	return bv
}

// bytesAt returns the backing bytes of a boxed value or raw block.
func (t *Table) bytesAt(addr uintptr) []byte {
	switch v := handles.Lookup(addr).(type) {
	case *boxedVal:
		return v.data
	case *block:
		return v.data
	default:
		panic(fmt.Sprintf("tabletest: %#x has no byte contents", addr))
	}
}

// Bytes returns the live backing bytes at addr. Mutations through the
// returned slice simulate foreign-side mutation of the value.
func (t *Table) Bytes(addr uintptr) []byte {
	return t.bytesAt(addr)
}

// RefCount returns the current reference count of the object at addr.
func (t *Table) RefCount(addr uintptr) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.object(addr).refs
}

// IsFloating reports whether the object at addr still holds a floating
// reference.
func (t *Table) IsFloating(addr uintptr) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.object(addr).floating
}

// Prop returns the named property of the object at addr.
func (t *Table) Prop(addr uintptr, name string) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.object(addr).props[name]
}

// SetProp sets the named property of the object at addr.
func (t *Table) SetProp(addr uintptr, name string, v any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.object(addr).props[name] = v
}

// FreedObjects returns how many objects dropped to zero references.
func (t *Table) FreedObjects() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freedObjects
}

// FreedBoxed returns how many boxed values were freed.
func (t *Table) FreedBoxed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freedBoxed
}

// FreedBlocks returns how many raw allocations were freed.
func (t *Table) FreedBlocks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.freedBlocks
}

// Sunk returns how many floating references were sunk.
func (t *Table) Sunk() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sunk
}

// IsLive reports whether addr still maps to a live value of any kind.
func (t *Table) IsLive(addr uintptr) bool {
	return handles.Lookup(addr) != nil
}

func (t *Table) isFloatingLocked(typ capability.Type) bool {
	for typ != capability.InvalidType {
		ti, ok := t.types[typ]
		if !ok {
			return false
		}
		if ti.floating {
			return true
		}
		typ = ti.parent
	}
	return false
}

func (t *Table) isALocked(got, want capability.Type) bool {
	for got != capability.InvalidType {
		if got == want {
			return true
		}
		ti, ok := t.types[got]
		if !ok {
			return false
		}
		got = ti.parent
	}
	return false
}

// IsA implements capability.Table.
func (t *Table) IsA(addr uintptr, typ capability.Type) bool {
	var got capability.Type
	switch v := handles.Lookup(addr).(type) {
	case *object:
		got = v.typ
	case *boxedVal:
		got = v.typ
	default:
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isALocked(got, typ)
}

// TypeName implements capability.Table.
func (t *Table) TypeName(typ capability.Type) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ti, ok := t.types[typ]; ok {
		return ti.name
	}
	return fmt.Sprintf("<unknown type %d>", typ)
}

// TypeFromName implements capability.Table.
func (t *Table) TypeFromName(name string) capability.Type {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byName[name]
}

// Ref implements capability.Table.
func (t *Table) Ref(addr uintptr) uintptr {
	obj := t.object(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	obj.refs++
	return addr
}

// RefSink implements capability.Table. A floating reference is claimed in
// place; an already-owned reference is counted like Ref.
func (t *Table) RefSink(addr uintptr) uintptr {
	obj := t.object(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	if obj.floating {
		obj.floating = false
		t.sunk++
		return addr
	}
	obj.refs++
	return addr
}

// Unref implements capability.Table. The object is destroyed when the count
// reaches zero; an extra Unref on a dead address panics, as the real library
// would crash.
func (t *Table) Unref(addr uintptr) {
	obj := t.object(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	obj.refs--
	if obj.refs < 0 {
		panic(fmt.Sprintf("tabletest: reference count of %#x went negative", addr))
	}
	if obj.refs == 0 {
		handles.Unregister(addr)
		t.freedObjects++
	}
}

// IsFloatingType implements capability.Table.
func (t *Table) IsFloatingType(typ capability.Type) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isFloatingLocked(typ)
}

// BoxedCopy implements capability.Table.
func (t *Table) BoxedCopy(typ capability.Type, addr uintptr) uintptr {
	bv := t.boxed(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	d := make([]byte, len(bv.data))
	copy(d, bv.data)
	return handles.Register(&boxedVal{typ: typ, data: d})
}

// BoxedFree implements capability.Table.
func (t *Table) BoxedFree(typ capability.Type, addr uintptr) {
	_ = t.boxed(addr)
	t.mu.Lock()
	defer t.mu.Unlock()
	handles.Unregister(addr)
	t.freedBoxed++
}

// Alloc implements capability.Table.
func (t *Table) Alloc(size uintptr) uintptr {
	return handles.Register(&block{data: make([]byte, size)})
}

// Free implements capability.Table.
func (t *Table) Free(addr uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	handles.Unregister(addr)
	t.freedBlocks++
}

// Memdup implements capability.Table.
func (t *Table) Memdup(addr uintptr, size uintptr) uintptr {
	src := t.bytesAt(addr)
	d := make([]byte, size)
	copy(d, src)
	return handles.Register(&block{data: d})
}

var (
	_ capability.Table       = (*Table)(nil)
	_ capability.Constructor = (*Table)(nil)
)
