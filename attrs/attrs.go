// Package attrs implements the attribute protocol: typed descriptors for
// named properties of foreign objects, batch application of get/set/update
// operations, and a registry for name-resolved bindings.
//
// Capability checking happens before anything runs. On the typed path it is
// the compiler that enforces it: a descriptor type only satisfies the Setter
// or Getter constraint if it actually carries that accessor, so building an
// illegal operation does not compile. On the name-resolved path the Registry
// enforces the same rules when bindings register, never at call time.
package attrs

// Getter is satisfied by descriptors whose property can be read.
type Getter[O, V any] interface {
	Name() string
	Get(owner O) (V, error)
}

// Setter is satisfied by descriptors whose property can be written
// imperatively after construction.
type Setter[O, V any] interface {
	Name() string
	Set(owner O, v V) error
}

// GetSetter is satisfied by descriptors whose property can be both read and
// written; update operations require it.
type GetSetter[O, V any] interface {
	Getter[O, V]
	Setter[O, V]
}

// Constructible is satisfied by descriptors whose property may appear in a
// construction-time property list.
type Constructible[V any] interface {
	Name() string
	ConstructValue(v V) (any, error)
}

// ReadableAttr describes a get-only property.
type ReadableAttr[O, V any] struct {
	name string
	get  func(O) (V, error)
}

// NewReadable builds a get-only descriptor.
func NewReadable[O, V any](name string, get func(O) (V, error)) ReadableAttr[O, V] {
	return ReadableAttr[O, V]{name: name, get: get}
}

func (a ReadableAttr[O, V]) Name() string { return a.name }

func (a ReadableAttr[O, V]) Get(owner O) (V, error) { return a.get(owner) }

// WritableAttr describes a set-only property. Writable properties are also
// legal in construction-time property lists.
type WritableAttr[O, V any] struct {
	name      string
	set       func(O, V) error
	construct func(V) (any, error)
}

// NewWritable builds a set-only descriptor. A nil construct uses the value
// itself as the construction-time value.
func NewWritable[O, V any](name string, set func(O, V) error, construct func(V) (any, error)) WritableAttr[O, V] {
	return WritableAttr[O, V]{name: name, set: set, construct: construct}
}

func (a WritableAttr[O, V]) Name() string { return a.name }

func (a WritableAttr[O, V]) Set(owner O, v V) error { return a.set(owner, v) }

func (a WritableAttr[O, V]) ConstructValue(v V) (any, error) {
	return constructValue(a.construct, v)
}

// ReadWriteAttr describes a property that supports get, set, and
// construction.
type ReadWriteAttr[O, V any] struct {
	name      string
	get       func(O) (V, error)
	set       func(O, V) error
	construct func(V) (any, error)
}

// NewReadWrite builds a read-write descriptor. A nil construct uses the value
// itself as the construction-time value.
func NewReadWrite[O, V any](name string, get func(O) (V, error), set func(O, V) error, construct func(V) (any, error)) ReadWriteAttr[O, V] {
	return ReadWriteAttr[O, V]{name: name, get: get, set: set, construct: construct}
}

func (a ReadWriteAttr[O, V]) Name() string { return a.name }

func (a ReadWriteAttr[O, V]) Get(owner O) (V, error) { return a.get(owner) }

func (a ReadWriteAttr[O, V]) Set(owner O, v V) error { return a.set(owner, v) }

func (a ReadWriteAttr[O, V]) ConstructValue(v V) (any, error) {
	return constructValue(a.construct, v)
}

// ConstructOnlyAttr describes a property that is legal only at construction
// time. It satisfies neither Getter nor Setter, so no imperative operation
// can be built against it.
type ConstructOnlyAttr[O, V any] struct {
	name      string
	construct func(V) (any, error)
}

// NewConstructOnly builds a construct-only descriptor. A nil construct uses
// the value itself as the construction-time value.
func NewConstructOnly[O, V any](name string, construct func(V) (any, error)) ConstructOnlyAttr[O, V] {
	return ConstructOnlyAttr[O, V]{name: name, construct: construct}
}

func (a ConstructOnlyAttr[O, V]) Name() string { return a.name }

func (a ConstructOnlyAttr[O, V]) ConstructValue(v V) (any, error) {
	return constructValue(a.construct, v)
}

func constructValue[V any](construct func(V) (any, error), v V) (any, error) {
	if construct == nil {
		return v, nil
	}
	return construct(v)
}

// Get reads the property described by a from owner. A failure of the
// underlying foreign get call propagates unchanged.
func Get[O, V any](owner O, a Getter[O, V]) (V, error) {
	return a.Get(owner)
}

// ConstructProp is one (property name, construction value) pair of a
// construction-time property list.
type ConstructProp struct {
	Name  string
	Value any
}

// Construct builds the construction-time pair for a, routing v through the
// descriptor's construct builder.
func Construct[V any](a Constructible[V], v V) (ConstructProp, error) {
	val, err := a.ConstructValue(v)
	if err != nil {
		return ConstructProp{}, err
	}
	return ConstructProp{Name: a.Name(), Value: val}, nil
}

// Names splits props into parallel name and value slices, in order, for
// handing to a capability.Constructor.
func Names(props []ConstructProp) (names []string, values []any) {
	names = make([]string, len(props))
	values = make([]any, len(props))
	for i, p := range props {
		names[i] = p.Name
		values[i] = p.Value
	}
	return names, values
}
