package attrs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dashea/gibase/capability"
)

// Allowed is the permitted-operation set of a registered property.
type Allowed uint8

const (
	AllowGet Allowed = 1 << iota
	AllowSet
	AllowConstruct
)

// Has reports whether every bit of op is permitted.
func (a Allowed) Has(op Allowed) bool { return a&op == op }

func (a Allowed) String() string {
	if a == 0 {
		return "none"
	}
	s := ""
	if a.Has(AllowGet) {
		s += "get|"
	}
	if a.Has(AllowSet) {
		s += "set|"
	}
	if a.Has(AllowConstruct) {
		s += "construct|"
	}
	if s == "" {
		return "invalid"
	}
	return s[:len(s)-1]
}

// ErrNotRegistered is returned by Resolve for an unknown (name, owner type)
// pair.
var ErrNotRegistered = errors.New("gibase: attribute not registered")

// RegistrationError reports an inconsistent or duplicate registration. It is
// surfaced when bindings register, so a bad descriptor fails at startup, not
// when it is first used.
type RegistrationError struct {
	Attr   string
	Reason string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("gibase: registering attribute %q: %s", e.Attr, e.Reason)
}

// CapabilityError reports an operation requested on a property whose
// permitted-operation set does not include it.
type CapabilityError struct {
	Attr    string
	Op      Allowed // the capability the operation requires
	Allowed Allowed // the property's permitted set
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("gibase: attribute %q permits %s, operation requires %s", e.Attr, e.Allowed, e.Op)
}

// Entry is the registered, untyped form of a descriptor, used by bindings
// that resolve properties by name rather than through the typed API.
type Entry struct {
	Name      string
	Owner     capability.Type
	Allowed   Allowed
	Get       func(owner any) (any, error)
	Set       func(owner any, v any) error
	Construct func(v any) (any, error)
}

// Require checks that the entry permits an operation needing op. Binding
// generators call this while wiring operations, which keeps the check ahead
// of any execution.
func (e *Entry) Require(op Allowed) error {
	if !e.Allowed.Has(op) {
		return &CapabilityError{Attr: e.Name, Op: op, Allowed: e.Allowed}
	}
	return nil
}

type entryKey struct {
	name  string
	owner capability.Type
}

// Registry maps (property name, owner type) pairs to entries. Registration
// validates each entry; resolution of unknown names is an error at the
// resolving (registration/startup) site, never silently deferred.
type Registry struct {
	mu      sync.RWMutex
	entries map[entryKey]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[entryKey]*Entry)}
}

// Register validates e and adds it. Every permitted operation must come with
// its accessor and every accessor with its permission; a pair registered
// twice is an error.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return &RegistrationError{Attr: e.Name, Reason: "empty name"}
	}
	if e.Owner == capability.InvalidType {
		return &RegistrationError{Attr: e.Name, Reason: "invalid owner type"}
	}
	if e.Allowed == 0 {
		return &RegistrationError{Attr: e.Name, Reason: "empty permitted-operation set"}
	}
	if e.Allowed.Has(AllowGet) != (e.Get != nil) {
		return &RegistrationError{Attr: e.Name, Reason: "get permission and get accessor must match"}
	}
	if e.Allowed.Has(AllowSet) != (e.Set != nil) {
		return &RegistrationError{Attr: e.Name, Reason: "set permission and set accessor must match"}
	}
	if e.Allowed.Has(AllowConstruct) != (e.Construct != nil) {
		return &RegistrationError{Attr: e.Name, Reason: "construct permission and construct builder must match"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	k := entryKey{name: e.Name, owner: e.Owner}
	if _, dup := r.entries[k]; dup {
		return &RegistrationError{Attr: e.Name, Reason: "already registered for this owner type"}
	}
	r.entries[k] = &e
	return nil
}

// Resolve looks up the entry for (name, owner). The owner type must match the
// registration exactly; subtype dispatch is the job of the generated bindings,
// which register inherited properties per concrete type.
func (r *Registry) Resolve(name string, owner capability.Type) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[entryKey{name: name, owner: owner}]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q on owner type %d", ErrNotRegistered, name, owner)
}

// MustResolve is Resolve for program-definition time: it panics on an unknown
// pair so a missing registration fails at startup.
func (r *Registry) MustResolve(name string, owner capability.Type) *Entry {
	e, err := r.Resolve(name, owner)
	if err != nil {
		panic(err)
	}
	return e
}
