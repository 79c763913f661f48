package attrs_test

import (
	"errors"
	"testing"

	"github.com/dashea/gibase/attrs"
	"github.com/dashea/gibase/capability"
)

const owner = capability.Type(1)

func getFn(any) (any, error) { return nil, nil }
func setFn(any, any) error { return nil }
func constructFn(any) (any, error) { return nil, nil }

func TestRegisterValidEntries(t *testing.T) {
	cases := []struct {
		name  string
		entry attrs.Entry
	}{
		{"get only", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowGet, Get: getFn}},
		{"set only", attrs.Entry{Name: "b", Owner: owner, Allowed: attrs.AllowSet, Set: setFn}},
		{"construct only", attrs.Entry{Name: "c", Owner: owner, Allowed: attrs.AllowConstruct, Construct: constructFn}},
		{"read write", attrs.Entry{Name: "d", Owner: owner, Allowed: attrs.AllowGet | attrs.AllowSet, Get: getFn, Set: setFn}},
		{"all", attrs.Entry{Name: "e", Owner: owner, Allowed: attrs.AllowGet | attrs.AllowSet | attrs.AllowConstruct, Get: getFn, Set: setFn, Construct: constructFn}},
	}

	r := attrs.NewRegistry()
	for _, tc := range cases {
		if err := r.Register(tc.entry); err != nil {
			t.Errorf("%s: Register failed: %v", tc.name, err)
		}
	}
}

func TestRegisterRejectsInconsistentEntries(t *testing.T) {
	cases := []struct {
		name  string
		entry attrs.Entry
	}{
		{"empty name", attrs.Entry{Owner: owner, Allowed: attrs.AllowGet, Get: getFn}},
		{"invalid owner", attrs.Entry{Name: "a", Allowed: attrs.AllowGet, Get: getFn}},
		{"no operations", attrs.Entry{Name: "a", Owner: owner}},
		{"get without accessor", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowGet}},
		{"set without accessor", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowSet}},
		{"construct without builder", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowConstruct}},
		{"accessor without get permission", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowSet, Set: setFn, Get: getFn}},
		{"accessor without set permission", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowGet, Get: getFn, Set: setFn}},
		{"builder without construct permission", attrs.Entry{Name: "a", Owner: owner, Allowed: attrs.AllowGet, Get: getFn, Construct: constructFn}},
	}

	for _, tc := range cases {
		r := attrs.NewRegistry()
		err := r.Register(tc.entry)
		if err == nil {
			t.Errorf("%s: Register should have failed", tc.name)
			continue
		}
		var regErr *attrs.RegistrationError
		if !errors.As(err, &regErr) {
			t.Errorf("%s: error type: got %T, want *RegistrationError", tc.name, err)
		}
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := attrs.NewRegistry()
	e := attrs.Entry{Name: "title", Owner: owner, Allowed: attrs.AllowGet, Get: getFn}

	if err := r.Register(e); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := r.Register(e); err == nil {
		t.Fatal("duplicate Register should fail")
	}

	// The same name on a different owner type is a distinct property.
	e.Owner = capability.Type(2)
	if err := r.Register(e); err != nil {
		t.Fatalf("Register on different owner failed: %v", err)
	}
}

func TestResolve(t *testing.T) {
	r := attrs.NewRegistry()
	if err := r.Register(attrs.Entry{Name: "title", Owner: owner, Allowed: attrs.AllowGet, Get: getFn}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	e, err := r.Resolve("title", owner)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if e.Name != "title" {
		t.Errorf("resolved name: got %q, want %q", e.Name, "title")
	}

	if _, err := r.Resolve("no-such", owner); !errors.Is(err, attrs.ErrNotRegistered) {
		t.Fatalf("Resolve unknown: got %v, want ErrNotRegistered", err)
	}
	if _, err := r.Resolve("title", capability.Type(9)); !errors.Is(err, attrs.ErrNotRegistered) {
		t.Fatalf("Resolve wrong owner: got %v, want ErrNotRegistered", err)
	}
}

func TestMustResolvePanicsOnUnknown(t *testing.T) {
	r := attrs.NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatal("MustResolve should panic on an unknown attribute")
		}
	}()
	r.MustResolve("missing", owner)
}

// TestRequireCapabilities walks every permitted-operation set against the
// capability each operation variant needs: the three assign variants need
// set, the three update variants need get and set, and construction needs
// construct.
func TestRequireCapabilities(t *testing.T) {
	sets := []attrs.Allowed{
		attrs.AllowGet,
		attrs.AllowSet,
		attrs.AllowConstruct,
		attrs.AllowGet | attrs.AllowSet,
		attrs.AllowGet | attrs.AllowSet | attrs.AllowConstruct,
	}
	needs := []struct {
		op   string
		need attrs.Allowed
	}{
		{"assign", attrs.AllowSet},
		{"assign-deferred", attrs.AllowSet},
		{"assign-from-owner", attrs.AllowSet},
		{"update", attrs.AllowGet | attrs.AllowSet},
		{"update-deferred", attrs.AllowGet | attrs.AllowSet},
		{"update-with-owner", attrs.AllowGet | attrs.AllowSet},
		{"construct", attrs.AllowConstruct},
	}

	for _, allowed := range sets {
		e := &attrs.Entry{Name: "p", Owner: owner, Allowed: allowed}
		for _, n := range needs {
			err := e.Require(n.need)
			want := allowed.Has(n.need)
			if want && err != nil {
				t.Errorf("allowed=%v op=%s: unexpected rejection: %v", allowed, n.op, err)
			}
			if !want {
				var capErr *attrs.CapabilityError
				if !errors.As(err, &capErr) {
					t.Errorf("allowed=%v op=%s: got %v, want *CapabilityError", allowed, n.op, err)
				}
			}
		}
	}
}
