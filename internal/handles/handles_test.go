package handles

import (
	"sync"
	"testing"
)

func TestRegisterAndLookup(t *testing.T) {
	type fakeObject struct {
		Name string
		Refs int
	}

	obj := &fakeObject{Name: "GtkWindow", Refs: 1}
	addr := Register(obj)

	if addr == 0 {
		t.Error("Register should return non-zero address")
	}

	got := Lookup(addr)
	if got == nil {
		t.Error("Lookup should return non-nil value")
	}

	gotObj, ok := got.(*fakeObject)
	if !ok {
		t.Errorf("Lookup returned wrong type: %T", got)
	}

	if gotObj.Name != "GtkWindow" || gotObj.Refs != 1 {
		t.Errorf("Lookup returned wrong data: %+v", gotObj)
	}
}

func TestUnregister(t *testing.T) {
	addr := Register("boxed payload")

	if Lookup(addr) == nil {
		t.Error("Expected value before Unregister")
	}

	Unregister(addr)

	if Lookup(addr) != nil {
		t.Error("Expected nil after Unregister")
	}
}

func TestLookupNonExistent(t *testing.T) {
	got := Lookup(999999)
	if got != nil {
		t.Error("Lookup of non-existent address should return nil")
	}
}

func TestConcurrentAccess(t *testing.T) {
	const numGoroutines = 100
	const numOps = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOps; j++ {
				data := struct {
					ID  int
					Seq int
				}{id, j}
				addr := Register(&data)
				got := Lookup(addr)
				if got == nil {
					t.Errorf("Lookup returned nil for address %d", addr)
				}
				Unregister(addr)
			}
		}(i)
	}

	wg.Wait()
}

func TestAddressesAreUnique(t *testing.T) {
	seen := make(map[uintptr]bool)

	for i := 0; i < 1000; i++ {
		a := Register(i)
		if seen[a] {
			t.Errorf("Address %d was returned twice", a)
		}
		seen[a] = true
	}

	// Clean up
	for a := range seen {
		Unregister(a)
	}
}
