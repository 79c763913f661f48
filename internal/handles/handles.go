// Package handles provides a thread-safe registry that maps opaque uintptr
// addresses to Go values.
//
// gibase treats foreign addresses as opaque and never dereferences them, so
// any uintptr that is stable and unique works as an address. The fake
// capability table uses this registry to mint addresses for its simulated
// objects, boxed values, and raw allocations; the per-address state lives on
// the Go heap behind the handle.
package handles

import (
	"sync"
)

var mu sync.RWMutex
var entries = make(map[uintptr]any)
var nextID = uintptr(1)

// Register stores a value and returns a fresh address for it.
// The value stays reachable until Unregister is called with the address.
//
// Thread-safe.
func Register(v any) uintptr {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	entries[id] = v
	return id
}

// Lookup retrieves the value stored at addr.
// Returns nil if the address is not registered.
//
// Thread-safe.
func Lookup(addr uintptr) any {
	mu.RLock()
	defer mu.RUnlock()
	return entries[addr]
}

// Unregister removes an address. The stored value becomes collectable once
// the caller drops its own references.
//
// Thread-safe.
func Unregister(addr uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(entries, addr)
}

// Count returns the number of currently registered addresses.
// Useful for leak checks in tests.
//
// Thread-safe.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(entries)
}
