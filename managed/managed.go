// Package managed implements the ownership core of gibase: an opaque handle
// to foreign memory with an attached release action that fires at most once.
//
// A Ptr does not dereference its address; it only guarantees the release
// action runs exactly once, either when the garbage collector reclaims the
// Ptr or when the holder releases it explicitly. Code that hands the raw
// address to a foreign call must keep the Ptr alive for the duration of the
// call; the With* helpers do this by issuing runtime.KeepAlive after the
// callback returns. Without it the collector is free to run the cleanup while
// the foreign call is still using the address.
package managed

import (
	"errors"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dashea/gibase/internal/trace"
)

// ErrReleased is returned when an operation needs the foreign memory of a Ptr
// whose release action has already fired.
var ErrReleased = errors.New("gibase: foreign pointer already released")

// ReleaseFunc releases the foreign memory at addr.
type ReleaseFunc func(addr uintptr)

// guard holds the release state shared between a Ptr and its runtime cleanup.
// It deliberately carries no reference back to the Ptr, as required by
// runtime.AddCleanup.
type guard struct {
	addr    uintptr
	release ReleaseFunc // nil for borrowed pointers
	fired   atomic.Bool
}

// run fires the release action if it has not fired yet.
func (g *guard) run() {
	if !g.fired.CompareAndSwap(false, true) {
		return
	}
	if g.release != nil {
		liveOwned.Add(-1)
		if trace.Enabled() {
			trace.L().Debug("release", zap.Uintptr("addr", g.addr))
		}
		g.release(g.addr)
	}
}

// disarm marks the guard fired without running the release action.
// Reports whether this call won the transition.
func (g *guard) disarm() bool {
	if !g.fired.CompareAndSwap(false, true) {
		return false
	}
	if g.release != nil {
		liveOwned.Add(-1)
	}
	return true
}

// Ptr is a handle to a single foreign memory location. It is immutable after
// construction. The zero value is not useful; construct with Acquire or
// Borrow.
type Ptr struct {
	g       *guard
	cleanup runtime.Cleanup
}

var liveOwned atomic.Int64

// Live returns the number of owning Ptrs whose release has not fired yet.
// Borrowed pointers are not counted.
func Live() int64 {
	return liveOwned.Load()
}

// Acquire wraps addr with a release action. The action runs exactly once:
// when the collector reclaims the Ptr, or earlier via FreeNow. A nil release
// is equivalent to Borrow.
func Acquire(addr uintptr, release ReleaseFunc) *Ptr {
	p := &Ptr{g: &guard{addr: addr, release: release}}
	if release != nil {
		liveOwned.Add(1)
		p.cleanup = runtime.AddCleanup(p, func(g *guard) { g.run() }, p.g)
		if trace.Enabled() {
			trace.L().Debug("acquire", zap.Uintptr("addr", addr))
		}
	}
	return p
}

// Borrow wraps addr without taking ownership. No release action ever runs.
func Borrow(addr uintptr) *Ptr {
	return &Ptr{g: &guard{addr: addr}}
}

// Addr returns the raw foreign address.
//
// This is the unsafe escape hatch: the caller must not use the returned
// address past any point where the Ptr could be collected, and must issue
// KeepAlive after the last foreign call that consumes it. Prefer WithPtr.
// Returns 0 once the release action has fired.
func (p *Ptr) Addr() uintptr {
	if p == nil || p.g.fired.Load() {
		return 0
	}
	return p.g.addr
}

// Released reports whether the release action has fired (or the pointer was
// disowned).
func (p *Ptr) Released() bool {
	return p != nil && p.g.release != nil && p.g.fired.Load()
}

// KeepAlive forces the runtime to treat p as reachable up to this point.
// It must follow, in program order, the last use of a raw address obtained
// from p outside a With* helper.
func KeepAlive(p *Ptr) {
	runtime.KeepAlive(p)
}

// WithPtr runs f with the raw address of p and keeps p alive until f returns.
// Returns ErrReleased without calling f if p has already been released.
func WithPtr(p *Ptr, f func(addr uintptr) error) error {
	if p.Released() {
		return ErrReleased
	}
	err := f(p.g.addr)
	runtime.KeepAlive(p)
	return err
}

// WithPtrMaybe behaves like WithPtr, except a nil p invokes f with a zero
// address. Mirrors foreign APIs where NULL is a legal "absent" argument.
func WithPtrMaybe(p *Ptr, f func(addr uintptr) error) error {
	if p == nil {
		return f(0)
	}
	return WithPtr(p, f)
}

// WithPtrs runs f with the raw addresses of ps, in input order, and keeps
// every Ptr alive until f returns. A nil element yields a zero address.
func WithPtrs(ps []*Ptr, f func(addrs []uintptr) error) error {
	addrs := make([]uintptr, len(ps))
	for i, p := range ps {
		if p == nil {
			continue
		}
		if p.Released() {
			return ErrReleased
		}
		addrs[i] = p.g.addr
	}
	err := f(addrs)
	for _, p := range ps {
		runtime.KeepAlive(p)
	}
	return err
}

// FreeNow runs the release action immediately and cancels the pending
// cleanup. After FreeNow the Ptr must not be used. Returns ErrReleased if the
// action already fired and an error for borrowed pointers, which have nothing
// to free.
func (p *Ptr) FreeNow() error {
	if p.g.release == nil {
		return errors.New("gibase: cannot free a borrowed pointer")
	}
	if p.g.fired.Load() {
		return ErrReleased
	}
	p.cleanup.Stop()
	p.g.run()
	runtime.KeepAlive(p)
	return nil
}

// Disown transfers ownership out of p: the pending release is cancelled and
// the raw address is returned. The caller (or the foreign container it hands
// the address to) becomes responsible for releasing it. Returns ErrReleased
// if the release action already fired and an error for borrowed pointers,
// which own nothing to transfer.
func (p *Ptr) Disown() (uintptr, error) {
	if p.g.release == nil {
		return 0, errors.New("gibase: cannot disown a borrowed pointer")
	}
	if !p.g.disarm() {
		return 0, ErrReleased
	}
	p.cleanup.Stop()
	if trace.Enabled() {
		trace.L().Debug("disown", zap.Uintptr("addr", p.g.addr))
	}
	addr := p.g.addr
	runtime.KeepAlive(p)
	return addr, nil
}
