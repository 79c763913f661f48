package attrs

// Op is one typed operation against a property of an owner of type O. Build
// ops with Set, SetFrom, Update, UpdateFrom, SetWith, or UpdateWith and run
// them with Apply.
type Op[O any] struct {
	attr string
	run  func(O) error
}

// Attr returns the name of the property the operation targets.
func (op Op[O]) Attr() string { return op.attr }

// Set assigns v to the property.
func Set[O, V any](a Setter[O, V], v V) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		return a.Set(owner, v)
	}}
}

// SetFrom runs the deferred computation f and assigns its result to the
// property. The computation runs when the op executes, not when it is built.
func SetFrom[O, V any](a Setter[O, V], f func() (V, error)) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		v, err := f()
		if err != nil {
			return err
		}
		return a.Set(owner, v)
	}}
}

// Update reads the current value, applies the pure function f, and writes the
// result back. The read-then-write pair is not atomic with respect to
// concurrent foreign mutation of the same property.
func Update[O, V any](a GetSetter[O, V], f func(V) V) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		v, err := a.Get(owner)
		if err != nil {
			return err
		}
		return a.Set(owner, f(v))
	}}
}

// UpdateFrom reads the current value, applies the deferred computation f, and
// writes the result back. Non-atomic, like Update.
func UpdateFrom[O, V any](a GetSetter[O, V], f func(V) (V, error)) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		v, err := a.Get(owner)
		if err != nil {
			return err
		}
		next, err := f(v)
		if err != nil {
			return err
		}
		return a.Set(owner, next)
	}}
}

// SetWith computes the value from the owner and assigns it to the property.
func SetWith[O, V any](a Setter[O, V], f func(O) (V, error)) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		v, err := f(owner)
		if err != nil {
			return err
		}
		return a.Set(owner, v)
	}}
}

// UpdateWith reads the current value, computes a new value from the owner and
// the current value, and writes the result back. Non-atomic, like Update.
func UpdateWith[O, V any](a GetSetter[O, V], f func(O, V) (V, error)) Op[O] {
	return Op[O]{attr: a.Name(), run: func(owner O) error {
		v, err := a.Get(owner)
		if err != nil {
			return err
		}
		next, err := f(owner, v)
		if err != nil {
			return err
		}
		return a.Set(owner, next)
	}}
}

// Apply executes ops against owner strictly in list order. Each operation
// completes fully, including any deferred computation, before the next one
// begins. The first error stops the list and propagates unchanged; earlier
// writes are not rolled back.
func Apply[O any](owner O, ops ...Op[O]) error {
	for _, op := range ops {
		if err := op.run(owner); err != nil {
			return err
		}
	}
	return nil
}
