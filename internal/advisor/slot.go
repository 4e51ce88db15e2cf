package advisor

// Slot tracks the latest outcome of uncoordinated background calls. Every
// call that starts must be settled with Resolve or Fail; results land in
// completion order and the last one wins.
type Slot[T any] struct {
	inFlight int
	value    T
	ready    bool
	err      error
}

// Begin records a call in flight.
func (s Slot[T]) Begin() Slot[T] {
	s.inFlight++
	return s
}

// Resolve stores a successful result.
func (s Slot[T]) Resolve(value T) Slot[T] {
	s = s.settle()
	s.value = value
	s.ready = true
	s.err = nil
	return s
}

// Fail clears the result and keeps err for display.
func (s Slot[T]) Fail(err error) Slot[T] {
	s = s.settle()
	var zero T
	s.value = zero
	s.ready = false
	s.err = err
	return s
}

func (s Slot[T]) settle() Slot[T] {
	if s.inFlight > 0 {
		s.inFlight--
	}
	return s
}

// Loading reports whether any call is still in flight.
func (s Slot[T]) Loading() bool { return s.inFlight > 0 }

// Value returns the last successful result, if any.
func (s Slot[T]) Value() (T, bool) { return s.value, s.ready }

// Err returns the error from the last failed call, if the last call failed.
func (s Slot[T]) Err() error { return s.err }
