package scoped

// ReadonlySignal is a typed handle to a signal. Func signals only hand out
// this handle.
type ReadonlySignal[T any] struct {
	rt *Runtime
	id SignalID
}

// WriteableSignal is the handle of a data signal.
type WriteableSignal[T any] struct {
	ReadonlySignal[T]
}

// Data creates a signal that notifies its listeners on every write.
func Data[T any](sc Scope, v T) WriteableSignal[T] {
	return newData(sc, &cell[T]{}, v)
}

// EqData creates a signal that only notifies when a write changes the value.
func EqData[T comparable](sc Scope, v T) WriteableSignal[T] {
	return newData(sc, &cell[T]{equal: equal[T]}, v)
}

// HashData creates a signal that compares the hash of the old and the new
// value. Two different values with the same hash count as unchanged.
func HashData[T any](sc Scope, v T, hash func(v T) uint64) WriteableSignal[T] {
	return newData(sc, &cell[T]{hasher: hash}, v)
}

// Func creates a signal holding the result of fn. fn runs once right away and
// again whenever a signal it read changes; its listeners are always notified.
func Func[T any](sc Scope, fn func() T) ReadonlySignal[T] {
	return newFunc(sc, &cell[T]{}, fn)
}

// EqFunc is Func, except listeners are only notified when the recomputed
// value differs from the previous one.
func EqFunc[T comparable](sc Scope, fn func() T) ReadonlySignal[T] {
	return newFunc(sc, &cell[T]{equal: equal[T]}, fn)
}

// HashFunc is Func with change detection by hash, see HashData.
func HashFunc[T any](sc Scope, fn func() T, hash func(v T) uint64) ReadonlySignal[T] {
	return newFunc(sc, &cell[T]{hasher: hash}, fn)
}

func newData[T any](sc Scope, c *cell[T], v T) WriteableSignal[T] {
	c.init(v)
	id := sc.rt.insertSignal(sc.id, signalInner{value: c})
	return WriteableSignal[T]{ReadonlySignal[T]{rt: sc.rt, id: id}}
}

func newFunc[T any](sc Scope, c *cell[T], fn func() T) ReadonlySignal[T] {
	rt := sc.rt
	id := rt.insertSignal(sc.id, signalInner{
		value: c,
		recompute: func() bool {
			return c.replace(fn())
		},
	})

	prev := rt.setRunning(id)
	defer rt.setRunning(prev)
	c.init(fn())

	return ReadonlySignal[T]{rt: rt, id: id}
}

func (s ReadonlySignal[T]) ID() SignalID { return s.id }

func (s ReadonlySignal[T]) stored() *cell[T] {
	return s.rt.signal(s.id).value.(*cell[T])
}

// Get returns the value and subscribes the running func signal, if any.
func (s ReadonlySignal[T]) Get() T {
	return s.rt.track(s.id).value.(*cell[T]).v
}

// With hands f the stored value without copying it. f must not modify it.
func (s ReadonlySignal[T]) With(f func(v *T)) {
	c := s.rt.track(s.id).value.(*cell[T])
	f(&c.v)
}

// Peek returns the value without subscribing anyone.
func (s ReadonlySignal[T]) Peek() T {
	return s.stored().v
}

// Set stores v and propagates the change to the signal's listeners.
func (s WriteableSignal[T]) Set(v T) {
	if s.stored().replace(v) {
		s.rt.propagate(s.id)
	}
}

// Update mutates the value in place and propagates like Set.
func (s WriteableSignal[T]) Update(f func(v *T)) {
	if s.stored().modify(f) {
		s.rt.propagate(s.id)
	}
}
