// Package scoped is a fine-grained reactive runtime. Signals live in scopes,
// scopes nest, and discarding a scope releases everything created in it.
// Reading a signal while a func signal is computing subscribes that func to
// it; writing a signal recomputes exactly the funcs that depend on it, and
// stops descending below any func whose value did not change.
//
// A Runtime is single threaded. Scopes and signals are small value handles
// into the runtime and can be copied into closures freely.
package scoped

import (
	"strconv"

	"github.com/delaneyj/scopedsignals/arena"
)

type scopeInner struct {
	// gen tells this scope apart from earlier scopes that held the same slot.
	gen     uint32
	signals []signalInner
}

type signalInner struct {
	value     any         // *cell[T]
	recompute func() bool // nil for data signals
	listeners listenerSet
}

type Runtime struct {
	scopes  *arena.Tree[scopeInner]
	running SignalID
	gen     uint32
}

func NewRuntime() *Runtime {
	return &Runtime{scopes: arena.New[scopeInner]()}
}

// NewRootScope starts the runtime. A runtime holds one root scope at a time;
// discard the root before asking for another.
func (rt *Runtime) NewRootScope() Scope {
	if rt.InUse() {
		panic("scoped: runtime already in use, discard its root scope first")
	}
	return Scope{rt: rt, id: rt.scopes.Init(rt.newScope())}
}

func (rt *Runtime) newScope() scopeInner {
	rt.gen++
	return scopeInner{gen: rt.gen}
}

func (rt *Runtime) InUse() bool {
	return rt.scopes.IsInitialized()
}

// Discard destroys every scope and signal of the runtime. It is what
// discarding the root scope does.
func (rt *Runtime) Discard() {
	if !rt.InUse() {
		return
	}
	rt.scopes.DiscardAll()
	rt.running = SignalID{}
}

// Untrack runs fn without a running signal, so nothing read inside fn
// subscribes the caller.
func (rt *Runtime) Untrack(fn func()) {
	prev := rt.setRunning(SignalID{})
	defer rt.setRunning(prev)
	fn()
}

func (rt *Runtime) ScopeCount() int {
	if !rt.InUse() {
		return 0
	}
	return len(rt.scopes.UsedIDs())
}

func (rt *Runtime) SignalCount() int {
	if !rt.InUse() {
		return 0
	}
	count := 0
	rt.scopes.ForEach(rt.scopes.Root(), func(_ arena.NodeID, s *scopeInner) {
		count += len(s.signals)
	})
	return count
}

// Tree renders the scope tree with the number of signals in each scope.
func (rt *Runtime) Tree() string {
	return rt.scopes.ASCII(func(s scopeInner) string {
		if len(s.signals) == 1 {
			return "1 signal"
		}
		return strconv.Itoa(len(s.signals)) + " signals"
	})
}

func (rt *Runtime) setRunning(id SignalID) (prev SignalID) {
	prev = rt.running
	rt.running = id
	return prev
}

// signal returns the stored signal. The pointer must not be held across
// anything that can add signals to the same scope.
func (rt *Runtime) signal(id SignalID) *signalInner {
	return &rt.scopes.Get(id.scope).signals[id.Index()]
}

// live reports whether id still addresses the signal it was issued for. A
// compute can discard scopes, and reuse their slots, while a propagation holds
// listener snapshots naming them.
func (rt *Runtime) live(id SignalID) bool {
	if !rt.scopes.IsUsed(id.scope) {
		return false
	}
	s := rt.scopes.Get(id.scope)
	return s.gen == id.gen && id.Index() < len(s.signals)
}

func (rt *Runtime) insertSignal(scope arena.NodeID, s signalInner) SignalID {
	inner := rt.scopes.Get(scope)
	idx := len(inner.signals)
	if idx > MaxSignalsPerScope {
		panic("scoped: too many signals in one scope")
	}
	inner.signals = append(inner.signals, s)
	return SignalID{scope: scope, index: uint16(idx), gen: inner.gen}
}

// track subscribes the running signal, if any, to id.
func (rt *Runtime) track(id SignalID) *signalInner {
	s := rt.signal(id)
	if rt.running.IsValid() && rt.running != id {
		s.listeners = s.listeners.insert(rt.running)
	}
	return s
}

// Pool hands out root scopes from a set of runtimes, reusing any runtime
// whose root scope has been discarded.
type Pool struct {
	runtimes []*Runtime
}

func NewPool() *Pool {
	return &Pool{}
}

func (p *Pool) NewRootScope() Scope {
	for _, rt := range p.runtimes {
		if !rt.InUse() {
			return rt.NewRootScope()
		}
	}
	rt := NewRuntime()
	p.runtimes = append(p.runtimes, rt)
	return rt.NewRootScope()
}

// Len is the number of runtimes the pool has created.
func (p *Pool) Len() int {
	return len(p.runtimes)
}
