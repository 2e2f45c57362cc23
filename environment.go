// environment.go — the lexical scope chain.
package izanami

import "errors"

// Sentinel conditions surfaced by Env lookups. The evaluator converts them
// into runtime errors carrying the offending token.
var (
	ErrUndefined     = errors.New("undefined variable")
	ErrUninitialized = errors.New("uninitialized variable")
)

type binding struct {
	value Value
	set   bool // false while declared without an initializer
}

// Env is one lexical frame with a parent link. Frames form a tree during
// execution: each block or call pushes a child of the frame active at that
// point, and a closure keeps its defining frame alive for as long as the
// closure itself is reachable. Lookups walk parent-ward and stop at the
// single global frame.
type Env struct {
	parent *Env
	table  map[string]binding
}

// NewEnv creates a frame enclosed by parent (nil for the global frame).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]binding)}
}

// Define binds name to v in this frame only, silently shadowing any outer
// binding. Redefinition in the same frame is legal.
func (e *Env) Define(name string, v Value) {
	e.table[name] = binding{value: v, set: true}
}

// Declare binds name in this frame without a value.
func (e *Env) Declare(name string) {
	e.table[name] = binding{}
}

// Assign updates the nearest frame that already defines name. It never
// creates a binding: if no frame in the chain knows the name it returns
// ErrUndefined.
func (e *Env) Assign(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = binding{value: v, set: true}
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, v)
	}
	return ErrUndefined
}

// Get returns the nearest visible binding for name. A name that no frame
// defines yields ErrUndefined; one that was declared but never assigned
// yields ErrUninitialized.
func (e *Env) Get(name string) (Value, error) {
	if b, ok := e.table[name]; ok {
		if !b.set {
			return Value{}, ErrUninitialized
		}
		return b.value, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, ErrUndefined
}
