// callable.go — invocable values: user functions and native bindings.
package izanami

// Callable is anything a CallExpr may invoke. Arity is checked by the
// evaluator before Call runs, so implementations may index args freely.
type Callable interface {
	Name() string
	Arity() int
	Call(ip *Interpreter, args []Value) (Value, *RuntimeError)
}

// Function is a user-declared function. Closure is the frame the declaration
// executed in; every invocation chains a fresh frame off it, which is what
// makes counters-behind-closures work.
type Function struct {
	FnName  Token
	Params  []Token
	Body    []Stmt
	Closure *Env
}

func (f *Function) Name() string { return f.FnName.Lexeme }
func (f *Function) Arity() int   { return len(f.Params) }

// Call runs the body in a fresh frame with parameters bound to args. A
// returnSignal from the body becomes the call's value; falling off the end
// yields nil. Break never escapes a body (the parser rejects it), so the only
// other signal that can surface is a runtime error, which propagates.
func (f *Function) Call(ip *Interpreter, args []Value) (Value, *RuntimeError) {
	env := NewEnv(f.Closure)
	for i, param := range f.Params {
		env.Define(param.Lexeme, args[i])
	}
	switch sig := ip.executeBlock(f.Body, env).(type) {
	case nil:
		return NilVal, nil
	case returnSignal:
		return sig.Value, nil
	case *RuntimeError:
		return Value{}, sig
	default:
		return Value{}, &RuntimeError{Msg: "Interpreter bug: stray signal escaped function body."}
	}
}

// NativeFunction adapts a Go function into a callable value.
type NativeFunction struct {
	FnName string
	NArgs  int
	Impl   func(ip *Interpreter, args []Value) (Value, *RuntimeError)
}

func (n *NativeFunction) Name() string { return n.FnName }
func (n *NativeFunction) Arity() int   { return n.NArgs }

func (n *NativeFunction) Call(ip *Interpreter, args []Value) (Value, *RuntimeError) {
	return n.Impl(ip, args)
}
