// native.go — built-in functions installed into every global frame.
package izanami

import (
	"fmt"
	"time"
)

func formatArityMsg(want, got int) string {
	return fmt.Sprintf("Expected %d arguments but got %d.", want, got)
}

// installNatives defines the built-in functions. They live in the global
// frame like any user definition and can be shadowed or reassigned.
func (ip *Interpreter) installNatives() {
	ip.defineNative("clock", 0, func(_ *Interpreter, _ []Value) (Value, *RuntimeError) {
		return NumVal(float64(time.Now().UnixNano()) / 1e9), nil
	})
	ip.defineNative("read_input", 0, func(ip *Interpreter, _ []Value) (Value, *RuntimeError) {
		line, err := ip.stdin.ReadString('\n')
		if err != nil && line == "" {
			return Value{}, &RuntimeError{Msg: "Error reading from stdin"}
		}
		return StrVal(line), nil
	})
}

func (ip *Interpreter) defineNative(name string, arity int, impl func(*Interpreter, []Value) (Value, *RuntimeError)) {
	ip.Globals.Define(name, FunVal(&NativeFunction{
		FnName: name,
		NArgs:  arity,
		Impl:   impl,
	}))
}
