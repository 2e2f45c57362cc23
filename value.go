// value.go — the runtime value domain.
package izanami

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // no payload
	VTBool                     // bool
	VTNum                      // float64
	VTStr                      // string
	VTCallable                 // Callable
)

// Value is the universal runtime carrier: a tagged union over nil, bool,
// number (double-precision float), string and callable. The tag determines
// which Go type Data holds.
type Value struct {
	Tag  ValueTag
	Data any
}

// NilVal is the singleton nil value.
var NilVal = Value{Tag: VTNil}

func BoolVal(b bool) Value   { return Value{Tag: VTBool, Data: b} }
func NumVal(f float64) Value { return Value{Tag: VTNum, Data: f} }
func StrVal(s string) Value  { return Value{Tag: VTStr, Data: s} }
func FunVal(c Callable) Value {
	return Value{Tag: VTCallable, Data: c}
}

// isTruthy maps every value to a boolean for use in conditionals: only nil
// and false are falsy. Zero and the empty string are truthy.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// valuesEqual is the total equality used by == and !=. Nil equals only nil,
// same-kind scalars compare by value, and everything else — cross-kind pairs
// and callables — is unequal. It never fails.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	default:
		// Callable equality is not defined by the language.
		return false
	}
}
