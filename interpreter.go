// interpreter.go — tree-walking evaluation.
//
// Statements produce a signal (nil, break, return, or a runtime error);
// expressions produce a (Value, *RuntimeError) pair. The first runtime error
// aborts the program, but the REPL reuses the same Interpreter afterward, so
// definitions made before the failure survive.
package izanami

import (
	"bufio"
	"io"
	"os"
)

// Interpreter holds the global frame and the I/O endpoints the program talks
// to. One Interpreter may Run any number of source units in sequence; later
// units see the globals of earlier ones.
type Interpreter struct {
	Globals *Env
	stdout  io.Writer
	stdin   *bufio.Reader
}

// NewInterpreter creates an interpreter bound to the process's stdin/stdout.
func NewInterpreter() *Interpreter {
	return NewInterpreterIO(os.Stdout, os.Stdin)
}

// NewInterpreterIO creates an interpreter with explicit I/O endpoints.
// Tests use this to capture print output and script read_input.
func NewInterpreterIO(stdout io.Writer, stdin io.Reader) *Interpreter {
	ip := &Interpreter{
		Globals: NewEnv(nil),
		stdout:  stdout,
		stdin:   bufio.NewReader(stdin),
	}
	ip.installNatives()
	return ip
}

// Run lexes, parses and executes one source unit. The returned error is one
// of LexErrorList, ParseErrorList or *RuntimeError, letting callers map the
// failure stage to an exit code. Lexing and parsing each report all their
// diagnostics; execution stops at the first runtime error.
func (ip *Interpreter) Run(src string) error {
	tokens, lexErrs := NewLexer(src).Scan()
	if len(lexErrs) > 0 {
		return LexErrorList(lexErrs)
	}
	stmts, parseErrs := NewParser(tokens).Parse()
	if len(parseErrs) > 0 {
		return ParseErrorList(parseErrs)
	}
	if err := ip.Interpret(stmts); err != nil {
		return err
	}
	return nil
}

// Interpret executes statements in the global frame.
func (ip *Interpreter) Interpret(stmts []Stmt) *RuntimeError {
	for _, stmt := range stmts {
		switch sig := ip.execute(stmt, ip.Globals).(type) {
		case *RuntimeError:
			return sig
		case nil:
			// keep going
		default:
			// The parser rejects break outside loops and return outside
			// functions, so a stray signal here means a parser/evaluator
			// mismatch.
			return &RuntimeError{Msg: "Interpreter bug: stray signal at top level."}
		}
	}
	return nil
}

// execute runs one statement in env and reports how it finished.
func (ip *Interpreter) execute(stmt Stmt, env *Env) signal {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		if _, err := ip.eval(s.Expression, env); err != nil {
			return err
		}
		return nil

	case *PrintStmt:
		v, err := ip.eval(s.Expression, env)
		if err != nil {
			return err
		}
		if _, werr := io.WriteString(ip.stdout, FormatValue(v)+"\n"); werr != nil {
			return &RuntimeError{Msg: "Error writing to stdout"}
		}
		return nil

	case *VarStmt:
		if s.Initializer == nil {
			env.Declare(s.Name.Lexeme)
			return nil
		}
		v, err := ip.eval(s.Initializer, env)
		if err != nil {
			return err
		}
		env.Define(s.Name.Lexeme, v)
		return nil

	case *BlockStmt:
		return ip.executeBlock(s.Statements, NewEnv(env))

	case *IfStmt:
		cond, err := ip.eval(s.Cond, env)
		if err != nil {
			return err
		}
		if isTruthy(cond) {
			return ip.execute(s.Then, env)
		}
		if s.Else != nil {
			return ip.execute(s.Else, env)
		}
		return nil

	case *WhileStmt:
		for {
			cond, err := ip.eval(s.Cond, env)
			if err != nil {
				return err
			}
			if !isTruthy(cond) {
				return nil
			}
			switch sig := ip.execute(s.Body, env).(type) {
			case nil:
				// next iteration
			case breakSignal:
				return nil
			default:
				// return or runtime error passes through
				return sig
			}
		}

	case *FunctionStmt:
		// The body slice is shared with the AST node, which is fine: nodes
		// are immutable after parsing.
		fn := &Function{
			FnName:  s.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		}
		env.Define(s.Name.Lexeme, FunVal(fn))
		return nil

	case *ReturnStmt:
		value := NilVal
		if s.Value != nil {
			v, err := ip.eval(s.Value, env)
			if err != nil {
				return err
			}
			value = v
		}
		return returnSignal{Value: value}

	case *BreakStmt:
		return breakSignal{}

	default:
		return &RuntimeError{Msg: "Interpreter bug: unknown statement node."}
	}
}

// executeBlock runs stmts in env, stopping at the first non-nil signal.
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) signal {
	for _, stmt := range stmts {
		if sig := ip.execute(stmt, env); sig != nil {
			return sig
		}
	}
	return nil
}

// eval computes one expression in env.
func (ip *Interpreter) eval(expr Expr, env *Env) (Value, *RuntimeError) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *GroupingExpr:
		return ip.eval(e.Expression, env)

	case *UnaryExpr:
		return ip.evalUnary(e, env)

	case *BinaryExpr:
		return ip.evalBinary(e, env)

	case *LogicalExpr:
		left, err := ip.eval(e.Left, env)
		if err != nil {
			return Value{}, err
		}
		if e.Op.Type == Or {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return ip.eval(e.Right, env)

	case *TernaryExpr:
		cond, err := ip.eval(e.Cond, env)
		if err != nil {
			return Value{}, err
		}
		if isTruthy(cond) {
			return ip.eval(e.Then, env)
		}
		return ip.eval(e.Else, env)

	case *VariableExpr:
		return ip.lookup(e.Name, env)

	case *AssignExpr:
		v, err := ip.eval(e.Value, env)
		if err != nil {
			return Value{}, err
		}
		if aerr := env.Assign(e.Name.Lexeme, v); aerr != nil {
			return Value{}, runtimeErr(e.Name, "Undefined variable "+e.Name.Lexeme+".")
		}
		return v, nil

	case *CallExpr:
		return ip.evalCall(e, env)

	default:
		return Value{}, &RuntimeError{Msg: "Interpreter bug: unknown expression node."}
	}
}

func (ip *Interpreter) lookup(name Token, env *Env) (Value, *RuntimeError) {
	v, err := env.Get(name.Lexeme)
	switch err {
	case nil:
		return v, nil
	case ErrUninitialized:
		return Value{}, runtimeErr(name, "Uninitialized variable "+name.Lexeme+".")
	default:
		return Value{}, runtimeErr(name, "Undefined variable "+name.Lexeme+".")
	}
}

func (ip *Interpreter) evalUnary(e *UnaryExpr, env *Env) (Value, *RuntimeError) {
	right, err := ip.eval(e.Right, env)
	if err != nil {
		return Value{}, err
	}
	switch e.Op.Type {
	case Minus:
		if right.Tag != VTNum {
			return Value{}, runtimeErr(e.Op, "Operand must be a number")
		}
		return NumVal(-right.Data.(float64)), nil
	case Bang:
		return BoolVal(!isTruthy(right)), nil
	default:
		return Value{}, runtimeErr(e.Op, "Interpreter bug: unknown unary operator.")
	}
}

func (ip *Interpreter) evalBinary(e *BinaryExpr, env *Env) (Value, *RuntimeError) {
	left, err := ip.eval(e.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.eval(e.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Type {
	case Comma:
		// Left evaluated for effect only.
		return right, nil

	case EqualEqual:
		return BoolVal(valuesEqual(left, right)), nil
	case BangEqual:
		return BoolVal(!valuesEqual(left, right)), nil

	case Plus:
		// Number addition, unless either side is a string, in which case
		// both render to text and concatenate.
		if left.Tag == VTNum && right.Tag == VTNum {
			return NumVal(left.Data.(float64) + right.Data.(float64)), nil
		}
		if left.Tag == VTStr || right.Tag == VTStr {
			return StrVal(stringify(left) + stringify(right)), nil
		}
		return Value{}, runtimeErr(e.Op, "Operands must be two numbers or two strings")

	case Minus, Slash, Star, Greater, GreaterEqual, Less, LessEqual:
		if left.Tag != VTNum || right.Tag != VTNum {
			return Value{}, runtimeErr(e.Op, "Operands must be numbers")
		}
		l, r := left.Data.(float64), right.Data.(float64)
		switch e.Op.Type {
		case Minus:
			return NumVal(l - r), nil
		case Slash:
			// Division by zero follows IEEE 754: Inf or NaN, not an error.
			return NumVal(l / r), nil
		case Star:
			return NumVal(l * r), nil
		case Greater:
			return BoolVal(l > r), nil
		case GreaterEqual:
			return BoolVal(l >= r), nil
		case Less:
			return BoolVal(l < r), nil
		default:
			return BoolVal(l <= r), nil
		}

	default:
		return Value{}, runtimeErr(e.Op, "Interpreter bug: unknown binary operator.")
	}
}

func (ip *Interpreter) evalCall(e *CallExpr, env *Env) (Value, *RuntimeError) {
	callee, err := ip.eval(e.Callee, env)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := ip.eval(argExpr, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}
	if callee.Tag != VTCallable {
		return Value{}, runtimeErr(e.Paren, "Can only call functions and classes")
	}
	fn := callee.Data.(Callable)
	if len(args) != fn.Arity() {
		return Value{}, runtimeErr(e.Paren,
			formatArityMsg(fn.Arity(), len(args)))
	}
	return fn.Call(ip, args)
}
