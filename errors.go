// errors.go — diagnostics and the control-flow signal channel.
//
// Three error classes, never conflated:
//   - *LexError   (lexer.go)  — collected; all of them are reported in one scan.
//   - *ParseError             — collected per declaration via synchronize.
//   - *RuntimeError           — fatal to the running program at the first one.
//
// Break and return are not errors. They share the statement-level propagation
// channel with *RuntimeError purely as plumbing, and must never reach a user.
// Formatting happens only here, at the boundary; the rest of the code builds
// structured values.
package izanami

import (
	"fmt"
	"strings"
)

// Report renders one diagnostic line in the canonical form
//
//	[line N] Error <location>: <message>
//
// where location is empty, "at end", or "at '<lexeme>'".
func Report(line int, location, msg string) string {
	if location == "" {
		return fmt.Sprintf("[line %d] Error: %s", line, msg)
	}
	return fmt.Sprintf("[line %d] Error %s: %s", line, location, msg)
}

// ParseError is a syntax diagnostic attached to the token where parsing
// failed. The parser keeps going after recording one, so a single pass
// reports every malformed declaration.
type ParseError struct {
	Token Token
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token.Type == EOF {
		return Report(e.Token.Line, "at end", e.Msg)
	}
	return Report(e.Token.Line, fmt.Sprintf("at '%s'", e.Token.Lexeme), e.Msg)
}

// RuntimeError is an execution failure. Token is the blameworthy token when
// one is known (natives may fail without one).
type RuntimeError struct {
	Token *Token
	Msg   string
}

func (e *RuntimeError) Error() string {
	if e.Token == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Token.Line)
}

// LexErrorList batches every lexical diagnostic of one scan into a single
// error value, so callers can treat "the source did not lex" as one failure
// while still reporting each line.
type LexErrorList []*LexError

func (l LexErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// ParseErrorList batches parse diagnostics the same way.
type ParseErrorList []*ParseError

func (l ParseErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// signal is what statement execution produces: nil for normal completion, or
// one of exactly three variants. Loops intercept breakSignal, call invocation
// intercepts returnSignal, and only top-level execution stops a
// *RuntimeError.
type signal interface{ isSignal() }

type breakSignal struct{}

type returnSignal struct {
	Value Value
}

func (breakSignal) isSignal()   {}
func (returnSignal) isSignal()  {}
func (*RuntimeError) isSignal() {}

func runtimeErr(tok Token, msg string) *RuntimeError {
	t := tok
	return &RuntimeError{Token: &t, Msg: msg}
}
