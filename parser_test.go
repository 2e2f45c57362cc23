// parser_test.go
package izanami

import (
	"strings"
	"testing"
)

func parse(t *testing.T, src string) []Stmt {
	t.Helper()
	tokens, lexErrs := NewLexer(src).Scan()
	if len(lexErrs) > 0 {
		t.Fatalf("lex errors: %v", LexErrorList(lexErrs))
	}
	stmts, errs := NewParser(tokens).Parse()
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", ParseErrorList(errs))
	}
	return stmts
}

func parseErrs(t *testing.T, src string) []*ParseError {
	t.Helper()
	tokens, lexErrs := NewLexer(src).Scan()
	if len(lexErrs) > 0 {
		t.Fatalf("lex errors: %v", LexErrorList(lexErrs))
	}
	_, errs := NewParser(tokens).Parse()
	return errs
}

// exprString parses src as a lone expression statement and renders it.
func exprString(t *testing.T, src string) string {
	t.Helper()
	stmts := parse(t, src+";")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	es, ok := stmts[0].(*ExpressionStmt)
	if !ok {
		t.Fatalf("got %T, want *ExpressionStmt", stmts[0])
	}
	return FormatExpr(es.Expression)
}

func wantExpr(t *testing.T, src, want string) {
	t.Helper()
	if got := exprString(t, src); got != want {
		t.Fatalf("source %q:\ngot  %s\nwant %s", src, got, want)
	}
}

func Test_Parser_Precedence_MulOverAdd(t *testing.T) {
	wantExpr(t, "1 + 2 * 3", "(+ 1 (* 2 3))")
}

func Test_Parser_Precedence_Grouping(t *testing.T) {
	wantExpr(t, "(1 + 2) * 3", "(* (group (+ 1 2)) 3)")
	wantExpr(t, "-123 * (45.67)", "(* (- 123) (group 45.67))")
}

func Test_Parser_Precedence_ComparisonOverEquality(t *testing.T) {
	wantExpr(t, "1 < 2 == 3 > 4", "(== (< 1 2) (> 3 4))")
}

func Test_Parser_Precedence_LogicalOverTernary(t *testing.T) {
	wantExpr(t, "a or b ? c : d", "(?: (or a b) c d)")
}

func Test_Parser_Ternary_RightAssociative(t *testing.T) {
	wantExpr(t, "a ? b : c ? d : e", "(?: a b (?: c d e))")
}

func Test_Parser_Comma_LeftAssociative_Loosest(t *testing.T) {
	wantExpr(t, "1, 2, 3", "(, (, 1 2) 3)")
	wantExpr(t, "a = 1, b = 2", "(, (= a 1) (= b 2))")
}

func Test_Parser_Assignment_RightAssociative(t *testing.T) {
	wantExpr(t, "a = b = 1", "(= a (= b 1))")
}

func Test_Parser_Unary_Nested(t *testing.T) {
	wantExpr(t, "!!true", "(! (! true))")
	wantExpr(t, "--1", "(- (- 1))")
}

func Test_Parser_Call_ArgsAtAssignmentPrecedence(t *testing.T) {
	// Commas separate arguments; a comma expression needs parentheses.
	wantExpr(t, "f(1, 2)", "(call f 1 2)")
	wantExpr(t, "f((1, 2))", "(call f (group (, 1 2)))")
	wantExpr(t, "f(a = 1)", "(call f (= a 1))")
}

func Test_Parser_Call_Curried(t *testing.T) {
	wantExpr(t, "f(1)(2)", "(call (call f 1) 2)")
}

func Test_Parser_InvalidAssignmentTarget(t *testing.T) {
	errs := parseErrs(t, "1 = 2;")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), ParseErrorList(errs))
	}
	if errs[0].Msg != "Invalid assignment target." {
		t.Fatalf("message = %q", errs[0].Msg)
	}
	if !strings.Contains(errs[0].Error(), "at '='") {
		t.Fatalf("error should point at '=': %s", errs[0].Error())
	}
}

func Test_Parser_MissingLeftOperand(t *testing.T) {
	for _, src := range []string{"* 3;", "== 1;", "< 2;", "+ 4;"} {
		errs := parseErrs(t, src)
		if len(errs) != 1 {
			t.Fatalf("source %q: got %d errors, want 1: %v", src, len(errs), ParseErrorList(errs))
		}
		if errs[0].Msg != "Missing left-hand operand." {
			t.Fatalf("source %q: message = %q", src, errs[0].Msg)
		}
	}
}

func Test_Parser_BreakOutsideLoop(t *testing.T) {
	errs := parseErrs(t, "break;")
	if len(errs) != 1 || errs[0].Msg != "Must be inside a loop to use 'break'." {
		t.Fatalf("errors = %v", ParseErrorList(errs))
	}
}

func Test_Parser_BreakInsideLoop(t *testing.T) {
	parse(t, "while (true) break;")
	parse(t, "for (;;) { break; }")
}

func Test_Parser_BreakDoesNotCrossFunctionBoundary(t *testing.T) {
	errs := parseErrs(t, "while (true) { fun f() { break; } }")
	if len(errs) != 1 || errs[0].Msg != "Must be inside a loop to use 'break'." {
		t.Fatalf("errors = %v", ParseErrorList(errs))
	}
}

func Test_Parser_ReturnOutsideFunction(t *testing.T) {
	for _, src := range []string{"return 1;", "{ return; }", "while (true) return;"} {
		errs := parseErrs(t, src)
		if len(errs) != 1 || errs[0].Msg != "Can't return from top-level code." {
			t.Fatalf("source %q: errors = %v", src, ParseErrorList(errs))
		}
	}
}

func Test_Parser_ReturnInsideFunction(t *testing.T) {
	parse(t, "fun f() { return 1; }")
	parse(t, "fun outer() { fun inner() { return; } return inner; }")
	parse(t, "fun g() { while (true) return 1; }")
}

func Test_Parser_SynchronizeReportsEachBadStatement(t *testing.T) {
	tokens, _ := NewLexer("var ;\nprint 1;\nvar = 2;\nprint 2;").Scan()
	stmts, errs := NewParser(tokens).Parse()
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), ParseErrorList(errs))
	}
	// Both print statements survived recovery.
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2: %s", len(stmts), FormatProgram(stmts))
	}
}

func Test_Parser_ForDesugarsToWhile(t *testing.T) {
	stmts := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(block (var i 0) (while (< i 3) (block (print i) (expr (= i (+ i 1))))))"
	if got := FormatStmt(stmts[0]); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func Test_Parser_ForWithEmptyClauses(t *testing.T) {
	stmts := parse(t, "for (;;) break;")
	ws, ok := stmts[0].(*WhileStmt)
	if !ok {
		t.Fatalf("got %T, want *WhileStmt", stmts[0])
	}
	lit, ok := ws.Cond.(*LiteralExpr)
	if !ok || !isTruthy(lit.Value) {
		t.Fatalf("empty condition should desugar to true, got %s", FormatExpr(ws.Cond))
	}
}

func Test_Parser_FunctionDeclaration(t *testing.T) {
	stmts := parse(t, "fun add(a, b) { return a + b; }")
	fn, ok := stmts[0].(*FunctionStmt)
	if !ok {
		t.Fatalf("got %T, want *FunctionStmt", stmts[0])
	}
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
		t.Fatalf("fun = %s/%d params", fn.Name.Lexeme, len(fn.Params))
	}
}

func Test_Parser_VarWithoutInitializer(t *testing.T) {
	stmts := parse(t, "var x;")
	vs := stmts[0].(*VarStmt)
	if vs.Initializer != nil {
		t.Fatalf("initializer should be nil, got %s", FormatExpr(vs.Initializer))
	}
}

func Test_Parser_ErrorAtEOF(t *testing.T) {
	errs := parseErrs(t, "print 1")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Error(), "at end") {
		t.Fatalf("error should report at end: %s", errs[0].Error())
	}
}
