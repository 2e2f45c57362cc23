// interpreter_test.go
package izanami

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// runSrc executes src with captured stdout and the given stdin text.
func runSrc(t *testing.T, src, stdin string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ip := NewInterpreterIO(&out, strings.NewReader(stdin))
	err := ip.Run(src)
	return out.String(), err
}

func wantOutput(t *testing.T, src, want string) {
	t.Helper()
	got, err := runSrc(t, src, "")
	if err != nil {
		t.Fatalf("source:\n%s\nunexpected error: %v", src, err)
	}
	if got != want {
		t.Fatalf("source:\n%s\ngot output:\n%q\nwant:\n%q", src, got, want)
	}
}

func wantRuntimeError(t *testing.T, src, wantMsg string) *RuntimeError {
	t.Helper()
	_, err := runSrc(t, src, "")
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) {
		t.Fatalf("source:\n%s\ngot %T (%v), want *RuntimeError", src, err, err)
	}
	if rtErr.Msg != wantMsg {
		t.Fatalf("source:\n%s\ngot message %q, want %q", src, rtErr.Msg, wantMsg)
	}
	return rtErr
}

func Test_Interp_Arithmetic(t *testing.T) {
	wantOutput(t, "print 1 + 2 * 3;", "7.00\n")
	wantOutput(t, "print (1 + 2) * 3;", "9.00\n")
	wantOutput(t, "print 10 - 4 / 2;", "8.00\n")
	wantOutput(t, "print -(3);", "-3.00\n")
}

func Test_Interp_PrintForms(t *testing.T) {
	wantOutput(t, "print nil;", "nil\n")
	wantOutput(t, "print true;", "true\n")
	wantOutput(t, "print !nil;", "true\n")
	wantOutput(t, `print "hi";`, "hi\n")
	wantOutput(t, "print 0;", "0.00\n")
	wantOutput(t, "fun f() {} print f;", "<fn f>\n")
	wantOutput(t, "print clock;", "<fn clock>\n")
}

func Test_Interp_StringConcat_MinimalNumberForm(t *testing.T) {
	wantOutput(t, `print 1 + "a";`, "1a\n")
	wantOutput(t, `print "a" + 1.5;`, "a1.5\n")
	wantOutput(t, `print "a" + "b";`, "ab\n")
	wantOutput(t, `print "x" + nil;`, "xnil\n")
	wantOutput(t, `print "b" + true;`, "btrue\n")
}

func Test_Interp_Equality_TotalAcrossKinds(t *testing.T) {
	wantOutput(t, `print "a" == 1;`, "false\n")
	wantOutput(t, "print nil == nil;", "true\n")
	wantOutput(t, "print nil == false;", "false\n")
	wantOutput(t, "print 1 == 1;", "true\n")
	wantOutput(t, `print "a" != "b";`, "true\n")
}

func Test_Interp_Truthiness(t *testing.T) {
	// Only nil and false are falsy; zero and "" are truthy.
	wantOutput(t, `print 0 ? "t" : "f";`, "t\n")
	wantOutput(t, `print "" ? "t" : "f";`, "t\n")
	wantOutput(t, `print nil ? "t" : "f";`, "f\n")
	wantOutput(t, `print false ? "t" : "f";`, "f\n")
}

func Test_Interp_LogicalOperatorsYieldOperands(t *testing.T) {
	wantOutput(t, `print "hi" or 2;`, "hi\n")
	wantOutput(t, "print nil or 2;", "2.00\n")
	wantOutput(t, "print nil and 2;", "nil\n")
	wantOutput(t, "print 1 and 2;", "2.00\n")
}

func Test_Interp_ShortCircuitSkipsRightSide(t *testing.T) {
	// The right operand references an undefined variable; short-circuiting
	// must keep it from evaluating.
	wantOutput(t, "print true or boom;", "true\n")
	wantOutput(t, "print false and boom;", "false\n")
}

func Test_Interp_TernaryEvaluatesOneBranch(t *testing.T) {
	wantOutput(t, "var x = 0; true ? x = 1 : (x = 2); print x;", "1.00\n")
	wantOutput(t, "var x = 0; false ? x = 1 : (x = 2); print x;", "2.00\n")
}

func Test_Interp_CommaEvaluatesLeftForEffect(t *testing.T) {
	wantOutput(t, "var x = 0; print (x = 5, x + 1);", "6.00\n")
}

func Test_Interp_BlockScopingAndShadowing(t *testing.T) {
	src := `
var a = 1;
{
  var a = 2;
  print a;
}
print a;
`
	wantOutput(t, src, "2.00\n1.00\n")
}

func Test_Interp_AssignmentWalksOutward(t *testing.T) {
	src := `
var a = 1;
{
  a = 2;
}
print a;
`
	wantOutput(t, src, "2.00\n")
}

func Test_Interp_AssignmentYieldsValue(t *testing.T) {
	wantOutput(t, "var a = 1; print a = 3;", "3.00\n")
}

func Test_Interp_UninitializedVsUndefined(t *testing.T) {
	wantRuntimeError(t, "var x; print x;", "Uninitialized variable x.")
	wantRuntimeError(t, "print y;", "Undefined variable y.")
	wantRuntimeError(t, "z = 1;", "Undefined variable z.")
}

func Test_Interp_UninitializedBecomesUsableAfterAssignment(t *testing.T) {
	wantOutput(t, "var x; x = 7; print x;", "7.00\n")
}

func Test_Interp_WhileAndBreak(t *testing.T) {
	src := `
var i = 0;
while (true) {
  if (i > 0) break;
  print i;
  i = i + 1;
}
`
	wantOutput(t, src, "0.00\n")
}

func Test_Interp_ForLoop(t *testing.T) {
	wantOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0.00\n1.00\n2.00\n")
}

func Test_Interp_BreakExitsInnermostLoopOnly(t *testing.T) {
	src := `
for (var i = 0; i < 2; i = i + 1) {
  for (var j = 0; j < 10; j = j + 1) {
    if (j == 1) break;
    print i + j;
  }
}
`
	wantOutput(t, src, "0.00\n1.00\n")
}

func Test_Interp_FunctionCallAndReturn(t *testing.T) {
	src := `
fun add(a, b) {
  return a + b;
}
print add(1, 2);
`
	wantOutput(t, src, "3.00\n")
}

func Test_Interp_ReturnWithoutValueYieldsNil(t *testing.T) {
	wantOutput(t, "fun f() { return; } print f();", "nil\n")
	wantOutput(t, "fun g() {} print g();", "nil\n")
}

func Test_Interp_ReturnUnwindsNestedBlocksAndLoops(t *testing.T) {
	src := `
fun find() {
  for (var i = 0; i < 100; i = i + 1) {
    if (i == 3) {
      return i;
    }
  }
}
print find();
`
	wantOutput(t, src, "3.00\n")
}

func Test_Interp_Recursion(t *testing.T) {
	src := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	wantOutput(t, src, "55.00\n")
}

func Test_Interp_ClosureCapturesDefiningFrame(t *testing.T) {
	src := `
fun makeCounter() {
  var count = 0;
  fun inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
var c = makeCounter();
print c();
print c();
`
	wantOutput(t, src, "1.00\n2.00\n")
}

func Test_Interp_ClosuresAreIndependent(t *testing.T) {
	src := `
fun makeCounter() {
  var count = 0;
  fun inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
var a = makeCounter();
var b = makeCounter();
a();
a();
print a();
print b();
`
	wantOutput(t, src, "3.00\n1.00\n")
}

func Test_Interp_FunctionsAreValues(t *testing.T) {
	src := `
fun twice(f, x) {
  return f(f(x));
}
fun inc(n) { return n + 1; }
print twice(inc, 0);
`
	wantOutput(t, src, "2.00\n")
}

func Test_Interp_TypeErrors(t *testing.T) {
	wantRuntimeError(t, `print 1 - "a";`, "Operands must be numbers")
	wantRuntimeError(t, `print "a" < "b";`, "Operands must be numbers")
	wantRuntimeError(t, `print -"a";`, "Operand must be a number")
	wantRuntimeError(t, "print 1 + nil;", "Operands must be two numbers or two strings")
}

func Test_Interp_CallErrors(t *testing.T) {
	wantRuntimeError(t, `"not a function"();`, "Can only call functions and classes")
	wantRuntimeError(t, "fun f(a) {} f(1, 2);", "Expected 1 arguments but got 2.")
	wantRuntimeError(t, "fun g(a, b) {} g(1);", "Expected 2 arguments but got 1.")
}

func Test_Interp_RuntimeErrorCarriesLine(t *testing.T) {
	rtErr := wantRuntimeError(t, "\n\nprint boom;", "Undefined variable boom.")
	if rtErr.Token == nil || rtErr.Token.Line != 3 {
		t.Fatalf("error token = %v, want line 3", rtErr.Token)
	}
	if got := rtErr.Error(); got != "Undefined variable boom.\n[line 3]" {
		t.Fatalf("rendered error = %q", got)
	}
}

func Test_Interp_RuntimeErrorStopsExecution(t *testing.T) {
	got, err := runSrc(t, "print 1; print boom; print 2;", "")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if got != "1.00\n" {
		t.Fatalf("output = %q, want only the first print", got)
	}
}

func Test_Interp_ErrorStageClassification(t *testing.T) {
	_, err := runSrc(t, `"unterminated`, "")
	if _, ok := err.(LexErrorList); !ok {
		t.Fatalf("got %T, want LexErrorList", err)
	}
	_, err = runSrc(t, "var ;", "")
	if _, ok := err.(ParseErrorList); !ok {
		t.Fatalf("got %T, want ParseErrorList", err)
	}
	_, err = runSrc(t, "boom;", "")
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("got %T, want *RuntimeError", err)
	}
}

func Test_Interp_EvaluationIsDeterministic(t *testing.T) {
	src := "print (1 + 2) * 3 - 4 / 8;"
	var out bytes.Buffer
	ip := NewInterpreterIO(&out, strings.NewReader(""))
	if err := ip.Run(src); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := out.String()
	out.Reset()
	if err := ip.Run(src); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.String() != first {
		t.Fatalf("second evaluation differs: %q vs %q", first, out.String())
	}
}

func Test_Interp_GlobalsPersistAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterpreterIO(&out, strings.NewReader(""))
	if err := ip.Run("var x = 40;"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := ip.Run("print x + 2;"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.String() != "42.00\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func Test_Interp_GlobalsPersistPastRuntimeError(t *testing.T) {
	var out bytes.Buffer
	ip := NewInterpreterIO(&out, strings.NewReader(""))
	if err := ip.Run("var x = 1; boom;"); err == nil {
		t.Fatal("expected a runtime error")
	}
	if err := ip.Run("print x;"); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if out.String() != "1.00\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func Test_Interp_NativeClock(t *testing.T) {
	wantOutput(t, "print clock() > 0;", "true\n")
	wantRuntimeError(t, "clock(1);", "Expected 0 arguments but got 1.")
}

func Test_Interp_NativeReadInput(t *testing.T) {
	got, err := runSrc(t, `print "got: " + read_input();`, "hello\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "got: hello\n\n" {
		t.Fatalf("output = %q", got)
	}
}

func Test_Interp_NativesCanBeShadowed(t *testing.T) {
	wantOutput(t, `fun clock() { return 7; } print clock();`, "7.00\n")
}

func Test_Interp_DivisionByZeroFollowsIEEE(t *testing.T) {
	wantOutput(t, "print 1 / 0 > 1000000;", "true\n")
}

func Test_Interp_FunctionBindsInCurrentScope(t *testing.T) {
	src := `
{
  fun local() { return 1; }
  print local();
}
print boomIfGlobal();
`
	got, err := runSrc(t, src, "")
	if got != "1.00\n" {
		t.Fatalf("output = %q", got)
	}
	var rtErr *RuntimeError
	if !errors.As(err, &rtErr) || rtErr.Msg != "Undefined variable boomIfGlobal." {
		t.Fatalf("err = %v, want undefined boomIfGlobal", err)
	}
}
