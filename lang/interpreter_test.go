package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dsocolobsky/lox/parser"
)

func run(t *testing.T, in *Interpreter, out *bytes.Buffer, src string) (string, error) {
	t.Helper()
	stmts, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if err := Resolve(stmts, in); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	out.Reset()
	err = in.Interpret(stmts)
	return out.String(), err
}

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	return run(t, NewInterpreter(WithOutput(&out)), &out, src)
}

func expectOutput(t *testing.T, src string, lines ...string) {
	t.Helper()
	got, err := runProgram(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	want := strings.Join(lines, "\n") + "\n"
	if len(lines) == 0 {
		want = ""
	}
	if got != want {
		t.Fatalf("expected output %q, got %q", want, got)
	}
}

func expectRuntimeError(t *testing.T, src, want string) string {
	t.Helper()
	out, err := runProgram(t, src)
	if err == nil {
		t.Fatalf("expected runtime error %q", want)
	}
	if !errors.Is(err, ErrRuntime) {
		t.Fatalf("expected ErrRuntime, got %T %v", err, err)
	}
	if got := err.Error(); got != want {
		t.Fatalf("expected error %q, got %q", want, got)
	}
	return out
}

func TestArithmeticAndPrinting(t *testing.T) {
	expectOutput(t, `
print 1 + 2 * 3;
print (1 + 2) * 3;
print 10 / 4;
print -(3 - 5);
print "foo" + "bar";
print 1 == 1.0;
print "a" != "a";
print nil == false;
print !nil;
print 3 >= 3;
print 1 / 0;
`, "7.0", "9.0", "2.5", "2.0", "foobar", "true", "false", "false", "true", "true", "+Inf")
}

func TestShortCircuit(t *testing.T) {
	expectOutput(t, `
print false and (1/0);
print nil or "default";
print "left" or undefinedName;
print 1 and 2;
`, "false", "default", "left", "2.0")

	// The right operand is not evaluated, so the undefined call never runs.
	expectOutput(t, `var a = "ok"; false and missing(); print a;`, "ok")
}

func TestScopesAndShadowing(t *testing.T) {
	expectOutput(t, `
var a = 1;
{
  var a = 3;
  print a;
}
print a;
`, "3.0", "1.0")
}

func TestClosureBindsAtDeclaration(t *testing.T) {
	expectOutput(t, `
var a = "global";
{
  fun showA() {
    print a;
  }

  showA();
  var a = "block";
  showA();
}
`, "global", "global")
}

func TestClosureCounter(t *testing.T) {
	expectOutput(t, `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    print i;
  }
  return count;
}
var counter = makeCounter();
counter();
counter();
`, "1.0", "2.0")
}

func TestControlFlow(t *testing.T) {
	expectOutput(t, `
for (var i = 0; i < 3; i = i + 1) print i;
var n = 0;
while (n < 2) { n = n + 1; }
print n;
if (n > 5) print "big"; else print "small";
if (nil) print "never";
`, "0.0", "1.0", "2.0", "2.0", "small")
}

func TestRecursionAndReturn(t *testing.T) {
	expectOutput(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 2) + fib(n - 1);
}
print fib(10);

fun early() {
  while (true) {
    return "out";
  }
}
print early();

fun nothing() {}
print nothing();
print fib;
`, "55.0", "out", "nil", "<fn fib>")
}

func TestClassesAndInstances(t *testing.T) {
	expectOutput(t, `
class Bagel {
  init(topping) {
    this.topping = topping;
  }
  describe() {
    return "bagel with " + this.topping;
  }
}
var b = Bagel("seeds");
print Bagel;
print b;
print b.describe();
var m = b.describe;
b.topping = "salt";
print m();
print b.init("cheese") == b;
print b.topping;
`, "Bagel", "<instance of Bagel>", "bagel with seeds", "bagel with salt", "true", "cheese")
}

func TestFieldsShadowMethods(t *testing.T) {
	expectOutput(t, `
class A { m() { return "method"; } }
var a = A();
a.m = "field";
print a.m;
`, "field")
}

func TestInitializerEarlyReturn(t *testing.T) {
	expectOutput(t, `
class A {
  init() {
    this.x = 1;
    return;
    this.x = 2;
  }
}
print A().x;
`, "1.0")
}

func TestInheritanceAndSuper(t *testing.T) {
	expectOutput(t, `
class A {
  method() { print "A method"; }
}
class B < A {
  method() { print "B method"; }
  test() { super.method(); }
}
class C < B {}
C().test();
`, "A method")

	expectOutput(t, `
class Doughnut {
  cook() { print "Fry until golden brown."; }
}
class BostonCream < Doughnut {
  cook() {
    super.cook();
    print "Pipe full of custard.";
  }
}
BostonCream().cook();
`, "Fry until golden brown.", "Pipe full of custard.")
}

func TestSuperThroughEmptyIntermediateClass(t *testing.T) {
	expectOutput(t, `class A{ say(){print "A";} } class B<A{ say(){ super.say(); print "B"; } } class C<B{} class D<C{ say(){ print "D"; super.say(); } } D().say();`,
		"D", "A", "B")
}

func TestInheritedInitializer(t *testing.T) {
	expectOutput(t, `
class Base { init(n) { this.n = n; } }
class Derived < Base {}
print Derived(4).n;
`, "4.0")
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print -\"x\";", "Operand must be a number.\n[line 1]"},
		{"print 1 + \"x\";", "Operands must be two numbers or two strings.\n[line 1]"},
		{"print 1 < \"x\";", "Operands must be numbers.\n[line 1]"},
		{"print nope;", "Undefined variable 'nope'.\n[line 1]"},
		{"nope = 1;", "Undefined variable 'nope'.\n[line 1]"},
		{"\"str\"();", "Can only call functions and classes.\n[line 1]"},
		{"fun f(a) {}\nf(1, 2);", "Expected 1 arguments but got 2.\n[line 2]"},
		{"class A {}\nA(1);", "Expected 0 arguments but got 1.\n[line 2]"},
		{"var x = 1; print x.y;", "Only instances have properties.\n[line 1]"},
		{"var x = 1; x.y = 2;", "Only instances have fields.\n[line 1]"},
		{"class A {}\nprint A().missing;", "Undefined property 'missing' on instance of A.\n[line 2]"},
		{"var NotAClass = 1;\nclass B < NotAClass {}", "Superclass must be a class.\n[line 2]"},
		{"class A {}\nclass B < A { m() { super.m(); } }\nB().m();", "Undefined method 'm' on superclass A.\n[line 2]"},
	}
	for _, tt := range tests {
		expectRuntimeError(t, tt.src, tt.want)
	}
}

func TestRuntimeErrorStopsExecution(t *testing.T) {
	out := expectRuntimeError(t, `
print "before";
print 1 - nil;
print "after";
`, "Operands must be numbers.\n[line 3]")
	if out != "before\n" {
		t.Fatalf("expected only output before the error, got %q", out)
	}
}

func TestArityMismatchDoesNotRunBody(t *testing.T) {
	out := expectRuntimeError(t, `
fun f(a, b) { print "ran"; }
f(1);
`, "Expected 2 arguments but got 1.\n[line 3]")
	if out != "" {
		t.Fatalf("function body must not run, got %q", out)
	}
}

func TestRuntimeErrorToken(t *testing.T) {
	_, err := runProgram(t, "\n\nprint nope;")
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if rerr.Token.Lexeme != "nope" || rerr.Token.Line != 3 {
		t.Fatalf("unexpected error token %v", rerr.Token)
	}
}

func TestNativeFunction(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(WithOutput(&out))
	in.Globals.Define("twice", NativeValue(NewNative("twice", 1, func(_ *Interpreter, args []Value) (Value, error) {
		return NumberValue(args[0].Number() * 2), nil
	})))
	in.Globals.Define("fail", NativeValue(NewNative("fail", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return Value{}, errors.New("native failure")
	})))

	got, err := run(t, in, &out, "print twice(21);")
	if err != nil || got != "42.0\n" {
		t.Fatalf("expected 42.0, got %q (err: %v)", got, err)
	}

	_, err = run(t, in, &out, "fail();")
	if !errors.Is(err, ErrRuntime) || err.Error() != "native failure\n[line 1]" {
		t.Fatalf("expected native failure wrapped as runtime error, got %v", err)
	}
}

func TestInterpreterKeepsGlobalsAcrossRuns(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(WithOutput(&out))

	if _, err := run(t, in, &out, "var count = 1; fun bump() { count = count + 1; }"); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if _, err := run(t, in, &out, "{ var local = 1; print local + nil; }"); err == nil {
		t.Fatalf("expected runtime error in second run")
	}
	got, err := run(t, in, &out, "bump(); print count;")
	if err != nil || got != "2.0\n" {
		t.Fatalf("expected globals to survive a failed run, got %q (err: %v)", got, err)
	}
}

func TestRunawayRecursion(t *testing.T) {
	var out bytes.Buffer
	in := NewInterpreter(WithOutput(&out))

	if _, err := run(t, in, &out, "var kept = \"still here\";"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	_, err := run(t, in, &out, "fun f(n) { return f(n + 1); }\nf(0);")
	if !errors.Is(err, ErrRuntime) {
		t.Fatalf("expected runtime error, got %v", err)
	}
	if got := err.Error(); got != "Stack overflow.\n[line 1]" {
		t.Fatalf("expected stack overflow error, got %q", got)
	}

	got, err := run(t, in, &out, `
fun count(n) {
  if (n == 0) return kept;
  return count(n - 1);
}
print count(500);
`)
	if err != nil || got != "still here\n" {
		t.Fatalf("expected interpreter to stay usable, got %q (err: %v)", got, err)
	}
}
