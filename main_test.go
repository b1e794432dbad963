package main

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dsocolobsky/lox/runtime"
)

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		src  string
		more bool
	}{
		{"print 1;", false},
		{"fun f() {", true},
		{"class A {\n  m() {\n", true},
		{"print \"multi\nline", true},
		{"var x = ", true},
		{"print );", false},
		{"1 = 2;", false},
	}
	for _, tt := range tests {
		if got := needsMoreInput(tt.src); got != tt.more {
			t.Fatalf("%q: expected %v, got %v", tt.src, tt.more, got)
		}
	}
}

func TestExitCode(t *testing.T) {
	runner := runtime.NewRunner(runtime.WithStdout(&bytes.Buffer{}))

	if code := exitCode(runner.RunString("print ;")); code != exitDataErr {
		t.Fatalf("expected %d for syntax error, got %d", exitDataErr, code)
	}
	if code := exitCode(runner.RunString("return;")); code != exitDataErr {
		t.Fatalf("expected %d for resolution error, got %d", exitDataErr, code)
	}
	if code := exitCode(runner.RunString("print -nil;")); code != exitSoftware {
		t.Fatalf("expected %d for runtime error, got %d", exitSoftware, code)
	}
	if code := exitCode(errors.New("disk on fire")); code != exitIOErr {
		t.Fatalf("expected %d for other errors, got %d", exitIOErr, code)
	}
}

func TestBufferedREPLJoinsContinuationLines(t *testing.T) {
	var out bytes.Buffer
	runner := runtime.NewRunner(runtime.WithStdout(&out))

	input := "var a = 1;\nfun show() {\n  print a;\n}\nshow();\nprint missing;\na = 2;\nshow();"
	runBufferedREPL(runner, bufio.NewReader(strings.NewReader(input)))

	if got := out.String(); got != "1.0\n2.0\n" {
		t.Fatalf("expected globals to persist across chunks, got %q", got)
	}
}
