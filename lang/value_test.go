package lang

import (
	"math"
	"testing"

	"github.com/dsocolobsky/lox/parser"
)

func TestValueString(t *testing.T) {
	fn := NewFunction(&parser.FunctionStmt{Name: parser.Token{Lexeme: "add"}}, NewEnv(nil), false)
	class := NewClass("Bagel", nil, nil)

	tests := []struct {
		val  Value
		want string
	}{
		{Nil, "nil"},
		{Value{}, "nil"},
		{BoolValue(true), "true"},
		{BoolValue(false), "false"},
		{NumberValue(7), "7.0"},
		{NumberValue(-3), "-3.0"},
		{NumberValue(0), "0.0"},
		{NumberValue(2.5), "2.5"},
		{NumberValue(1e23), "100000000000000000000000.0"},
		{NumberValue(0.1 + 0.2), "0.30000000000000004"},
		{NumberValue(math.Inf(1)), "+Inf"},
		{StringValue("hello"), "hello"},
		{NativeValue(NewNative("clock", 0, nil)), "<native fn>"},
		{FunctionValue(fn), "<fn add>"},
		{ClassValue(class), "Bagel"},
		{InstanceValue(NewInstance(class)), "<instance of Bagel>"},
	}
	for _, tt := range tests {
		if got := tt.val.String(); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		val  Value
		want bool
	}{
		{Nil, false},
		{BoolValue(false), false},
		{BoolValue(true), true},
		{NumberValue(0), true},
		{StringValue(""), true},
		{InstanceValue(NewInstance(NewClass("A", nil, nil))), true},
	}
	for _, tt := range tests {
		if got := IsTruthy(tt.val); got != tt.want {
			t.Fatalf("IsTruthy(%v): expected %v, got %v", tt.val, tt.want, got)
		}
	}
}

func TestEqual(t *testing.T) {
	class := NewClass("A", nil, nil)
	a, b := NewInstance(class), NewInstance(class)

	tests := []struct {
		x, y Value
		want bool
	}{
		{Nil, Nil, true},
		{Nil, BoolValue(false), false},
		{NumberValue(1), NumberValue(1), true},
		{NumberValue(1), StringValue("1"), false},
		{StringValue("ab"), StringValue("ab"), true},
		{BoolValue(true), BoolValue(true), true},
		{NumberValue(math.NaN()), NumberValue(math.NaN()), false},
		{InstanceValue(a), InstanceValue(a), true},
		{InstanceValue(a), InstanceValue(b), false},
		{ClassValue(class), ClassValue(class), true},
	}
	for _, tt := range tests {
		if got := Equal(tt.x, tt.y); got != tt.want {
			t.Fatalf("Equal(%v, %v): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestFromLiteral(t *testing.T) {
	if v := FromLiteral(3.0); v.Type != TypeNumber || v.Number() != 3 {
		t.Fatalf("expected number 3, got %v", v)
	}
	if v := FromLiteral("s"); v.Type != TypeString || v.Str() != "s" {
		t.Fatalf("expected string s, got %v", v)
	}
	if v := FromLiteral(true); v.Type != TypeBool || !v.Bool() {
		t.Fatalf("expected true, got %v", v)
	}
	if v := FromLiteral(nil); v.Type != TypeNil {
		t.Fatalf("expected nil, got %v", v)
	}
}

func TestCallable(t *testing.T) {
	if _, ok := NumberValue(1).Callable(); ok {
		t.Fatalf("numbers are not callable")
	}
	if _, ok := InstanceValue(NewInstance(NewClass("A", nil, nil))).Callable(); ok {
		t.Fatalf("instances are not callable")
	}
	fn, ok := ClassValue(NewClass("A", nil, nil)).Callable()
	if !ok || fn.Arity() != 0 {
		t.Fatalf("expected class without init to be callable with arity 0")
	}
}
