package lang

import (
	"math"
	"strconv"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeNative
	TypeFunction
	TypeClass
	TypeInstance
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeNative:
		return "native function"
	case TypeFunction:
		return "function"
	case TypeClass:
		return "class"
	case TypeInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter.
// The zero Value is nil.
type Value struct {
	Type    ValueType
	payload interface{}
}

// Callable is implemented by every value that can be invoked with
// call syntax: natives, user functions and classes.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

// Nil is the single nil value.
var Nil = Value{Type: TypeNil}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// NumberValue constructs a number Value.
func NumberValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// NativeValue wraps a host function.
func NativeValue(n *Native) Value {
	return Value{Type: TypeNative, payload: n}
}

// FunctionValue wraps a user function.
func FunctionValue(f *Function) Value {
	return Value{Type: TypeFunction, payload: f}
}

// ClassValue wraps a class.
func ClassValue(c *Class) Value {
	return Value{Type: TypeClass, payload: c}
}

// InstanceValue wraps an instance.
func InstanceValue(i *Instance) Value {
	return Value{Type: TypeInstance, payload: i}
}

// FromLiteral converts a literal produced by the parser into a Value.
func FromLiteral(lit any) Value {
	switch v := lit.(type) {
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case string:
		return StringValue(v)
	default:
		return Nil
	}
}

func (v Value) Bool() bool {
	b, _ := v.payload.(bool)
	return b
}

func (v Value) Number() float64 {
	f, _ := v.payload.(float64)
	return f
}

func (v Value) Str() string {
	s, _ := v.payload.(string)
	return s
}

func (v Value) Native() *Native {
	n, _ := v.payload.(*Native)
	return n
}

func (v Value) Function() *Function {
	f, _ := v.payload.(*Function)
	return f
}

func (v Value) Class() *Class {
	c, _ := v.payload.(*Class)
	return c
}

func (v Value) Instance() *Instance {
	i, _ := v.payload.(*Instance)
	return i
}

// Callable returns the value as a Callable if it is a native, a function or
// a class.
func (v Value) Callable() (Callable, bool) {
	switch v.Type {
	case TypeNative:
		return v.Native(), true
	case TypeFunction:
		return v.Function(), true
	case TypeClass:
		return v.Class(), true
	}
	return nil, false
}

// IsTruthy reports whether v counts as true in a condition.
// Only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares two values without implicit conversion between types.
// Objects compare by identity.
func Equal(a, b Value) bool {
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeNumber:
		return a.Number() == b.Number()
	case TypeString:
		return a.Str() == b.Str()
	default:
		return a.payload == b.payload
	}
}

func (v Value) String() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		return strconv.FormatBool(v.Bool())
	case TypeNumber:
		return formatNumber(v.Number())
	case TypeString:
		return v.Str()
	case TypeNative:
		return "<native fn>"
	case TypeFunction:
		return v.Function().String()
	case TypeClass:
		return v.Class().String()
	case TypeInstance:
		return v.Instance().String()
	default:
		return "<unknown>"
	}
}

// formatNumber prints integral values with a trailing ".0".
func formatNumber(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) {
		return s + ".0"
	}
	return s
}
