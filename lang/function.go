package lang

import (
	"fmt"

	"github.com/dsocolobsky/lox/parser"
)

// NativeFunc is the host implementation of a native function.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// Native is a built-in function implemented in Go.
type Native struct {
	Name  string
	arity int
	fn    NativeFunc
}

// NewNative wraps fn as a callable taking exactly arity arguments.
func NewNative(name string, arity int, fn NativeFunc) *Native {
	return &Native{
		Name:  name,
		arity: arity,
		fn:    fn,
	}
}

func (n *Native) Arity() int {
	return n.arity
}

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.fn(in, args)
}

func (n *Native) String() string {
	return "<native fn>"
}

// Function is a user-defined function or method together with the
// environment it closes over.
type Function struct {
	decl          *parser.FunctionStmt
	closure       *Env
	isInitializer bool
}

// NewFunction creates a closure over env.
func NewFunction(decl *parser.FunctionStmt, env *Env, isInitializer bool) *Function {
	return &Function{
		decl:          decl,
		closure:       env,
		isInitializer: isInitializer,
	}
}

// Name returns the declared function name.
func (f *Function) Name() string {
	return f.decl.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Call binds the arguments in a fresh environment whose parent is the
// closure and runs the body there. Initializers always yield the bound
// instance.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnv(f.closure)
	for i, param := range f.decl.Params {
		env.Define(param.Lexeme, args[i])
	}
	result, err := in.executeBlock(f.decl.Body, env)
	if err != nil {
		return Value{}, err
	}
	if f.isInitializer {
		this, _ := f.closure.GetAt(0, "this")
		return this, nil
	}
	if result.returning {
		return result.value, nil
	}
	return Nil, nil
}

// Bind returns a copy of the method whose closure defines "this" as inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnv(f.closure)
	env.Define("this", InstanceValue(inst))
	return NewFunction(f.decl, env, f.isInitializer)
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name())
}
