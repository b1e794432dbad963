package lang

import (
	"fmt"

	"github.com/dsocolobsky/lox/parser"
)

// Class is a runtime class value. Calling it constructs an instance.
type Class struct {
	Name       string
	Superclass *Class // may be nil
	methods    map[string]*Function
}

// NewClass creates a class from its methods.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	if methods == nil {
		methods = make(map[string]*Function)
	}
	return &Class{
		Name:       name,
		Superclass: superclass,
		methods:    methods,
	}
}

// FindMethod looks name up on the class, then along its superclass chain.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if m, ok := class.methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity is the arity of the initializer, or zero without one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return Value{}, err
		}
	}
	return InstanceValue(inst), nil
}

func (c *Class) String() string {
	return c.Name
}

// Instance is an object created by calling a class. Fields are created on
// first assignment; methods live on the class and are bound on access.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance allocates an instance with no fields.
func NewInstance(class *Class) *Instance {
	return &Instance{
		class:  class,
		fields: make(map[string]Value),
	}
}

// Class returns the class the instance was created from.
func (i *Instance) Class() *Class {
	return i.class
}

// Get returns a field, or a method bound to the instance.
func (i *Instance) Get(name parser.Token) (Value, error) {
	if val, ok := i.fields[name.Lexeme]; ok {
		return val, nil
	}
	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return FunctionValue(method.Bind(i)), nil
	}
	return Value{}, runtimeErrorf(name, "Undefined property '%s' on instance of %s.", name.Lexeme, i.class.Name)
}

// Set creates or overwrites a field.
func (i *Instance) Set(name parser.Token, val Value) {
	i.fields[name.Lexeme] = val
}

func (i *Instance) String() string {
	return fmt.Sprintf("<instance of %s>", i.class.Name)
}
