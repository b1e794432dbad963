package lang

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dsocolobsky/lox/parser"
)

// Interpreter executes resolved Lox programs.
type Interpreter struct {
	Globals *Env

	env    *Env
	locals map[parser.Expr]int
	out    io.Writer
	depth  int // active Lox calls
}

// maxCallDepth bounds nested calls so runaway recursion surfaces as a
// runtime error instead of exhausting the Go stack.
const maxCallDepth = 4096

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput directs print statements to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.out = w
	}
}

// NewInterpreter constructs an interpreter rooted at a new global environment.
func NewInterpreter(opts ...Option) *Interpreter {
	globals := NewEnv(nil)
	in := &Interpreter{
		Globals: globals,
		env:     globals,
		locals:  make(map[parser.Expr]int),
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Resolve records that expr refers to a binding depth environments above
// the one active when it is evaluated.
func (in *Interpreter) Resolve(expr parser.Expr, depth int) {
	in.locals[expr] = depth
}

// Locals returns the number of resolved local references.
func (in *Interpreter) Locals() int {
	return len(in.locals)
}

// Interpret executes statements in order. A runtime error stops execution
// and is returned; the interpreter stays usable for later programs.
func (in *Interpreter) Interpret(stmts []parser.Stmt) error {
	defer func() {
		in.env = in.Globals
		in.depth = 0
	}()
	for _, stmt := range stmts {
		if _, err := in.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// completion is the outcome of executing a statement: either fall through
// to the next statement or unwind to the enclosing call with a value.
type completion struct {
	returning bool
	value     Value
}

var normal = completion{}

func (in *Interpreter) execute(stmt parser.Stmt) (completion, error) {
	switch s := stmt.(type) {
	case *parser.ExpressionStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err
	case *parser.PrintStmt:
		val, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}
		_, err = fmt.Fprintln(in.out, val.String())
		return normal, err
	case *parser.VarStmt:
		val := Nil
		if s.Initializer != nil {
			var err error
			if val, err = in.evaluate(s.Initializer); err != nil {
				return normal, err
			}
		}
		in.env.Define(s.Name.Lexeme, val)
		return normal, nil
	case *parser.BlockStmt:
		return in.executeBlock(s.Stmts, NewEnv(in.env))
	case *parser.IfStmt:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return normal, err
		}
		if IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normal, nil
	case *parser.WhileStmt:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return normal, err
			}
			if !IsTruthy(cond) {
				return normal, nil
			}
			result, err := in.execute(s.Body)
			if err != nil || result.returning {
				return result, err
			}
		}
	case *parser.FunctionStmt:
		fn := NewFunction(s, in.env, false)
		in.env.Define(s.Name.Lexeme, FunctionValue(fn))
		return normal, nil
	case *parser.ReturnStmt:
		val := Nil
		if s.Value != nil {
			var err error
			if val, err = in.evaluate(s.Value); err != nil {
				return normal, err
			}
		}
		return completion{returning: true, value: val}, nil
	case *parser.ClassStmt:
		return normal, in.executeClass(s)
	default:
		panic(fmt.Sprintf("lang: unexpected statement %T", stmt))
	}
}

// executeBlock runs stmts in env and restores the previous environment
// afterwards, whether the block completes, returns or fails.
func (in *Interpreter) executeBlock(stmts []parser.Stmt, env *Env) (completion, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range stmts {
		result, err := in.execute(stmt)
		if err != nil || result.returning {
			return result, err
		}
	}
	return normal, nil
}

func (in *Interpreter) executeClass(s *parser.ClassStmt) error {
	in.env.Define(s.Name.Lexeme, Nil)

	var superclass *Class
	if s.Superclass != nil {
		val, err := in.evaluate(s.Superclass)
		if err != nil {
			return err
		}
		if val.Type != TypeClass {
			return runtimeErrorf(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = val.Class()
	}

	methodEnv := in.env
	if superclass != nil {
		methodEnv = NewEnv(in.env)
		methodEnv.Define("super", ClassValue(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, methodEnv, m.Name.Lexeme == "init")
	}
	class := NewClass(s.Name.Lexeme, superclass, methods)

	in.env.Assign(s.Name.Lexeme, ClassValue(class))
	return nil
}

func (in *Interpreter) evaluate(expr parser.Expr) (Value, error) {
	switch e := expr.(type) {
	case *parser.LiteralExpr:
		return FromLiteral(e.Value), nil
	case *parser.GroupingExpr:
		return in.evaluate(e.Expr)
	case *parser.UnaryExpr:
		return in.evalUnary(e)
	case *parser.BinaryExpr:
		return in.evalBinary(e)
	case *parser.LogicalExpr:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Value{}, err
		}
		if e.Op.Type == parser.TokenOr {
			if IsTruthy(left) {
				return left, nil
			}
		} else if !IsTruthy(left) {
			return left, nil
		}
		return in.evaluate(e.Right)
	case *parser.VariableExpr:
		return in.lookupVariable(e.Name, e)
	case *parser.AssignExpr:
		val, err := in.evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		if distance, ok := in.locals[e]; ok {
			in.env.AssignAt(distance, e.Name.Lexeme, val)
		} else if !in.Globals.Assign(e.Name.Lexeme, val) {
			return Value{}, runtimeErrorf(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
		}
		return val, nil
	case *parser.CallExpr:
		return in.evalCall(e)
	case *parser.GetExpr:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Value{}, err
		}
		if obj.Type != TypeInstance {
			return Value{}, runtimeErrorf(e.Name, "Only instances have properties.")
		}
		return obj.Instance().Get(e.Name)
	case *parser.SetExpr:
		obj, err := in.evaluate(e.Object)
		if err != nil {
			return Value{}, err
		}
		if obj.Type != TypeInstance {
			return Value{}, runtimeErrorf(e.Name, "Only instances have fields.")
		}
		val, err := in.evaluate(e.Value)
		if err != nil {
			return Value{}, err
		}
		obj.Instance().Set(e.Name, val)
		return val, nil
	case *parser.ThisExpr:
		return in.lookupVariable(e.Keyword, e)
	case *parser.SuperExpr:
		return in.evalSuper(e)
	default:
		panic(fmt.Sprintf("lang: unexpected expression %T", expr))
	}
}

func (in *Interpreter) lookupVariable(name parser.Token, expr parser.Expr) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		if val, ok := in.env.GetAt(distance, name.Lexeme); ok {
			return val, nil
		}
	} else if val, ok := in.Globals.Lookup(name.Lexeme); ok {
		return val, nil
	}
	return Value{}, runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
}

func (in *Interpreter) evalUnary(e *parser.UnaryExpr) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.Op.Type {
	case parser.TokenMinus:
		if right.Type != TypeNumber {
			return Value{}, runtimeErrorf(e.Op, "Operand must be a number.")
		}
		return NumberValue(-right.Number()), nil
	case parser.TokenBang:
		return BoolValue(!IsTruthy(right)), nil
	default:
		panic(fmt.Sprintf("lang: unexpected unary operator %s", e.Op.Type))
	}
}

func (in *Interpreter) evalBinary(e *parser.BinaryExpr) (Value, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Op.Type {
	case parser.TokenEqualEqual:
		return BoolValue(Equal(left, right)), nil
	case parser.TokenBangEqual:
		return BoolValue(!Equal(left, right)), nil
	case parser.TokenPlus:
		switch {
		case left.Type == TypeNumber && right.Type == TypeNumber:
			return NumberValue(left.Number() + right.Number()), nil
		case left.Type == TypeString && right.Type == TypeString:
			return StringValue(left.Str() + right.Str()), nil
		}
		return Value{}, runtimeErrorf(e.Op, "Operands must be two numbers or two strings.")
	}

	if left.Type != TypeNumber || right.Type != TypeNumber {
		return Value{}, runtimeErrorf(e.Op, "Operands must be numbers.")
	}
	a, b := left.Number(), right.Number()
	switch e.Op.Type {
	case parser.TokenMinus:
		return NumberValue(a - b), nil
	case parser.TokenStar:
		return NumberValue(a * b), nil
	case parser.TokenSlash:
		return NumberValue(a / b), nil
	case parser.TokenGreater:
		return BoolValue(a > b), nil
	case parser.TokenGreaterEqual:
		return BoolValue(a >= b), nil
	case parser.TokenLess:
		return BoolValue(a < b), nil
	case parser.TokenLessEqual:
		return BoolValue(a <= b), nil
	default:
		panic(fmt.Sprintf("lang: unexpected binary operator %s", e.Op.Type))
	}
}

func (in *Interpreter) evalCall(e *parser.CallExpr) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return Value{}, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		val, err := in.evaluate(arg)
		if err != nil {
			return Value{}, err
		}
		args = append(args, val)
	}

	fn, ok := callee.Callable()
	if !ok {
		return Value{}, runtimeErrorf(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return Value{}, runtimeErrorf(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	if in.depth >= maxCallDepth {
		return Value{}, runtimeErrorf(e.Paren, "Stack overflow.")
	}
	in.depth++
	defer func() { in.depth-- }()
	result, err := fn.Call(in, args)
	if err != nil {
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			return Value{}, runtimeErrorf(e.Paren, "%v", err)
		}
		return Value{}, err
	}
	return result, nil
}

func (in *Interpreter) evalSuper(e *parser.SuperExpr) (Value, error) {
	distance, ok := in.locals[e]
	if !ok {
		return Value{}, runtimeErrorf(e.Keyword, "Can't use 'super' outside of a subclass.")
	}
	superVal, _ := in.env.GetAt(distance, "super")
	// "this" is always bound in the environment just inside the one
	// holding "super".
	thisVal, _ := in.env.GetAt(distance-1, "this")

	method := superVal.Class().FindMethod(e.Method.Lexeme)
	if method == nil {
		return Value{}, runtimeErrorf(e.Method, "Undefined method '%s' on superclass %s.", e.Method.Lexeme, superVal.Class().Name)
	}
	return FunctionValue(method.Bind(thisVal.Instance())), nil
}
