package lang

import (
	"fmt"

	"github.com/dsocolobsky/lox/parser"
)

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
	functionInitializer
	functionMethod
)

type classKind int

const (
	classNone classKind = iota
	classPlain
	classSubclass
)

// resolver computes, for every local variable reference, how many scopes
// separate it from its declaration, and rejects misplaced return, this
// and super.
type resolver struct {
	in       *Interpreter
	scopes   []map[string]bool // name -> fully defined
	function functionKind
	class    classKind
}

// Resolve annotates in with the scope distance of every local reference in
// stmts. Names not found in any enclosing scope are left unannotated and
// are looked up in the globals at run time. The first static error aborts
// resolution and is returned as a *parser.Error.
func Resolve(stmts []parser.Stmt, in *Interpreter) error {
	r := &resolver{in: in}
	return r.resolveStmts(stmts)
}

func (r *resolver) resolveStmts(stmts []parser.Stmt) error {
	for _, stmt := range stmts {
		if err := r.resolveStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) declare(name parser.Token) error {
	if len(r.scopes) == 0 {
		return nil
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		return parser.ErrorAt(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
	return nil
}

func (r *resolver) define(name parser.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the distance to the innermost scope declaring name.
func (r *resolver) resolveLocal(expr parser.Expr, name parser.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.in.Resolve(expr, len(r.scopes)-1-i)
			return
		}
	}
}

func (r *resolver) resolveStmt(stmt parser.Stmt) error {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		r.beginScope()
		defer r.endScope()
		return r.resolveStmts(s.Stmts)
	case *parser.ClassStmt:
		return r.resolveClass(s)
	case *parser.ExpressionStmt:
		return r.resolveExpr(s.Expr)
	case *parser.FunctionStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)
		return r.resolveFunction(s, functionPlain)
	case *parser.IfStmt:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		if err := r.resolveStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveStmt(s.Else)
		}
		return nil
	case *parser.PrintStmt:
		return r.resolveExpr(s.Expr)
	case *parser.ReturnStmt:
		if r.function == functionNone {
			return parser.ErrorAt(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value == nil {
			return nil
		}
		if r.function == functionInitializer {
			return parser.ErrorAt(s.Keyword, "Can't return a value from an initializer.")
		}
		return r.resolveExpr(s.Value)
	case *parser.VarStmt:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		if s.Initializer != nil {
			if err := r.resolveExpr(s.Initializer); err != nil {
				return err
			}
		}
		r.define(s.Name)
		return nil
	case *parser.WhileStmt:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		return r.resolveStmt(s.Body)
	default:
		panic(fmt.Sprintf("lang: unexpected statement %T", stmt))
	}
}

func (r *resolver) resolveClass(s *parser.ClassStmt) error {
	enclosing := r.class
	r.class = classPlain
	defer func() { r.class = enclosing }()

	if err := r.declare(s.Name); err != nil {
		return err
	}
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			return parser.ErrorAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = classSubclass
		if err := r.resolveExpr(s.Superclass); err != nil {
			return err
		}
		r.beginScope()
		defer r.endScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	defer r.endScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		kind := functionMethod
		if method.Name.Lexeme == "init" {
			kind = functionInitializer
		}
		if err := r.resolveFunction(method, kind); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) resolveFunction(fn *parser.FunctionStmt, kind functionKind) error {
	enclosing := r.function
	r.function = kind
	defer func() { r.function = enclosing }()

	r.beginScope()
	defer r.endScope()
	for _, param := range fn.Params {
		if err := r.declare(param); err != nil {
			return err
		}
		r.define(param)
	}
	return r.resolveStmts(fn.Body)
}

func (r *resolver) resolveExpr(expr parser.Expr) error {
	switch e := expr.(type) {
	case *parser.VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				return parser.ErrorAt(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)
		return nil
	case *parser.AssignExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e, e.Name)
		return nil
	case *parser.BinaryExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *parser.LogicalExpr:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *parser.CallExpr:
		if err := r.resolveExpr(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := r.resolveExpr(arg); err != nil {
				return err
			}
		}
		return nil
	case *parser.GetExpr:
		return r.resolveExpr(e.Object)
	case *parser.SetExpr:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		return r.resolveExpr(e.Object)
	case *parser.GroupingExpr:
		return r.resolveExpr(e.Expr)
	case *parser.LiteralExpr:
		return nil
	case *parser.UnaryExpr:
		return r.resolveExpr(e.Right)
	case *parser.ThisExpr:
		if r.class == classNone {
			return parser.ErrorAt(e.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(e, e.Keyword)
		return nil
	case *parser.SuperExpr:
		switch r.class {
		case classNone:
			return parser.ErrorAt(e.Keyword, "Can't use 'super' outside of a class.")
		case classPlain:
			return parser.ErrorAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)
		return nil
	default:
		panic(fmt.Sprintf("lang: unexpected expression %T", expr))
	}
}
