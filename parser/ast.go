package parser

// Node is implemented by every expression and statement node.
//
// Nodes are always handled through pointers and never copied after parsing,
// so a node's pointer is a stable identity that can key side tables such
// as the resolver's scope distances.
type Node interface {
	node()
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement.
type Stmt interface {
	Node
	stmtNode()
}

// LiteralExpr is a number, string, boolean or nil literal.
// Value holds float64, string, bool or nil.
type LiteralExpr struct {
	Value any
}

// GroupingExpr is a parenthesised expression.
type GroupingExpr struct {
	Expr Expr
}

// UnaryExpr represents prefix operator application.
type UnaryExpr struct {
	Op    Token
	Right Expr
}

// BinaryExpr represents infix arithmetic, comparison and equality operators.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// LogicalExpr is a short-circuiting "and" or "or".
type LogicalExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// VariableExpr refers to a variable by name.
type VariableExpr struct {
	Name Token
}

// AssignExpr stores a value into an existing variable.
type AssignExpr struct {
	Name  Token
	Value Expr
}

// CallExpr invokes an expression with arguments.
type CallExpr struct {
	Callee Expr
	Paren  Token // closing parenthesis, for error lines
	Args   []Expr
}

// GetExpr reads a property of an instance.
type GetExpr struct {
	Object Expr
	Name   Token
}

// SetExpr writes a field of an instance.
type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

// ThisExpr is the implicit receiver inside a method.
type ThisExpr struct {
	Keyword Token
}

// SuperExpr looks a method up on the enclosing class's superclass.
type SuperExpr struct {
	Keyword Token
	Method  Token
}

func (*LiteralExpr) node()  {}
func (*GroupingExpr) node() {}
func (*UnaryExpr) node()    {}
func (*BinaryExpr) node()   {}
func (*LogicalExpr) node()  {}
func (*VariableExpr) node() {}
func (*AssignExpr) node()   {}
func (*CallExpr) node()     {}
func (*GetExpr) node()      {}
func (*SetExpr) node()      {}
func (*ThisExpr) node()     {}
func (*SuperExpr) node()    {}

func (*LiteralExpr) exprNode()  {}
func (*GroupingExpr) exprNode() {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}

// ExpressionStmt evaluates an expression for side-effects.
type ExpressionStmt struct {
	Expr Expr
}

// PrintStmt writes the value of an expression followed by a newline.
type PrintStmt struct {
	Expr Expr
}

// VarStmt declares a variable, optionally initialised.
type VarStmt struct {
	Name        Token
	Initializer Expr // may be nil
}

// BlockStmt is a braced block introducing a new scope.
type BlockStmt struct {
	Stmts []Stmt
}

// IfStmt conditionally executes branches.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // may be nil
}

// WhileStmt repeats while the condition is truthy.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// FunctionStmt declares a named function or a class method.
type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt exits the current function, optionally with a value.
type ReturnStmt struct {
	Keyword Token
	Value   Expr // may be nil
}

// ClassStmt declares a class with an optional superclass.
type ClassStmt struct {
	Name       Token
	Superclass *VariableExpr // may be nil
	Methods    []*FunctionStmt
}

func (*ExpressionStmt) node() {}
func (*PrintStmt) node()      {}
func (*VarStmt) node()        {}
func (*BlockStmt) node()      {}
func (*IfStmt) node()         {}
func (*WhileStmt) node()      {}
func (*FunctionStmt) node()   {}
func (*ReturnStmt) node()     {}
func (*ClassStmt) node()      {}

func (*ExpressionStmt) stmtNode() {}
func (*PrintStmt) stmtNode()      {}
func (*VarStmt) stmtNode()        {}
func (*BlockStmt) stmtNode()      {}
func (*IfStmt) stmtNode()         {}
func (*WhileStmt) stmtNode()      {}
func (*FunctionStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()     {}
func (*ClassStmt) stmtNode()      {}
