package parser

import "go.uber.org/multierr"

const maxArgs = 255

// Parse builds statements from a token sequence ending in TokenEOF.
//
// A malformed statement is reported and skipped; parsing resumes at the next
// statement boundary, so the returned error may combine several diagnostics.
// Statements are only meaningful when the error is nil.
func Parse(tokens []Token) ([]Stmt, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != TokenEOF {
		tokens = append(tokens, Token{Type: TokenEOF})
	}
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

type parser struct {
	tokens  []Token
	current int
	errs    error
}

func (p *parser) parseProgram() ([]Stmt, error) {
	var stmts []Stmt
	for !p.atEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			p.report(err)
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, p.errs
}

func (p *parser) report(err error) {
	p.errs = multierr.Append(p.errs, err)
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *parser) atEnd() bool {
	return p.peek().Type == TokenEOF
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) check(tt TokenType) bool {
	return p.peek().Type == tt
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) expect(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, ErrorAt(p.peek(), message)
}

// synchronize discards tokens until the start of the next statement.
func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == TokenSemicolon {
			return
		}
		switch p.peek().Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf,
			TokenWhile, TokenPrint, TokenReturn:
			return
		}
		p.advance()
	}
}

func (p *parser) parseDeclaration() (Stmt, error) {
	switch {
	case p.match(TokenClass):
		return p.parseClassDecl()
	case p.match(TokenFun):
		return p.parseFunction("function")
	case p.match(TokenVar):
		return p.parseVarDecl()
	default:
		return p.parseStatement()
	}
}

func (p *parser) parseClassDecl() (Stmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect class name.")
	if err != nil {
		return nil, err
	}
	var superclass *VariableExpr
	if p.match(TokenLess) {
		superName, err := p.expect(TokenIdentifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &VariableExpr{Name: superName}
	}
	if _, err := p.expect(TokenLeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	var methods []*FunctionStmt
	for !p.check(TokenRightBrace) && !p.atEnd() {
		method, err := p.parseFunction("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	if _, err := p.expect(TokenRightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
	}, nil
}

func (p *parser) parseFunction(kind string) (*FunctionStmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []Token
	if !p.check(TokenRightParen) {
		for {
			if len(params) >= maxArgs {
				p.report(ErrorAt(p.peek(), "Can't have more than 255 parameters."))
			}
			param, err := p.expect(TokenIdentifier, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{
		Name:   name,
		Params: params,
		Body:   body,
	}, nil
}

func (p *parser) parseVarDecl() (Stmt, error) {
	name, err := p.expect(TokenIdentifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var init Expr
	if p.match(TokenEqual) {
		init, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{
		Name:        name,
		Initializer: init,
	}, nil
}

func (p *parser) parseStatement() (Stmt, error) {
	switch {
	case p.match(TokenFor):
		return p.parseForStmt()
	case p.match(TokenIf):
		return p.parseIfStmt()
	case p.match(TokenPrint):
		return p.parsePrintStmt()
	case p.match(TokenReturn):
		return p.parseReturnStmt()
	case p.match(TokenWhile):
		return p.parseWhileStmt()
	case p.match(TokenLeftBrace):
		stmts, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Stmts: stmts}, nil
	default:
		return p.parseExpressionStmt()
	}
}

// parseBlock parses declarations up to and including the closing brace.
// The opening brace has already been consumed.
func (p *parser) parseBlock() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(TokenRightBrace) && !p.atEnd() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(TokenRightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseForStmt desugars a C-style for loop into a while loop wrapped in
// blocks for the initializer and the increment.
func (p *parser) parseForStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(TokenSemicolon):
	case p.match(TokenVar):
		init, err = p.parseVarDecl()
	default:
		init, err = p.parseExpressionStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(TokenSemicolon) {
		if cond, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.check(TokenRightParen) {
		if incr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &LiteralExpr{Value: true}
	}
	body = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		body = &BlockStmt{Stmts: []Stmt{init, body}}
	}
	return body, nil
}

func (p *parser) parseIfStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	thenBranch, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(TokenElse) {
		if elseBranch, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{
		Cond: cond,
		Then: thenBranch,
		Else: elseBranch,
	}, nil
}

func (p *parser) parsePrintStmt() (Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: value}, nil
}

func (p *parser) parseReturnStmt() (Stmt, error) {
	keyword := p.previous()
	var value Expr
	if !p.check(TokenSemicolon) {
		var err error
		if value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{
		Keyword: keyword,
		Value:   value,
	}, nil
}

func (p *parser) parseWhileStmt() (Stmt, error) {
	if _, err := p.expect(TokenLeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenRightParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{
		Cond: cond,
		Body: body,
	}, nil
}

func (p *parser) parseExpressionStmt() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExpressionStmt{Expr: expr}, nil
}

func (p *parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

func (p *parser) parseAssignment() (Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.match(TokenEqual) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	switch target := expr.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: target.Name, Value: value}, nil
	case *GetExpr:
		return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
	default:
		return nil, ErrorAt(equals, "Invalid assignment target.")
	}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		op := p.previous()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		op := p.previous()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &LogicalExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

// parseBinary parses a left-associative level whose operands come from next.
func (p *parser) parseBinary(next func() (Expr, error), ops ...TokenType) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseComparison, TokenBangEqual, TokenEqualEqual)
}

func (p *parser) parseComparison() (Expr, error) {
	return p.parseBinary(p.parseTerm,
		TokenGreater, TokenGreaterEqual, TokenLess, TokenLessEqual)
}

func (p *parser) parseTerm() (Expr, error) {
	return p.parseBinary(p.parseFactor, TokenMinus, TokenPlus)
}

func (p *parser) parseFactor() (Expr, error) {
	return p.parseBinary(p.parseUnary, TokenSlash, TokenStar)
}

func (p *parser) parseUnary() (Expr, error) {
	if p.match(TokenBang, TokenMinus) {
		op := p.previous()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Op: op, Right: right}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(TokenLeftParen):
			if expr, err = p.finishCall(expr); err != nil {
				return nil, err
			}
		case p.match(TokenDot):
			name, err := p.expect(TokenIdentifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(TokenRightParen) {
		for {
			if len(args) >= maxArgs {
				p.report(ErrorAt(p.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}
	paren, err := p.expect(TokenRightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{
		Callee: callee,
		Paren:  paren,
		Args:   args,
	}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	switch {
	case p.match(TokenFalse):
		return &LiteralExpr{Value: false}, nil
	case p.match(TokenTrue):
		return &LiteralExpr{Value: true}, nil
	case p.match(TokenNil):
		return &LiteralExpr{Value: nil}, nil
	case p.match(TokenNumber, TokenString):
		return &LiteralExpr{Value: p.previous().Literal}, nil
	case p.match(TokenSuper):
		keyword := p.previous()
		if _, err := p.expect(TokenDot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.expect(TokenIdentifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &SuperExpr{Keyword: keyword, Method: method}, nil
	case p.match(TokenThis):
		return &ThisExpr{Keyword: p.previous()}, nil
	case p.match(TokenIdentifier):
		return &VariableExpr{Name: p.previous()}, nil
	case p.match(TokenLeftParen):
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Expr: expr}, nil
	default:
		return nil, ErrorAt(p.peek(), "Expect expression.")
	}
}
