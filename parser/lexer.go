package parser

import (
	"strconv"
	"unicode/utf8"

	"go.uber.org/multierr"
)

// Scan converts Lox source into tokens terminated by a TokenEOF token.
// Lexical problems are reported in the returned error, but scanning carries
// on past them so later problems in the same source are reported as well.
func Scan(src string) ([]Token, error) {
	lx := newLexer(src)
	for {
		tok, ok := lx.nextToken()
		if !ok {
			continue
		}
		lx.tokens = append(lx.tokens, tok)
		if tok.Type == TokenEOF {
			return lx.tokens, lx.errs
		}
	}
}

type lexer struct {
	src  string
	pos  int
	line int

	tokens []Token
	errs   error
}

func newLexer(src string) *lexer {
	return &lexer{
		src:  src,
		line: 1,
	}
}

type runeState struct {
	pos  int
	line int
}

func (lx *lexer) mark() runeState {
	return runeState{
		pos:  lx.pos,
		line: lx.line,
	}
}

func (lx *lexer) restore(state runeState) {
	lx.pos = state.pos
	lx.line = state.line
}

func (lx *lexer) atEnd() bool {
	return lx.pos >= len(lx.src)
}

// readRune consumes the next rune. Invalid UTF-8 is returned as
// utf8.RuneError so the caller reports it as an unexpected character.
func (lx *lexer) readRune() rune {
	if lx.atEnd() {
		return 0
	}
	r, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
	if r == '\n' {
		lx.line++
	}
	return r
}

func (lx *lexer) peek() rune {
	if lx.atEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) peekNext() rune {
	if lx.atEnd() {
		return 0
	}
	_, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if lx.pos+w >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+w:])
	return r
}

func (lx *lexer) match(expected rune) bool {
	state := lx.mark()
	if lx.atEnd() || lx.readRune() != expected {
		lx.restore(state)
		return false
	}
	return true
}

func (lx *lexer) skipWhitespace() {
	for !lx.atEnd() {
		switch r := lx.peek(); {
		case r == ' ' || r == '\r' || r == '\t' || r == '\n':
			lx.readRune()
		case r == '/' && lx.peekNext() == '/':
			for !lx.atEnd() && lx.peek() != '\n' {
				lx.readRune()
			}
		default:
			return
		}
	}
}

func (lx *lexer) report(err *Error) {
	lx.errs = multierr.Append(lx.errs, err)
}

// nextToken scans one token. It returns false when the scanned text
// produced no token (an unexpected character or an unterminated string).
func (lx *lexer) nextToken() (Token, bool) {
	lx.skipWhitespace()
	if lx.atEnd() {
		return Token{Type: TokenEOF, Line: lx.line}, true
	}

	start := lx.mark()
	r := lx.readRune()

	switch {
	case isIdentifierStart(r):
		return lx.scanIdentifier(start), true
	case isDigit(r):
		return lx.scanNumber(start), true
	case r == '"':
		return lx.scanString(start)
	}

	var tt TokenType
	switch r {
	case '(':
		tt = TokenLeftParen
	case ')':
		tt = TokenRightParen
	case '{':
		tt = TokenLeftBrace
	case '}':
		tt = TokenRightBrace
	case ',':
		tt = TokenComma
	case '.':
		tt = TokenDot
	case '-':
		tt = TokenMinus
	case '+':
		tt = TokenPlus
	case ';':
		tt = TokenSemicolon
	case '/':
		tt = TokenSlash
	case '*':
		tt = TokenStar
	case '!':
		tt = TokenBang
		if lx.match('=') {
			tt = TokenBangEqual
		}
	case '=':
		tt = TokenEqual
		if lx.match('=') {
			tt = TokenEqualEqual
		}
	case '<':
		tt = TokenLess
		if lx.match('=') {
			tt = TokenLessEqual
		}
	case '>':
		tt = TokenGreater
		if lx.match('=') {
			tt = TokenGreaterEqual
		}
	default:
		lx.report(&Error{
			Line:    start.line,
			Where:   lx.src[start.pos:lx.pos],
			Message: "Unexpected character.",
		})
		return Token{}, false
	}
	return lx.token(tt, start, nil), true
}

func (lx *lexer) token(tt TokenType, start runeState, literal any) Token {
	return Token{
		Type:    tt,
		Lexeme:  lx.src[start.pos:lx.pos],
		Literal: literal,
		Line:    start.line,
	}
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (lx *lexer) scanIdentifier(start runeState) Token {
	for !lx.atEnd() && isIdentifierPart(lx.peek()) {
		lx.readRune()
	}
	text := lx.src[start.pos:lx.pos]
	if tt, ok := keywords[text]; ok {
		return lx.token(tt, start, nil)
	}
	return lx.token(TokenIdentifier, start, nil)
}

func (lx *lexer) scanNumber(start runeState) Token {
	for isDigit(lx.peek()) {
		lx.readRune()
	}
	if lx.peek() == '.' && isDigit(lx.peekNext()) {
		lx.readRune()
		for isDigit(lx.peek()) {
			lx.readRune()
		}
	}
	text := lx.src[start.pos:lx.pos]
	// The lexeme is digits with at most one interior dot, so parsing cannot fail.
	value, _ := strconv.ParseFloat(text, 64)
	return lx.token(TokenNumber, start, value)
}

func (lx *lexer) scanString(start runeState) (Token, bool) {
	for !lx.atEnd() && lx.peek() != '"' {
		lx.readRune()
	}
	if lx.atEnd() {
		lx.report(&Error{
			Line:       lx.line,
			Where:      "end",
			Message:    "Unterminated string.",
			Incomplete: true,
		})
		return Token{}, false
	}
	lx.readRune() // closing quote
	value := lx.src[start.pos+1 : lx.pos-1]
	return lx.token(TokenString, start, value), true
}
