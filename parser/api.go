package parser

import "go.uber.org/multierr"

// ParseString scans and parses Lox source text. Lexical and syntax
// diagnostics are combined into the returned error.
func ParseString(src string) ([]Stmt, error) {
	tokens, scanErr := Scan(src)
	stmts, parseErr := Parse(tokens)
	if err := multierr.Append(scanErr, parseErr); err != nil {
		return nil, err
	}
	return stmts, nil
}
