package parser

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Error is a lexical, syntax or resolution diagnostic tied to a source line.
type Error struct {
	Line       int
	Where      string // offending lexeme, or "end" at end of input
	Message    string
	Incomplete bool // input ended before the construct was closed
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", e.Line, e.Where, e.Message)
}

// ErrorAt builds a diagnostic pointing at tok.
func ErrorAt(tok Token, message string) *Error {
	if tok.Type == TokenEOF {
		return &Error{
			Line:       tok.Line,
			Where:      "end",
			Message:    message,
			Incomplete: true,
		}
	}
	return &Error{
		Line:    tok.Line,
		Where:   tok.Lexeme,
		Message: message,
	}
}

// IsIncomplete reports whether every diagnostic in err was caused by input
// ending early. A REPL uses it to decide whether to read another line.
func IsIncomplete(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range multierr.Errors(err) {
		var perr *Error
		if !errors.As(e, &perr) || !perr.Incomplete {
			return false
		}
	}
	return true
}

// Errors flattens err into its individual diagnostics.
func Errors(err error) []*Error {
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var perr *Error
		if errors.As(e, &perr) {
			out = append(out, perr)
		}
	}
	return out
}
