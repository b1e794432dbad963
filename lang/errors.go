package lang

import (
	"errors"
	"fmt"

	"github.com/dsocolobsky/lox/parser"
)

// ErrRuntime is wrapped by every error raised while executing a program.
var ErrRuntime = errors.New("runtime error")

// RuntimeError reports a failure at the token where execution stopped.
type RuntimeError struct {
	Token   parser.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) Unwrap() error {
	return ErrRuntime
}

func runtimeErrorf(tok parser.Token, format string, args ...interface{}) error {
	return &RuntimeError{
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}
