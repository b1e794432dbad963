package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dsocolobsky/lox/lang"
	"github.com/dsocolobsky/lox/parser"
)

// Runner drives source text through the scanner, parser, resolver and
// interpreter. Global state persists across runs, so a REPL can feed it one
// chunk at a time.
type Runner struct {
	Interp *lang.Interpreter

	log      *zap.Logger
	stdout   io.Writer
	printAST bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithStdout directs print statements to w.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithPrintAST logs the prefix form of every top-level expression before
// it is executed.
func WithPrintAST(enabled bool) Option {
	return func(r *Runner) {
		r.printAST = enabled
	}
}

// NewRunner constructs a runner with the native bindings installed.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log:    zap.NewNop(),
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Interp = lang.NewInterpreter(lang.WithOutput(r.stdout))
	installNatives(r.Interp)
	return r
}

// RunString executes a complete Lox program. Static errors (lexical,
// syntax and resolution) prevent execution entirely.
func (r *Runner) RunString(src string) error {
	start := time.Now()

	tokens, scanErr := parser.Scan(src)
	r.log.Debug("scanned", zap.Int("tokens", len(tokens)))

	stmts, parseErr := parser.Parse(tokens)
	if err := multierr.Append(scanErr, parseErr); err != nil {
		r.log.Warn("static errors", zap.Int("count", len(parser.Errors(err))))
		return err
	}
	r.log.Debug("parsed", zap.Int("statements", len(stmts)))

	if err := lang.Resolve(stmts, r.Interp); err != nil {
		r.log.Warn("resolution failed", zap.Error(err))
		return err
	}
	r.log.Debug("resolved", zap.Int("locals", r.Interp.Locals()))

	if r.printAST {
		r.logAST(stmts)
	}

	if err := r.Interp.Interpret(stmts); err != nil {
		r.log.Warn("runtime error", zap.Error(err))
		return err
	}
	r.log.Debug("finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// RunReader reads all of rd and executes it.
func (r *Runner) RunReader(rd io.Reader) error {
	data, err := io.ReadAll(rd)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	return r.RunString(string(data))
}

// RunFile loads and executes a Lox script, allowing a #! first line.
func (r *Runner) RunFile(path string) error {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return err
	}
	r.log.Debug("loaded script", zap.String("path", path), zap.Int("bytes", len(data)))
	return r.RunString(string(data))
}

func (r *Runner) logAST(stmts []parser.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *parser.ExpressionStmt:
			r.log.Debug("ast", zap.String("expr", parser.Sprint(s.Expr)))
		case *parser.PrintStmt:
			r.log.Debug("ast", zap.String("print", parser.Sprint(s.Expr)))
		}
	}
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			// Keep the newline so line numbers still match the file.
			return data[idx:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// IsStaticError reports whether err came from scanning, parsing or
// resolution, i.e. the program was never executed.
func IsStaticError(err error) bool {
	return len(parser.Errors(err)) > 0
}

// IsRuntimeError reports whether err was raised while executing a program.
func IsRuntimeError(err error) bool {
	return errors.Is(err, lang.ErrRuntime)
}
