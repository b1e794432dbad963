package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/dsocolobsky/lox/parser"
	"github.com/dsocolobsky/lox/runtime"
)

var (
	configPath = flag.String("config", "", "Configuration file (default: lox.toml or ~/.config/lox/lox.toml)")
	logLevel   = flag.String("log", "", "Log level: debug, info, warn or error")
	printAST   = flag.Bool("print-ast", false, "Log the prefix form of top-level expressions")
)

// Exit codes follow sysexits(3).
const (
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lox [options] [script | -]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		os.Exit(exitUsage)
	}
	log, err := runtime.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: %v\n", err)
		os.Exit(exitUsage)
	}
	defer log.Sync()

	runner := runtime.NewRunner(
		runtime.WithLogger(log),
		runtime.WithPrintAST(cfg.Debug.PrintAST),
	)

	args := flag.Args()
	switch {
	case len(args) > 1:
		flag.Usage()
		os.Exit(exitUsage)
	case len(args) == 1:
		script := args[0]
		if script == "-" {
			err = runner.RunReader(os.Stdin)
		} else {
			err = runner.RunFile(script)
		}
		if err != nil {
			reportError(err)
			os.Exit(exitCode(err))
		}
	default:
		runREPL(runner, cfg, log)
	}
}

// loadConfig merges the configuration file, if any, with command-line flags.
func loadConfig() (*runtime.Config, error) {
	path := *configPath
	if path == "" {
		path = runtime.FindConfig()
	}
	cfg := runtime.DefaultConfig()
	if path != "" {
		loaded, err := runtime.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *printAST {
		cfg.Debug.PrintAST = true
	}
	return cfg, nil
}

func exitCode(err error) int {
	switch {
	case runtime.IsStaticError(err):
		return exitDataErr
	case runtime.IsRuntimeError(err):
		return exitSoftware
	default:
		return exitIOErr
	}
}

// reportError prints each static diagnostic on its own line, or the
// runtime error as is.
func reportError(err error) {
	if diags := parser.Errors(err); len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintln(os.Stderr, d)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func runREPL(runner *runtime.Runner, cfg *runtime.Config, log *zap.Logger) {
	if !isInteractive() {
		runBufferedREPL(runner, bufio.NewReader(os.Stdin))
		return
	}
	runInteractiveREPL(runner, cfg, log)
}

// needsMoreInput reports whether src stops in the middle of a construct,
// such as an open block or an unterminated string.
func needsMoreInput(src string) bool {
	_, err := parser.ParseString(src)
	return parser.IsIncomplete(err)
}

func runBufferedREPL(runner *runtime.Runner, reader *bufio.Reader) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			return
		}
		atEOF := errors.Is(err, io.EOF)
		buffer.WriteString(line)
		src := buffer.String()
		if strings.TrimSpace(src) != "" {
			if !atEOF && needsMoreInput(src) {
				continue
			}
			if runErr := runner.RunString(src); runErr != nil {
				reportError(runErr)
			}
		}
		buffer.Reset()
		if atEOF {
			return
		}
	}
}

func runInteractiveREPL(runner *runtime.Runner, cfg *runtime.Config, log *zap.Logger) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := cfg.HistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.Debug("history not loaded", zap.String("path", historyPath), zap.Error(err))
			}
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			} else {
				log.Warn("history not saved", zap.String("path", historyPath), zap.Error(err))
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := cfg.REPL.Prompt
		if buffer.Len() > 0 {
			prompt = cfg.REPL.Continuation
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		if strings.TrimSpace(src) == "" {
			buffer.Reset()
			continue
		}
		if needsMoreInput(src) {
			continue
		}

		buffer.Reset()
		state.AppendHistory(strings.TrimSpace(src))
		if err := runner.RunString(src); err != nil {
			reportError(err)
		}
	}
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
