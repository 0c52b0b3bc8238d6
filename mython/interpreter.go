package mython

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

// Config controls interpreter defaults.
type Config struct {
	// Output receives print statements; defaults to stdout.
	Output io.Writer
	// RecursionLimit bounds method-call depth; defaults to 256.
	RecursionLimit int
}

// Engine compiles and executes Mython programs.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine, filling in defaults for zero-value
// config fields.
func NewEngine(cfg Config) *Engine {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = defaultRecursionLimit
	}
	return &Engine{config: cfg}
}

// Compile tokenizes and parses source text into a runnable script.
func (e *Engine) Compile(source string) (*Script, error) {
	lx, err := NewLexer(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	program, err := parse(lx)
	if err != nil {
		return nil, err
	}
	return &Script{engine: e, program: program, source: source}, nil
}

// Script is a compiled program bound to its engine.
type Script struct {
	engine  *Engine
	program *Compound
	source  string
}

func (s *Script) Source() string { return s.source }

// Run executes the script against a fresh top-level scope, writing print
// output to the engine's configured writer.
func (s *Script) Run(ctx context.Context) error {
	return s.RunWith(ctx, NewEnv(), s.engine.config.Output)
}

// RunWith executes the script against a caller-supplied top-level scope
// and output writer. Hosts that keep state between runs, like the REPL,
// pass the same scope back in each time.
func (s *Script) RunWith(ctx context.Context, globals *Env, out io.Writer) error {
	exec := newExecution(ctx, out, s.engine.config.RecursionLimit)
	_, err := s.program.Execute(globals, exec)
	var sig *returnSignal
	if errors.As(err, &sig) {
		return newRuntimeError("return outside of a method body")
	}
	return err
}
