package minipy

import (
	"errors"
	"io"
	"os"
)

// Config controls how the engine runs programs.
type Config struct {
	// Output receives everything print produces. Defaults to stdout.
	Output io.Writer
}

// Engine compiles and executes programs.
type Engine struct {
	config Config
}

// NewEngine constructs an Engine with sane defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Engine{config: cfg}
}

// Program is a compiled top-level statement sequence, ready to run.
type Program struct {
	body   *Compound
	source string
}

// Compile tokenizes and parses source without executing it.
func (e *Engine) Compile(source string) (*Program, error) {
	lx, err := NewLexer(source)
	if err != nil {
		return nil, err
	}
	body, err := parseProgram(lx)
	if err != nil {
		return nil, err
	}
	return &Program{body: body, source: source}, nil
}

// Run executes the program's top level in a fresh global scope.
func (p *Program) Run(ctx Context) error {
	return runTopLevel(p.body, make(Closure), ctx, p.source)
}

// Run compiles and executes source against the engine's configured output.
func (e *Engine) Run(source string) error {
	prog, err := e.Compile(source)
	if err != nil {
		return err
	}
	return prog.Run(NewContext(e.config.Output))
}

// Session keeps the global scope and the declared classes alive across
// multiple inputs. The REPL feeds it one submission at a time.
type Session struct {
	closure Closure
	classes map[string]*Class
	ctx     Context
}

// NewSession creates a session writing to out.
func (e *Engine) NewSession(out io.Writer) *Session {
	if out == nil {
		out = e.config.Output
	}
	return &Session{
		closure: make(Closure),
		classes: make(map[string]*Class),
		ctx:     NewContext(out),
	}
}

// Eval compiles and executes one submission inside the session's scope.
func (s *Session) Eval(source string) error {
	lx, err := NewLexer(source)
	if err != nil {
		return err
	}
	body, err := parseProgramWith(lx, s.classes)
	if err != nil {
		return err
	}
	return runTopLevel(body, s.closure, s.ctx, source)
}

func runTopLevel(body *Compound, closure Closure, ctx Context, source string) error {
	if _, err := body.Execute(closure, ctx); err != nil {
		var rs returnSignal
		if errors.As(err, &rs) {
			err = runtimeErrorAt(body.Pos(), "return used outside of a method")
		}
		var re *RuntimeError
		if errors.As(err, &re) {
			re.attachFrame(source)
		}
		return err
	}
	return nil
}
