package minipy

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RuntimeError reports a dynamic failure during evaluation. It is fatal for
// the whole run; the language offers no way to catch it.
type RuntimeError struct {
	Message   string
	Pos       Position
	CodeFrame string
}

func (e *RuntimeError) Error() string {
	if e.CodeFrame != "" {
		return e.Message + "\n" + e.CodeFrame
	}
	return e.Message
}

// attachFrame renders the offending source line with a caret under the error
// position. Positions count bytes, matching the lexer, and the syntax is
// ASCII, so a bytewise caret lands on the right cell; opaque non-ASCII bytes
// can only sit inside string literals, where the caret never points.
func (e *RuntimeError) attachFrame(source string) {
	if e.CodeFrame != "" || e.Pos.Line <= 0 || source == "" {
		return
	}

	start := 0
	for line := e.Pos.Line; line > 1; line-- {
		nl := strings.IndexByte(source[start:], '\n')
		if nl < 0 {
			return
		}
		start += nl + 1
	}
	text := source[start:]
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}

	column := min(max(e.Pos.Column, 1), len(text)+1)
	label := strconv.Itoa(e.Pos.Line)

	var sb strings.Builder
	fmt.Fprintf(&sb, "  --> line %d, column %d\n", e.Pos.Line, column)
	fmt.Fprintf(&sb, " %s | %s\n", label, text)
	fmt.Fprintf(&sb, " %s | %s^", strings.Repeat(" ", len(label)), strings.Repeat(" ", column-1))
	e.CodeFrame = sb.String()
}

func runtimeErrorAt(pos Position, format string, args ...any) error {
	return &RuntimeError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// returnSignal carries a method's return value out of nested statements. It
// travels as an error so it unwinds any statement depth, but only MethodBody
// stops it; reaching the top level means return was used outside a method.
type returnSignal struct {
	value ObjectHolder
}

func (returnSignal) Error() string { return "return used outside of a method" }

// wrapRuntime attaches a position to plain errors coming out of the runtime
// layer. Control signals and already-positioned errors pass through intact.
func wrapRuntime(err error, pos Position) error {
	if err == nil {
		return nil
	}
	var rs returnSignal
	if errors.As(err, &rs) {
		return err
	}
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	var le *LexError
	if errors.As(err, &le) {
		return err
	}
	return runtimeErrorAt(pos, "%s", err.Error())
}

func executeArguments(args []Statement, closure Closure, ctx Context) ([]ObjectHolder, error) {
	executed := make([]ObjectHolder, 0, len(args))
	for _, arg := range args {
		holder, err := arg.Execute(closure, ctx)
		if err != nil {
			return nil, err
		}
		executed = append(executed, holder)
	}
	return executed, nil
}

// appendStatement renders one print argument into sb. The empty holder
// renders as None, everything else through its Print.
func appendStatement(sb *strings.Builder, stmt Statement, closure Closure, ctx Context) error {
	holder, err := stmt.Execute(closure, ctx)
	if err != nil {
		return err
	}
	return holder.Print(sb, ctx)
}

func (s *NumberConst) Execute(Closure, Context) (ObjectHolder, error) {
	return NewNumber(s.Value), nil
}

func (s *StringConst) Execute(Closure, Context) (ObjectHolder, error) {
	return NewString(s.Value), nil
}

func (s *BoolConst) Execute(Closure, Context) (ObjectHolder, error) {
	return NewBool(s.Value), nil
}

func (s *NoneConst) Execute(Closure, Context) (ObjectHolder, error) {
	return ObjectHolder{}, nil
}

func (s *VariableValue) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	scope := closure
	for i, id := range s.DottedIDs {
		holder, ok := scope[id]
		if !ok {
			return ObjectHolder{}, runtimeErrorAt(s.position, "variable %s not found", id)
		}
		if i == len(s.DottedIDs)-1 {
			return holder, nil
		}
		inst := holder.Instance()
		if inst == nil {
			return ObjectHolder{}, runtimeErrorAt(s.position, "variable %s is not a class instance", id)
		}
		scope = inst.Fields()
	}
	return ObjectHolder{}, runtimeErrorAt(s.position, "empty variable reference")
}

func (s *Assignment) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	holder, err := s.RV.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	closure[s.Var] = holder
	return holder, nil
}

func (s *FieldAssignment) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	target, err := s.Object.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	inst := target.Instance()
	if inst == nil {
		// Pinned behavior: not an error, and the RHS stays unevaluated.
		return ObjectHolder{}, nil
	}
	holder, err := s.RV.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	inst.Fields()[s.FieldName] = holder
	return holder, nil
}

func (s *Print) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	var sb strings.Builder
	for i, arg := range s.Args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if err := appendStatement(&sb, arg, closure, ctx); err != nil {
			return ObjectHolder{}, err
		}
	}
	sb.WriteByte('\n')

	// One contiguous write per print statement.
	if _, err := io.WriteString(ctx.Output(), sb.String()); err != nil {
		return ObjectHolder{}, wrapRuntime(err, s.position)
	}
	return ObjectHolder{}, nil
}

func (s *MethodCall) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	target, err := s.Object.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	inst := target.Instance()
	if inst == nil {
		return ObjectHolder{}, runtimeErrorAt(s.position, "%s is not called on a class instance", s.Method)
	}
	if !inst.HasMethod(s.Method, len(s.Args)) {
		return ObjectHolder{}, runtimeErrorAt(s.position, "undefined method %s(%d args) in class %s", s.Method, len(s.Args), inst.Class().Name())
	}

	args, err := executeArguments(s.Args, closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	result, err := inst.Call(s.Method, args, ctx)
	if err != nil {
		return ObjectHolder{}, wrapRuntime(err, s.position)
	}
	return result, nil
}

func (s *NewInstance) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	inst := NewInstanceOf(s.Class)
	if s.Class.HasMethod(initMethod, len(s.Args)) {
		args, err := executeArguments(s.Args, closure, ctx)
		if err != nil {
			return ObjectHolder{}, err
		}
		if _, err := inst.Call(initMethod, args, ctx); err != nil {
			return ObjectHolder{}, wrapRuntime(err, s.position)
		}
	}
	return NewInstanceValue(inst), nil
}

func (s *Stringify) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	var sb strings.Builder
	if err := appendStatement(&sb, s.Arg, closure, ctx); err != nil {
		return ObjectHolder{}, err
	}
	return NewString(sb.String()), nil
}
