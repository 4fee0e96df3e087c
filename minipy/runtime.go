package minipy

import (
	"fmt"
	"io"
)

// ValueKind identifies the dynamic type carried by an ObjectHolder.
type ValueKind int

const (
	// KindEmpty is the zero holder: the absence of any value, distinct
	// from a holder that carries None.
	KindEmpty ValueKind = iota
	KindNone
	KindNumber
	KindString
	KindBool
	KindClass
	KindInstance
)

func (k ValueKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNone:
		return "None"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ObjectHolder is the uniform handle through which every dynamic value
// circulates. Classes and instances are held by pointer, so every holder over
// the same instance observes the same field map; the scalar kinds are
// immutable and copied freely. The zero holder is empty.
type ObjectHolder struct {
	kind ValueKind
	data any
}

func NewNone() ObjectHolder        { return ObjectHolder{kind: KindNone} }
func NewNumber(n int) ObjectHolder { return ObjectHolder{kind: KindNumber, data: n} }
func NewBool(b bool) ObjectHolder  { return ObjectHolder{kind: KindBool, data: b} }

func NewString(s string) ObjectHolder {
	return ObjectHolder{kind: KindString, data: s}
}
func NewClassValue(c *Class) ObjectHolder {
	return ObjectHolder{kind: KindClass, data: c}
}
func NewInstanceValue(inst *Instance) ObjectHolder {
	return ObjectHolder{kind: KindInstance, data: inst}
}

func (h ObjectHolder) Kind() ValueKind { return h.kind }

// IsEmpty reports whether the holder carries no value at all. A holder over
// None is not empty.
func (h ObjectHolder) IsEmpty() bool { return h.kind == KindEmpty }

func (h ObjectHolder) Number() int {
	if h.kind != KindNumber {
		return 0
	}
	return h.data.(int)
}

func (h ObjectHolder) Str() string {
	if h.kind != KindString {
		return ""
	}
	return h.data.(string)
}

func (h ObjectHolder) Bool() bool {
	if h.kind != KindBool {
		return false
	}
	return h.data.(bool)
}

func (h ObjectHolder) Class() *Class {
	if h.kind != KindClass {
		return nil
	}
	return h.data.(*Class)
}

func (h ObjectHolder) Instance() *Instance {
	if h.kind != KindInstance {
		return nil
	}
	return h.data.(*Instance)
}

// Truthy is the predicate used by conditionals and the logical operators:
// a non-zero number, a non-empty string, or a true bool. Everything else,
// including None, classes, instances, and the empty holder, is false.
func (h ObjectHolder) Truthy() bool {
	switch h.kind {
	case KindNumber:
		return h.data.(int) != 0
	case KindString:
		return h.data.(string) != ""
	case KindBool:
		return h.data.(bool)
	default:
		return false
	}
}

// Print writes the user-visible form of the held value to w. Instances
// dispatch a user-defined __str__ when one exists, so printing can run
// script code and therefore fail.
func (h ObjectHolder) Print(w io.Writer, ctx Context) error {
	switch h.kind {
	case KindEmpty, KindNone:
		_, err := io.WriteString(w, "None")
		return err
	case KindNumber:
		_, err := fmt.Fprintf(w, "%d", h.data.(int))
		return err
	case KindString:
		_, err := io.WriteString(w, h.data.(string))
		return err
	case KindBool:
		s := "False"
		if h.data.(bool) {
			s = "True"
		}
		_, err := io.WriteString(w, s)
		return err
	case KindClass:
		_, err := fmt.Fprintf(w, "<class %s>", h.data.(*Class).Name())
		return err
	case KindInstance:
		return h.data.(*Instance).Print(w, ctx)
	default:
		_, err := io.WriteString(w, "None")
		return err
	}
}

// Closure maps identifiers to holders. It backs both call-local scopes and
// instance field tables.
type Closure map[string]ObjectHolder

// Context threads the execution surroundings through every Execute call. The
// core needs only the output sink; tests substitute their own.
type Context interface {
	Output() io.Writer
}

type writerContext struct {
	out io.Writer
}

// NewContext wraps an output sink in a Context.
func NewContext(out io.Writer) Context {
	return &writerContext{out: out}
}

func (c *writerContext) Output() io.Writer { return c.out }
