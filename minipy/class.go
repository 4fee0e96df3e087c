package minipy

import (
	"fmt"
	"io"
)

// Dunder methods the evaluator invokes implicitly.
const (
	initMethod = "__init__"
	addMethod  = "__add__"
	eqMethod   = "__eq__"
	ltMethod   = "__lt__"
	strMethod  = "__str__"
)

// Method is a named body with positional formal parameters, owned by a class.
// The body is expected to be a MethodBody node so return statements unwind no
// further than the method itself.
type Method struct {
	Name         string
	FormalParams []string
	Body         Statement
}

// Class describes a user-defined class: a name, an optional parent, and an
// ordered method table.
type Class struct {
	name    string
	parent  *Class
	methods []*Method
}

func NewClass(name string, parent *Class, methods []*Method) *Class {
	return &Class{name: name, parent: parent, methods: methods}
}

func (c *Class) Name() string   { return c.name }
func (c *Class) Parent() *Class { return c.parent }

// GetMethod returns the nearest method with the given name, walking the
// inheritance chain upward from c, or nil when the chain has none.
func (c *Class) GetMethod(name string) *Method {
	for _, m := range c.methods {
		if m.Name == name {
			return m
		}
	}
	if c.parent != nil {
		return c.parent.GetMethod(name)
	}
	return nil
}

// HasMethod reports whether the chain defines name with exactly argc formal
// parameters.
func (c *Class) HasMethod(name string, argc int) bool {
	m := c.GetMethod(name)
	return m != nil && len(m.FormalParams) == argc
}

// Instance is one object of a class: a class reference plus the field table
// shared by every holder over the instance.
type Instance struct {
	class  *Class
	fields Closure
}

func NewInstanceOf(class *Class) *Instance {
	return &Instance{class: class, fields: make(Closure)}
}

func (inst *Instance) Class() *Class   { return inst.class }
func (inst *Instance) Fields() Closure { return inst.fields }

func (inst *Instance) HasMethod(name string, argc int) bool {
	return inst.class.HasMethod(name, argc)
}

// Call invokes a method on the instance. The call scope holds only self and
// the positional parameters: methods never see their caller's scope, and free
// variables inside a method resolve through self alone.
func (inst *Instance) Call(method string, args []ObjectHolder, ctx Context) (ObjectHolder, error) {
	m := inst.class.GetMethod(method)
	if m == nil || len(m.FormalParams) != len(args) {
		return ObjectHolder{}, fmt.Errorf("undefined method %s(%d args) in class %s", method, len(args), inst.class.name)
	}

	closure := Closure{"self": NewInstanceValue(inst)}
	for i, param := range m.FormalParams {
		closure[param] = args[i]
	}
	return m.Body.Execute(closure, ctx)
}

// Print dispatches a user-defined __str__ when present; otherwise an
// address-like identifier keeps distinct instances tellable apart.
func (inst *Instance) Print(w io.Writer, ctx Context) error {
	if inst.HasMethod(strMethod, 0) {
		result, err := inst.Call(strMethod, nil, ctx)
		if err != nil {
			return err
		}
		return result.Print(w, ctx)
	}
	_, err := fmt.Fprintf(w, "<%s object at %p>", inst.class.name, inst)
	return err
}
