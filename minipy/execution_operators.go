package minipy

import "errors"

func (s *Add) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}

	switch {
	case lhs.Kind() == KindNumber && rhs.Kind() == KindNumber:
		return NewNumber(lhs.Number() + rhs.Number()), nil
	case lhs.Kind() == KindString && rhs.Kind() == KindString:
		return NewString(lhs.Str() + rhs.Str()), nil
	}

	if inst := lhs.Instance(); inst != nil && inst.HasMethod(addMethod, 1) {
		result, err := inst.Call(addMethod, []ObjectHolder{rhs}, ctx)
		if err != nil {
			return ObjectHolder{}, wrapRuntime(err, s.position)
		}
		return result, nil
	}

	return ObjectHolder{}, runtimeErrorAt(s.position, "cannot add arguments")
}

func (s *Sub) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() - rhs.Number()), nil
	}
	return ObjectHolder{}, runtimeErrorAt(s.position, "cannot subtract arguments")
}

func (s *Mult) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		return NewNumber(lhs.Number() * rhs.Number()), nil
	}
	return ObjectHolder{}, runtimeErrorAt(s.position, "cannot multiply arguments")
}

func (s *Div) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if lhs.Kind() == KindNumber && rhs.Kind() == KindNumber {
		if rhs.Number() == 0 {
			return ObjectHolder{}, runtimeErrorAt(s.position, "division by zero")
		}
		// Go's integer division truncates toward zero.
		return NewNumber(lhs.Number() / rhs.Number()), nil
	}
	return ObjectHolder{}, runtimeErrorAt(s.position, "cannot divide arguments")
}

func (s *Or) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if lhs.Truthy() {
		return NewBool(true), nil
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	return NewBool(rhs.Truthy()), nil
}

func (s *And) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if !lhs.Truthy() {
		return NewBool(false), nil
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	return NewBool(rhs.Truthy()), nil
}

func (s *Not) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	arg, err := s.Arg.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	return NewBool(!arg.Truthy()), nil
}

func (s *Comparison) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	lhs, err := s.LHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	rhs, err := s.RHS.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	result, err := s.Cmp(lhs, rhs, ctx)
	if err != nil {
		return ObjectHolder{}, wrapRuntime(err, s.position)
	}
	return NewBool(result), nil
}

// Equal compares likes naturally, dispatches __eq__ on a left-hand instance,
// and treats two empty holders as equal. Anything else has no == defined.
func Equal(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	switch {
	case lhs.Kind() == KindNumber && rhs.Kind() == KindNumber:
		return lhs.Number() == rhs.Number(), nil
	case lhs.Kind() == KindString && rhs.Kind() == KindString:
		return lhs.Str() == rhs.Str(), nil
	case lhs.Kind() == KindBool && rhs.Kind() == KindBool:
		return lhs.Bool() == rhs.Bool(), nil
	}

	if inst := lhs.Instance(); inst != nil && inst.HasMethod(eqMethod, 1) {
		result, err := inst.Call(eqMethod, []ObjectHolder{rhs}, ctx)
		if err != nil {
			return false, err
		}
		if result.Kind() != KindBool {
			return false, errors.New("__eq__ must return True or False")
		}
		return result.Bool(), nil
	}

	if lhs.IsEmpty() && rhs.IsEmpty() {
		return true, nil
	}
	return false, errors.New("no viable == comparison")
}

// Less compares likes naturally and dispatches __lt__ on a left-hand
// instance.
func Less(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	switch {
	case lhs.Kind() == KindNumber && rhs.Kind() == KindNumber:
		return lhs.Number() < rhs.Number(), nil
	case lhs.Kind() == KindString && rhs.Kind() == KindString:
		return lhs.Str() < rhs.Str(), nil
	case lhs.Kind() == KindBool && rhs.Kind() == KindBool:
		return !lhs.Bool() && rhs.Bool(), nil
	}

	if inst := lhs.Instance(); inst != nil && inst.HasMethod(ltMethod, 1) {
		result, err := inst.Call(ltMethod, []ObjectHolder{rhs}, ctx)
		if err != nil {
			return false, err
		}
		if result.Kind() != KindBool {
			return false, errors.New("__lt__ must return True or False")
		}
		return result.Bool(), nil
	}

	return false, errors.New("no viable < comparison")
}

// The remaining comparators are compositions of Equal and Less, so dunder
// dispatch only ever consults __eq__ and __lt__ on the left operand.

func NotEqual(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	eq, err := Equal(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func Greater(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	less, err := Less(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	eq, err := Equal(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !less && !eq, nil
}

func LessOrEqual(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	greater, err := Greater(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !greater, nil
}

func GreaterOrEqual(lhs, rhs ObjectHolder, ctx Context) (bool, error) {
	less, err := Less(lhs, rhs, ctx)
	if err != nil {
		return false, err
	}
	return !less, nil
}
