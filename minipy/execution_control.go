package minipy

import "errors"

func (s *Compound) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	for _, stmt := range s.Statements {
		if _, err := stmt.Execute(closure, ctx); err != nil {
			return ObjectHolder{}, err
		}
	}
	return ObjectHolder{}, nil
}

func (s *MethodBody) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	if _, err := s.Body.Execute(closure, ctx); err != nil {
		var rs returnSignal
		if errors.As(err, &rs) {
			return rs.value, nil
		}
		return ObjectHolder{}, err
	}
	return ObjectHolder{}, nil
}

func (s *Return) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	holder, err := s.Statement.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	return ObjectHolder{}, returnSignal{value: holder}
}

func (s *ClassDefinition) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	cls := s.Cls.Class()
	if cls == nil {
		return ObjectHolder{}, runtimeErrorAt(s.position, "class definition does not hold a class")
	}
	closure[cls.Name()] = s.Cls
	return ObjectHolder{}, nil
}

func (s *IfElse) Execute(closure Closure, ctx Context) (ObjectHolder, error) {
	cond, err := s.Condition.Execute(closure, ctx)
	if err != nil {
		return ObjectHolder{}, err
	}
	if cond.Truthy() {
		return s.IfBody.Execute(closure, ctx)
	}
	if s.ElseBody != nil {
		return s.ElseBody.Execute(closure, ctx)
	}
	return ObjectHolder{}, nil
}
