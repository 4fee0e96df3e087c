package minipy

// Statement is the node interface of the evaluator. Execute runs the node
// against a scope and the execution context and yields a holder; statements
// that produce nothing yield the empty holder.
type Statement interface {
	Execute(closure Closure, ctx Context) (ObjectHolder, error)
	Pos() Position
}

// NumberConst evaluates to an integer literal.
type NumberConst struct {
	Value    int
	position Position
}

func (s *NumberConst) Pos() Position { return s.position }

// StringConst evaluates to a string literal.
type StringConst struct {
	Value    string
	position Position
}

func (s *StringConst) Pos() Position { return s.position }

// BoolConst evaluates to True or False.
type BoolConst struct {
	Value    bool
	position Position
}

func (s *BoolConst) Pos() Position { return s.position }

// NoneConst evaluates to the empty holder.
type NoneConst struct {
	position Position
}

func (s *NoneConst) Pos() Position { return s.position }

// VariableValue resolves a dotted chain id1.id2. ... .idN starting from the
// scope and descending through instance field tables.
type VariableValue struct {
	DottedIDs []string
	position  Position
}

func (s *VariableValue) Pos() Position { return s.position }

// Assignment evaluates RV and stores the result under Var in the scope.
type Assignment struct {
	Var      string
	RV       Statement
	position Position
}

func (s *Assignment) Pos() Position { return s.position }

// FieldAssignment assigns into Object's field table. When Object does not
// resolve to an instance nothing is assigned and the RHS stays unevaluated.
type FieldAssignment struct {
	Object    *VariableValue
	FieldName string
	RV        Statement
	position  Position
}

func (s *FieldAssignment) Pos() Position { return s.position }

// Print evaluates its arguments, joins their printed forms with single
// spaces, and writes the whole line to the context output in one write.
type Print struct {
	Args     []Statement
	position Position
}

func (s *Print) Pos() Position { return s.position }

// MethodCall invokes Object.Method(Args...).
type MethodCall struct {
	Object   Statement
	Method   string
	Args     []Statement
	position Position
}

func (s *MethodCall) Pos() Position { return s.position }

// NewInstance allocates a fresh instance of Class and runs __init__ when the
// class defines one matching the argument count.
type NewInstance struct {
	Class    *Class
	Args     []Statement
	position Position
}

func (s *NewInstance) Pos() Position { return s.position }

// Stringify formats its argument the way one print argument is formatted and
// yields the result as a string value.
type Stringify struct {
	Arg      Statement
	position Position
}

func (s *Stringify) Pos() Position { return s.position }

// Add supports number+number, string+string, and __add__ dispatch on a
// left-hand instance.
type Add struct {
	LHS, RHS Statement
	position Position
}

func (s *Add) Pos() Position { return s.position }

// Sub subtracts numbers.
type Sub struct {
	LHS, RHS Statement
	position Position
}

func (s *Sub) Pos() Position { return s.position }

// Mult multiplies numbers.
type Mult struct {
	LHS, RHS Statement
	position Position
}

func (s *Mult) Pos() Position { return s.position }

// Div divides numbers, truncating toward zero. Division by zero fails.
type Div struct {
	LHS, RHS Statement
	position Position
}

func (s *Div) Pos() Position { return s.position }

// Or evaluates the right operand only when the left is falsy.
type Or struct {
	LHS, RHS Statement
	position Position
}

func (s *Or) Pos() Position { return s.position }

// And evaluates the right operand only when the left is truthy.
type And struct {
	LHS, RHS Statement
	position Position
}

func (s *And) Pos() Position { return s.position }

// Not negates the truthiness of its argument.
type Not struct {
	Arg      Statement
	position Position
}

func (s *Not) Pos() Position { return s.position }

// Comparator compares two evaluated holders under a context.
type Comparator func(lhs, rhs ObjectHolder, ctx Context) (bool, error)

// Comparison evaluates both operands and applies a comparator, yielding Bool.
type Comparison struct {
	Cmp      Comparator
	LHS, RHS Statement
	position Position
}

func (s *Comparison) Pos() Position { return s.position }

// Compound runs statements in order and yields the empty holder.
type Compound struct {
	Statements []Statement
	position   Position
}

func (s *Compound) Pos() Position { return s.position }

// Add appends a statement to the sequence.
func (s *Compound) Add(stmt Statement) {
	s.Statements = append(s.Statements, stmt)
}

// MethodBody executes the body of a method and is the one place the return
// signal is caught: a caught return yields its value, falling off the end
// yields the empty holder.
type MethodBody struct {
	Body     Statement
	position Position
}

func (s *MethodBody) Pos() Position { return s.position }

// Return stops the enclosing method and delivers the value of its expression
// through the return signal.
type Return struct {
	Statement Statement
	position  Position
}

func (s *Return) Pos() Position { return s.position }

// ClassDefinition binds a class value to its name in the scope.
type ClassDefinition struct {
	Cls      ObjectHolder
	position Position
}

func (s *ClassDefinition) Pos() Position { return s.position }

// IfElse runs IfBody or ElseBody depending on the condition; ElseBody may be
// nil.
type IfElse struct {
	Condition Statement
	IfBody    Statement
	ElseBody  Statement
	position  Position
}

func (s *IfElse) Pos() Position { return s.position }
