package minipy

import (
	"fmt"
	"strconv"
)

type parseError struct {
	pos Position
	msg string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

// parser is a recursive-descent parser over the lexer's token stream. It
// resolves class names at parse time, so a class must be declared before it
// is instantiated or inherited from.
type parser struct {
	lx      *Lexer
	cur     Token
	classes map[string]*Class
}

func newParser(lx *Lexer, classes map[string]*Class) *parser {
	if classes == nil {
		classes = make(map[string]*Class)
	}
	return &parser{lx: lx, cur: lx.CurrentToken(), classes: classes}
}

// parseProgram consumes the whole token stream and returns the top-level
// statement sequence.
func parseProgram(lx *Lexer) (*Compound, error) {
	return newParser(lx, nil).parseTopLevel()
}

// parseProgramWith parses with a shared class table, letting callers carry
// declared classes across multiple inputs (the REPL does).
func parseProgramWith(lx *Lexer, classes map[string]*Class) (*Compound, error) {
	return newParser(lx, classes).parseTopLevel()
}

func (p *parser) parseTopLevel() (*Compound, error) {
	prog := &Compound{position: p.cur.Pos}
	for p.cur.Type != TokenEOF {
		if p.cur.Type == TokenNewline {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Add(stmt)
	}
	return prog, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &parseError{pos: p.cur.Pos, msg: fmt.Sprintf(format, args...)}
}

func (p *parser) curIsChar(lit string) bool {
	return p.cur.Type == TokenChar && p.cur.Literal == lit
}

// expect checks the current token through the lexer's expectation helper and
// reports mismatches as parse errors.
func (p *parser) expect(tt TokenType) (Token, error) {
	tok, err := p.lx.Expect(tt)
	if err != nil {
		return Token{}, p.errorf("expected %s, found %s", tt, p.cur)
	}
	return tok, nil
}

// eat expects the current token to have type tt and advances past it.
func (p *parser) eat(tt TokenType) (Token, error) {
	tok, err := p.expect(tt)
	if err != nil {
		return Token{}, err
	}
	if err := p.advance(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// eatChar expects the current token to be the given CHAR and advances.
func (p *parser) eatChar(lit string) error {
	if err := p.lx.ExpectLiteral(TokenChar, lit); err != nil {
		return p.errorf("expected %q, found %s", lit, p.cur)
	}
	return p.advance()
}

func (p *parser) parseStatement() (Statement, error) {
	switch p.cur.Type {
	case TokenClass:
		return p.parseClassDefinition()
	case TokenIf:
		return p.parseIfElse()
	case TokenReturn:
		return p.parseReturn()
	case TokenPrint:
		return p.parsePrint()
	case TokenDef:
		return nil, p.errorf("def is only allowed inside a class")
	default:
		return p.parseSimpleStatement()
	}
}

func (p *parser) parseClassDefinition() (Statement, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(TokenID)
	if err != nil {
		return nil, err
	}

	var parent *Class
	if p.curIsChar("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		parentTok, err := p.eat(TokenID)
		if err != nil {
			return nil, err
		}
		parent = p.classes[parentTok.Literal]
		if parent == nil {
			return nil, p.errorf("undefined base class %s", parentTok.Literal)
		}
		if err := p.eatChar(")"); err != nil {
			return nil, err
		}
	}

	if err := p.eatChar(":"); err != nil {
		return nil, err
	}
	if _, err := p.eat(TokenNewline); err != nil {
		return nil, err
	}
	if _, err := p.eat(TokenIndent); err != nil {
		return nil, err
	}

	// Register the class before its methods parse, so a method body can
	// construct instances of the class being defined.
	cls := NewClass(nameTok.Literal, parent, nil)
	p.classes[nameTok.Literal] = cls

	var methods []*Method
	for {
		if p.cur.Type == TokenDef {
			m, err := p.parseMethod()
			if err != nil {
				return nil, err
			}
			methods = append(methods, m)
			continue
		}
		// A bare pass line keeps an otherwise empty class body parseable.
		if p.cur.Type == TokenID && p.cur.Literal == "pass" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if _, err := p.eat(TokenNewline); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.eat(TokenDedent); err != nil {
		return nil, err
	}

	cls.methods = methods
	return &ClassDefinition{Cls: NewClassValue(cls), position: pos}, nil
}

func (p *parser) parseMethod() (*Method, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.eat(TokenID)
	if err != nil {
		return nil, err
	}

	if err := p.eatChar("("); err != nil {
		return nil, err
	}
	var params []string
	if !p.curIsChar(")") {
		for {
			paramTok, err := p.eat(TokenID)
			if err != nil {
				return nil, err
			}
			params = append(params, paramTok.Literal)
			if p.curIsChar(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if err := p.eatChar(")"); err != nil {
		return nil, err
	}

	suite, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	return &Method{
		Name:         nameTok.Literal,
		FormalParams: params,
		Body:         &MethodBody{Body: suite, position: pos},
	}, nil
}

// parseSuite parses a colon-introduced indented block.
func (p *parser) parseSuite() (Statement, error) {
	pos := p.cur.Pos
	if err := p.eatChar(":"); err != nil {
		return nil, err
	}
	if _, err := p.eat(TokenNewline); err != nil {
		return nil, err
	}
	if _, err := p.eat(TokenIndent); err != nil {
		return nil, err
	}

	suite := &Compound{position: pos}
	for p.cur.Type != TokenDedent && p.cur.Type != TokenEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		suite.Add(stmt)
	}
	if _, err := p.eat(TokenDedent); err != nil {
		return nil, err
	}
	return suite, nil
}

func (p *parser) parseIfElse() (Statement, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ifBody, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var elseBody Statement
	if p.cur.Type == TokenElse {
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBody, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &IfElse{Condition: cond, IfBody: ifBody, ElseBody: elseBody, position: pos}, nil
}

func (p *parser) parseReturn() (Statement, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	var expr Statement = &NoneConst{position: pos}
	if p.cur.Type != TokenNewline {
		var err error
		expr, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.eat(TokenNewline); err != nil {
		return nil, err
	}
	return &Return{Statement: expr, position: pos}, nil
}

func (p *parser) parsePrint() (Statement, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Statement
	if p.cur.Type != TokenNewline {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curIsChar(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if _, err := p.eat(TokenNewline); err != nil {
		return nil, err
	}
	return &Print{Args: args, position: pos}, nil
}

// parseSimpleStatement handles assignments and bare expression statements.
// An assignment target must be a dotted identifier chain; its last segment
// selects between a scope assignment and a field assignment.
func (p *parser) parseSimpleStatement() (Statement, error) {
	pos := p.cur.Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curIsChar("=") {
		vv, ok := expr.(*VariableValue)
		if !ok {
			return nil, p.errorf("invalid assignment target")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		rv, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(TokenNewline); err != nil {
			return nil, err
		}

		if len(vv.DottedIDs) == 1 {
			return &Assignment{Var: vv.DottedIDs[0], RV: rv, position: pos}, nil
		}
		object := &VariableValue{DottedIDs: vv.DottedIDs[:len(vv.DottedIDs)-1], position: vv.position}
		return &FieldAssignment{
			Object:    object,
			FieldName: vv.DottedIDs[len(vv.DottedIDs)-1],
			RV:        rv,
			position:  pos,
		}, nil
	}

	if _, err := p.eat(TokenNewline); err != nil {
		return nil, err
	}
	if vv, ok := expr.(*VariableValue); ok && len(vv.DottedIDs) == 1 && vv.DottedIDs[0] == "pass" {
		return &Compound{position: pos}, nil
	}
	return expr, nil
}

func (p *parser) parseExpression() (Statement, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Statement, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenOr {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{LHS: left, RHS: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseAnd() (Statement, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == TokenAnd {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{LHS: left, RHS: right, position: pos}
	}
	return left, nil
}

func (p *parser) parseNot() (Statement, error) {
	if p.cur.Type == TokenNot {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Arg: arg, position: pos}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Statement, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	var cmp Comparator
	switch {
	case p.cur.Type == TokenEQ:
		cmp = Equal
	case p.cur.Type == TokenNotEQ:
		cmp = NotEqual
	case p.cur.Type == TokenLTE:
		cmp = LessOrEqual
	case p.cur.Type == TokenGTE:
		cmp = GreaterOrEqual
	case p.curIsChar("<"):
		cmp = Less
	case p.curIsChar(">"):
		cmp = Greater
	default:
		return left, nil
	}

	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &Comparison{Cmp: cmp, LHS: left, RHS: right, position: pos}, nil
}

func (p *parser) parseAdditive() (Statement, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.curIsChar("+") || p.curIsChar("-") {
		op := p.cur.Literal
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			left = &Add{LHS: left, RHS: right, position: pos}
		} else {
			left = &Sub{LHS: left, RHS: right, position: pos}
		}
	}
	return left, nil
}

func (p *parser) parseTerm() (Statement, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curIsChar("*") || p.curIsChar("/") {
		op := p.cur.Literal
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		if op == "*" {
			left = &Mult{LHS: left, RHS: right, position: pos}
		} else {
			left = &Div{LHS: left, RHS: right, position: pos}
		}
	}
	return left, nil
}

// parseFactor parses a primary expression and any chained method calls on
// its result. Plain field reads exist only on dotted identifier chains, so a
// chain segment after a call must itself be a call.
func (p *parser) parseFactor() (Statement, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.curIsChar(".") {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		methodTok, err := p.eat(TokenID)
		if err != nil {
			return nil, err
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		expr = &MethodCall{Object: expr, Method: methodTok.Literal, Args: args, position: pos}
	}
	return expr, nil
}

func (p *parser) parsePrimary() (Statement, error) {
	pos := p.cur.Pos
	switch {
	case p.cur.Type == TokenNumber:
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil {
			return nil, p.errorf("number out of range")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberConst{Value: n, position: pos}, nil
	case p.cur.Type == TokenString:
		s := p.cur.Literal
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringConst{Value: s, position: pos}, nil
	case p.cur.Type == TokenTrue, p.cur.Type == TokenFalse:
		value := p.cur.Type == TokenTrue
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolConst{Value: value, position: pos}, nil
	case p.cur.Type == TokenNone:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NoneConst{position: pos}, nil
	case p.curIsChar("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.eatChar(")"); err != nil {
			return nil, err
		}
		return expr, nil
	case p.cur.Type == TokenID:
		return p.parseName()
	default:
		return nil, p.errorf("unexpected token %s", p.cur)
	}
}

// parseName handles everything that begins with an identifier: dotted chain
// reads, method calls, instance creation, and the str() builtin.
func (p *parser) parseName() (Statement, error) {
	pos := p.cur.Pos
	first, err := p.eat(TokenID)
	if err != nil {
		return nil, err
	}
	ids := []string{first.Literal}
	for p.curIsChar(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		tok, err := p.eat(TokenID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tok.Literal)
	}

	if !p.curIsChar("(") {
		return &VariableValue{DottedIDs: ids, position: pos}, nil
	}

	if len(ids) == 1 {
		name := ids[0]
		if name == "str" {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			if len(args) != 1 {
				return nil, &parseError{pos: pos, msg: "str expects exactly one argument"}
			}
			return &Stringify{Arg: args[0], position: pos}, nil
		}
		cls, ok := p.classes[name]
		if !ok {
			return nil, &parseError{pos: pos, msg: fmt.Sprintf("unknown name %s", name)}
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &NewInstance{Class: cls, Args: args, position: pos}, nil
	}

	method := ids[len(ids)-1]
	object := &VariableValue{DottedIDs: ids[:len(ids)-1], position: pos}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	return &MethodCall{Object: object, Method: method, Args: args, position: pos}, nil
}

func (p *parser) parseCallArgs() ([]Statement, error) {
	if err := p.eatChar("("); err != nil {
		return nil, err
	}
	var args []Statement
	if !p.curIsChar(")") {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.curIsChar(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}
	if err := p.eatChar(")"); err != nil {
		return nil, err
	}
	return args, nil
}
