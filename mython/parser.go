package mython

// parser builds the syntax tree over the lexer's cursor. Classes are
// constructed while parsing, so instantiation sites reference the class
// descriptor directly and a base class must be declared before its
// subclasses.
type parser struct {
	lx      *Lexer
	classes map[string]*Class
}

func parse(lx *Lexer) (*Compound, error) {
	p := &parser{lx: lx, classes: make(map[string]*Class)}
	return p.parseProgram()
}

func (p *parser) cur() Token { return p.lx.CurrentToken() }

func (p *parser) curIs(tt TokenType) bool { return p.cur().Type == tt }

func (p *parser) curIsChar(c byte) bool {
	t := p.cur()
	return t.Type == tokenChar && len(t.Literal) == 1 && t.Literal[0] == c
}

func (p *parser) advance() error {
	_, err := p.lx.NextToken()
	return err
}

func (p *parser) expectChar(c byte) error {
	if err := p.lx.ExpectValue(tokenChar, string(c)); err != nil {
		return err
	}
	return p.advance()
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok, err := p.lx.Expect(tt)
	if err != nil {
		return Token{}, err
	}
	return tok, p.advance()
}

func (p *parser) parseProgram() (*Compound, error) {
	var stmts []Statement
	for !p.curIs(tokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &Compound{Stmts: stmts}, nil
}

func (p *parser) parseStatement() (Statement, error) {
	switch {
	case p.curIs(tokenClass):
		return p.parseClassDefinition()
	case p.curIs(tokenIf):
		return p.parseIfElse()
	case p.curIs(tokenReturn):
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenNewline); err != nil {
			return nil, err
		}
		return &Return{Arg: arg}, nil
	case p.curIs(tokenPrint):
		return p.parsePrint()
	case p.curIs(tokenIdent):
		return p.parseSimpleStatement()
	default:
		return nil, newParseError("unexpected token %s at statement start", p.cur())
	}
}

func (p *parser) parsePrint() (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Statement
	if !p.curIs(tokenNewline) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.curIsChar(',') {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	return &Print{Args: args}, nil
}

// parseSimpleStatement handles the statement forms that start with an
// identifier chain: assignment, field assignment, and call statements.
func (p *parser) parseSimpleStatement() (Statement, error) {
	ids, err := p.parseDottedIDs()
	if err != nil {
		return nil, err
	}

	var stmt Statement
	switch {
	case p.curIsChar('='):
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if len(ids) == 1 {
			stmt = &Assignment{Name: ids[0], RHS: rhs}
		} else {
			stmt = &FieldAssignment{
				Object:    VariableValue{DottedIDs: ids[:len(ids)-1]},
				FieldName: ids[len(ids)-1],
				RHS:       rhs,
			}
		}
	case p.curIsChar('('):
		call, err := p.finishCall(ids)
		if err != nil {
			return nil, err
		}
		stmt, err = p.parsePostfix(call)
		if err != nil {
			return nil, err
		}
	default:
		return nil, newParseError("expected assignment or call, got %s", p.cur())
	}

	if _, err := p.expect(tokenNewline); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseDottedIDs() ([]string, error) {
	tok, err := p.lx.Expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	ids := []string{tok.Literal}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.curIsChar('.') {
		tok, err := p.lx.ExpectNext(tokenIdent)
		if err != nil {
			return nil, err
		}
		ids = append(ids, tok.Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// finishCall turns an identifier chain followed by an argument list into
// an instantiation, a stringification, or a method call.
func (p *parser) finishCall(ids []string) (Statement, error) {
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	if len(ids) > 1 {
		return &MethodCall{
			Object: &VariableValue{DottedIDs: ids[:len(ids)-1]},
			Method: ids[len(ids)-1],
			Args:   args,
		}, nil
	}
	if cls, ok := p.classes[ids[0]]; ok {
		return &NewInstance{Class: cls, Args: args}, nil
	}
	if ids[0] == "str" && len(args) == 1 {
		return &Stringify{Arg: args[0]}, nil
	}
	return nil, newParseError("%s is not a known class", ids[0])
}

// parsePostfix chains further method calls onto an already-parsed
// receiver expression, as in C().size().
func (p *parser) parsePostfix(node Statement) (Statement, error) {
	for p.curIsChar('.') {
		tok, err := p.lx.ExpectNext(tokenIdent)
		if err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if !p.curIsChar('(') {
			return nil, newParseError("expected ( after .%s", tok.Literal)
		}
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		node = &MethodCall{Object: node, Method: tok.Literal, Args: args}
	}
	return node, nil
}

func (p *parser) parseArgs() ([]Statement, error) {
	if err := p.expectChar('('); err != nil {
		return nil, err
	}
	var args []Statement
	if !p.curIsChar(')') {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.curIsChar(',') {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectChar(')'); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseClassDefinition() (Statement, error) {
	name, err := p.lx.ExpectNext(tokenIdent)
	if err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var parent *Class
	if p.curIsChar('(') {
		base, err := p.lx.ExpectNext(tokenIdent)
		if err != nil {
			return nil, err
		}
		parent = p.classes[base.Literal]
		if parent == nil {
			return nil, newParseError("%s is not a known base class", base.Literal)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectChar(')'); err != nil {
			return nil, err
		}
	}
	if err := p.parseBlockStart(); err != nil {
		return nil, err
	}

	// The class is registered before its methods are parsed so that a
	// method body can instantiate its own class; the descriptor is filled
	// in once the methods are known.
	cls := &Class{name: name.Literal, parent: parent}
	p.classes[name.Literal] = cls

	var methods []Method
	for p.curIs(tokenDef) {
		m, err := p.parseMethod()
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return nil, newParseError("class %s has no methods", name.Literal)
	}
	if _, err := p.expect(tokenDedent); err != nil {
		return nil, err
	}

	*cls = *NewClassDef(name.Literal, methods, parent)
	return &ClassDefinition{Cls: NewClass(cls)}, nil
}

func (p *parser) parseMethod() (Method, error) {
	name, err := p.lx.ExpectNext(tokenIdent)
	if err != nil {
		return Method{}, err
	}
	if err := p.advance(); err != nil {
		return Method{}, err
	}
	if err := p.expectChar('('); err != nil {
		return Method{}, err
	}

	self, err := p.expect(tokenIdent)
	if err != nil {
		return Method{}, err
	}
	if self.Literal != "self" {
		return Method{}, newParseError("first parameter of %s must be self", name.Literal)
	}
	var params []string
	for p.curIsChar(',') {
		tok, err := p.lx.ExpectNext(tokenIdent)
		if err != nil {
			return Method{}, err
		}
		params = append(params, tok.Literal)
		if err := p.advance(); err != nil {
			return Method{}, err
		}
	}
	if err := p.expectChar(')'); err != nil {
		return Method{}, err
	}
	if err := p.parseBlockStart(); err != nil {
		return Method{}, err
	}
	body, err := p.parseSuite()
	if err != nil {
		return Method{}, err
	}
	return Method{
		Name:         name.Literal,
		FormalParams: params,
		Body:         &MethodBody{Body: body},
	}, nil
}

func (p *parser) parseIfElse() (Statement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.parseBlockStart(); err != nil {
		return nil, err
	}
	ifBody, err := p.parseSuite()
	if err != nil {
		return nil, err
	}

	var elseBody Statement
	if p.curIs(tokenElse) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.parseBlockStart(); err != nil {
			return nil, err
		}
		elseBody, err = p.parseSuite()
		if err != nil {
			return nil, err
		}
	}
	return &IfElse{Condition: cond, IfBody: ifBody, ElseBody: elseBody}, nil
}

// parseBlockStart consumes the ": NEWLINE INDENT" opening of a suite.
func (p *parser) parseBlockStart() error {
	if err := p.expectChar(':'); err != nil {
		return err
	}
	if _, err := p.expect(tokenNewline); err != nil {
		return err
	}
	if _, err := p.expect(tokenIndent); err != nil {
		return err
	}
	return nil
}

// parseSuite parses statements until the matching DEDENT, which it
// consumes.
func (p *parser) parseSuite() (Statement, error) {
	var stmts []Statement
	for !p.curIs(tokenDedent) && !p.curIs(tokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if p.curIs(tokenDedent) {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return &Compound{Stmts: stmts}, nil
}

func (p *parser) parseExpression() (Statement, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Statement, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.curIs(tokenOr) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Statement, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.curIs(tokenAnd) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Lhs: left, Rhs: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Statement, error) {
	if p.curIs(tokenNot) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Arg: arg}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Statement, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	var cmp Comparator
	switch {
	case p.curIs(tokenEq):
		cmp = Equal
	case p.curIs(tokenNotEq):
		cmp = NotEqual
	case p.curIs(tokenLessOrEq):
		cmp = LessOrEqual
	case p.curIs(tokenGreaterOrEq):
		cmp = GreaterOrEqual
	case p.curIsChar('<'):
		cmp = Less
	case p.curIsChar('>'):
		cmp = Greater
	default:
		return left, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}
	return &Comparison{Cmp: cmp, Lhs: left, Rhs: right}, nil
}

func (p *parser) parseAddSub() (Statement, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.curIsChar('+'):
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			left = &Add{Lhs: left, Rhs: right}
		case p.curIsChar('-'):
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseMulDiv()
			if err != nil {
				return nil, err
			}
			left = &Sub{Lhs: left, Rhs: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseMulDiv() (Statement, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.curIsChar('*'):
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Mult{Lhs: left, Rhs: right}
		case p.curIsChar('/'):
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = &Div{Lhs: left, Rhs: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseUnary() (Statement, error) {
	if p.curIsChar('-') {
		if err := p.advance(); err != nil {
			return nil, err
		}
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Sub{Lhs: &Constant{Value: NewNumber(0)}, Rhs: arg}, nil
	}
	if p.curIsChar('+') {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parseUnary()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Statement, error) {
	switch {
	case p.curIs(tokenNumber):
		val := NewNumber(p.cur().Int)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: val}, nil
	case p.curIs(tokenString):
		val := NewString(p.cur().Literal)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: val}, nil
	case p.curIs(tokenTrue):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: NewBool(true)}, nil
	case p.curIs(tokenFalse):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: NewBool(false)}, nil
	case p.curIs(tokenNone):
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Constant{Value: NewNone()}, nil
	case p.curIsChar('('):
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectChar(')'); err != nil {
			return nil, err
		}
		return p.parsePostfix(expr)
	case p.curIs(tokenIdent):
		ids, err := p.parseDottedIDs()
		if err != nil {
			return nil, err
		}
		var node Statement
		if p.curIsChar('(') {
			node, err = p.finishCall(ids)
			if err != nil {
				return nil, err
			}
		} else {
			node = &VariableValue{DottedIDs: ids}
		}
		return p.parsePostfix(node)
	default:
		return nil, newParseError("unexpected token %s in expression", p.cur())
	}
}
