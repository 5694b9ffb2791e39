package prerequisites

import "fmt"

// Parse turns prerequisite text into an expression tree.
//
//	expression := term ("or" term)*
//	term       := factor ("and" factor)*
//	factor     := "not" factor | "(" expression ")" | ["co-requisite"] MODULE | "true" | "false"
func Parse(text string) (Node, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{text: text, tokens: tokens}
	node, err := p.expression()
	if err != nil {
		return nil, err
	}
	if next := p.peek(); next.kind != tokenEOF {
		return nil, p.errorAt(next, fmt.Sprintf("unexpected %v after expression", next.kind))
	}
	return node, nil
}

type parser struct {
	text    string
	tokens  []token
	current int
}

func (p *parser) peek() token {
	return p.tokens[p.current]
}

func (p *parser) advance() token {
	next := p.tokens[p.current]
	if next.kind != tokenEOF {
		p.current++
	}
	return next
}

func (p *parser) errorAt(at token, reason string) error {
	return &ParseError{Text: p.text, Position: at.position, Reason: reason}
}

func (p *parser) expression() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenOr {
		p.advance()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Node, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokenAnd {
		p.advance()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) factor() (Node, error) {
	next := p.advance()
	switch next.kind {
	case tokenNot:
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	case tokenLeftParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.kind != tokenRightParen {
			return nil, p.errorAt(closing, fmt.Sprintf("expected ')' but found %v", closing.kind))
		}
		return inner, nil
	case tokenCorequisite:
		module := p.advance()
		if module.kind != tokenModule {
			return nil, p.errorAt(module, fmt.Sprintf("expected module code after co-requisite but found %v", module.kind))
		}
		return ModuleRef{Code: module.text, Corequisite: true}, nil
	case tokenModule:
		return ModuleRef{Code: next.text}, nil
	case tokenTrue:
		return Literal{Value: true}, nil
	case tokenFalse:
		return Literal{Value: false}, nil
	}
	return nil, p.errorAt(next, fmt.Sprintf("unexpected %v", next.kind))
}
