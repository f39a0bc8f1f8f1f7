package expr

import "github.com/shopspring/decimal"

type parser struct {
	src    string
	tokens []token
	pos    int
	idents []string
	seen   map[string]bool
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) acceptOp(ops ...string) (token, bool) {
	t := p.peek()
	if t.kind != tokOp {
		return t, false
	}
	for _, op := range ops {
		if t.text == op {
			p.pos++
			return t, true
		}
	}
	return t, false
}

func (p *parser) parse() (node, error) {
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		if t.kind == tokRParen {
			return nil, newError(p.src, t.pos, "unbalanced parentheses")
		}
		return nil, newError(p.src, t.pos, "unexpected token "+t.text)
	}
	return n, nil
}

func (p *parser) binaryLevel(sub func() (node, error), ops ...string) (node, error) {
	left, err := sub()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.acceptOp(ops...)
		if !ok {
			return left, nil
		}
		right, err := sub()
		if err != nil {
			return nil, err
		}
		left = binaryNode{op: t.text, left: left, right: right, pos: t.pos}
	}
}

func (p *parser) parseOr() (node, error) {
	return p.binaryLevel(p.parseAnd, "||")
}

func (p *parser) parseAnd() (node, error) {
	return p.binaryLevel(p.parseComparison, "&&")
}

func (p *parser) parseComparison() (node, error) {
	return p.binaryLevel(p.parseAdditive, ">", "<", ">=", "<=", "==", "!=")
}

func (p *parser) parseAdditive() (node, error) {
	return p.binaryLevel(p.parseTerm, "+", "-")
}

func (p *parser) parseTerm() (node, error) {
	return p.binaryLevel(p.parseUnary, "*", "/")
}

func (p *parser) parseUnary() (node, error) {
	if _, ok := p.acceptOp("-"); ok {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return negateNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		v, err := decimal.NewFromString(t.text)
		if err != nil {
			return nil, newError(p.src, t.pos, "malformed number")
		}
		return numberNode{value: v, text: t.text}, nil
	case tokIdent:
		if !p.seen[t.text] {
			p.seen[t.text] = true
			p.idents = append(p.idents, t.text)
		}
		return identNode{name: t.text, pos: t.pos}, nil
	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.next()
		if closing.kind != tokRParen {
			return nil, newError(p.src, t.pos, "unbalanced parentheses")
		}
		return inner, nil
	case tokRParen:
		return nil, newError(p.src, t.pos, "unbalanced parentheses")
	case tokEOF:
		return nil, newError(p.src, t.pos, "unexpected end of expression")
	}
	return nil, newError(p.src, t.pos, "unexpected operator "+t.text)
}
