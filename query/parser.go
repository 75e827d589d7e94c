package query

import (
	"fmt"
	"strings"
)

// Parse builds an AST from a token sequence. It owns all structural
// validation: empty input, unmatched parentheses, prefixes without values
// and misplaced range operators come back as *SyntaxError. Field names are
// accepted unchecked here; the evaluator owns field validity.
func Parse(tokens []Token) (Node, error) {
	p := &parser{tokens: tokens}
	if p.current().Type == TokenEOF {
		return nil, &SyntaxError{Message: "empty query", Position: 0}
	}
	node, err := p.parseExpression(bindNone)
	if err != nil {
		return nil, err
	}
	if tok := p.current(); tok.Type != TokenEOF {
		if tok.Type == TokenRParen {
			return nil, &SyntaxError{Message: "unmatched ')'", Position: tok.Position}
		}
		return nil, &SyntaxError{Message: fmt.Sprintf("unexpected %s", tok.Type), Position: tok.Position}
	}
	return node, nil
}

// ParseQuery tokenizes and parses a query string in one step.
func ParseQuery(query string) (Node, error) {
	return Parse(Tokenize(query))
}

// Validate reports whether a query string parses. Intended for callers that
// check syntax as the user types; all errors collapse to false.
func Validate(query string) bool {
	_, err := ParseQuery(query)
	return err == nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// parseExpression is the Pratt core loop: parse one atom, then keep folding
// in operators and juxtaposed operands while their binding power exceeds
// minBP. Juxtaposition is an implicit AND; an infix NOT rewrites to
// left AND (NOT right).
func (p *parser) parseExpression(minBP int) (Node, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.current()
		if tok.Type == TokenEOF || tok.Type == TokenRParen {
			return left, nil
		}
		bp := bindingPower(tok.Type)
		if bp <= minBP {
			return left, nil
		}

		switch tok.Type {
		case TokenAnd:
			p.advance()
			right, err := p.parseExpression(bp - 1)
			if err != nil {
				return nil, err
			}
			left = conjoin(left, right)

		case TokenOr:
			p.advance()
			right, err := p.parseExpression(bp - 1)
			if err != nil {
				return nil, err
			}
			left = disjoin(left, right)

		case TokenNot:
			p.advance()
			// Parsing at the join level keeps NOT unary: it negates one
			// operand, and anything after rejoins the conjunction.
			operand, err := p.parseExpression(bindJoin)
			if err != nil {
				return nil, err
			}
			left = conjoin(left, &Not{Child: operand, Pos: tok.Position})

		case TokenWord, TokenPhrase, TokenPrefix, TokenProperty, TokenLParen:
			right, err := p.parseAtom()
			if err != nil {
				return nil, err
			}
			left = conjoin(left, right)

		case TokenRange:
			return nil, &SyntaxError{
				Message:  "range operator is only valid after a scheduled: or deadline: filter",
				Position: tok.Position,
			}

		default:
			return nil, &SyntaxError{Message: fmt.Sprintf("unexpected %s", tok.Type), Position: tok.Position}
		}
	}
}

// parseAtom parses one operand: a term, phrase, filter, NOT-negated atom or
// parenthesized subexpression.
func (p *parser) parseAtom() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenWord:
		p.advance()
		return &Term{Value: tok.Value, Pos: tok.Position}, nil

	case TokenPhrase:
		p.advance()
		return &Phrase{Value: tok.Value, Pos: tok.Position}, nil

	case TokenNot:
		p.advance()
		operand, err := p.parseExpression(bindJoin)
		if err != nil {
			return nil, err
		}
		return &Not{Child: operand, Pos: tok.Position}, nil

	case TokenLParen:
		p.advance()
		node, err := p.parseExpression(bindNone)
		if err != nil {
			return nil, err
		}
		if p.current().Type != TokenRParen {
			return nil, &SyntaxError{Message: "unmatched '('", Position: tok.Position}
		}
		p.advance()
		return node, nil

	case TokenPrefix:
		return p.parsePrefixFilter()

	case TokenProperty:
		return p.parsePropertyFilter()

	case TokenEOF:
		return nil, &SyntaxError{Message: "unexpected end of query", Position: tok.Position}

	default:
		return nil, &SyntaxError{Message: fmt.Sprintf("unexpected %s", tok.Type), Position: tok.Position}
	}
}

// parsePrefixFilter consumes a prefix token plus its value, and a trailing
// ..end range when present. Ranges are only legal on the date fields; that
// much the parser checks itself, since a range filter's field is part of its
// shape rather than an evaluation concern.
func (p *parser) parsePrefixFilter() (Node, error) {
	pre := p.advance()
	val := p.current()
	if val.Type != TokenPrefixValue && val.Type != TokenPrefixValueQuoted {
		return nil, &SyntaxError{
			Message:  fmt.Sprintf("filter %q is missing a value", pre.Original),
			Position: pre.Position,
		}
	}
	p.advance()

	filter := &PrefixFilter{
		Field: strings.ToLower(pre.Value),
		Value: val.Value,
		Exact: val.Type == TokenPrefixValueQuoted,
		Pos:   pre.Position,
	}

	if p.current().Type != TokenRange {
		return filter, nil
	}
	rng := p.advance()
	if filter.Field != "scheduled" && filter.Field != "deadline" {
		return nil, &SyntaxError{
			Message:  "range operator is only valid after a scheduled: or deadline: filter",
			Position: rng.Position,
		}
	}
	end := p.current()
	switch end.Type {
	case TokenPrefixValue, TokenPrefixValueQuoted, TokenWord, TokenPhrase:
		p.advance()
	default:
		return nil, &SyntaxError{Message: "range is missing an end date", Position: rng.Position}
	}
	return &RangeFilter{
		Field: filter.Field,
		Start: filter.Value,
		End:   end.Value,
		Pos:   filter.Pos,
	}, nil
}

// parsePropertyFilter splits a [key:value] token on its first colon. Quoting
// is detected from the original source text, not the normalized value, so
// ["key"] and [key:"value"] both force exact matching. A missing or empty
// value degrades to a key-only filter.
func (p *parser) parsePropertyFilter() (Node, error) {
	tok := p.advance()
	raw := strings.TrimSpace(tok.Value)
	key, value := raw, ""
	if idx := strings.Index(raw, ":"); idx >= 0 {
		key = strings.TrimSpace(raw[:idx])
		value = strings.TrimSpace(raw[idx+1:])
	}
	return &PropertyFilter{
		Key:   unquote(key),
		Value: unquote(value),
		Exact: strings.Contains(tok.Original, `"`),
		Pos:   tok.Position,
	}, nil
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// conjoin folds right into left as a conjunction, flattening nested And
// nodes so filter chains stay n-ary instead of right-nested.
func conjoin(left, right Node) Node {
	out := &And{Pos: left.Position()}
	if and, ok := left.(*And); ok {
		out.Children = append(out.Children, and.Children...)
	} else {
		out.Children = append(out.Children, left)
	}
	if and, ok := right.(*And); ok {
		out.Children = append(out.Children, and.Children...)
	} else {
		out.Children = append(out.Children, right)
	}
	return out
}

// disjoin is conjoin's dual for Or nodes.
func disjoin(left, right Node) Node {
	out := &Or{Pos: left.Position()}
	if or, ok := left.(*Or); ok {
		out.Children = append(out.Children, or.Children...)
	} else {
		out.Children = append(out.Children, left)
	}
	if or, ok := right.(*Or); ok {
		out.Children = append(out.Children, or.Children...)
	} else {
		out.Children = append(out.Children, right)
	}
	return out
}
