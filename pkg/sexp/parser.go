package sexp

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// parser builds Nodes from a token stream.
type parser struct {
	lexer   *lexer
	current token
}

// Parse reads exactly one top-level list from r.
func Parse(r io.Reader) (*Node, error) {
	nodes, err := ParseAll(r)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("empty input: no s-expression found")
	case 1:
		if !nodes[0].IsList() {
			return nil, fmt.Errorf("line %d: top-level element must be a list", nodes[0].line)
		}
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("line %d: unexpected second top-level element", nodes[1].line)
	}
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses the file at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	n, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}

// ParseAll parses every top-level S-expression from r.
func ParseAll(r io.Reader) ([]*Node, error) {
	p := &parser{lexer: newLexer(r)}

	var result []*Node
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.current.typ != tokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *parser) advance() error {
	tok, err := p.lexer.next()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *parser) parseExpr() (*Node, error) {
	switch p.current.typ {
	case tokenLeftParen:
		return p.parseList()
	case tokenSymbol:
		return &Node{kind: KindToken, value: p.current.value, line: p.current.line}, nil
	case tokenString:
		return &Node{kind: KindString, value: p.current.value, line: p.current.line}, nil
	case tokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.line)
	default:
		return nil, fmt.Errorf("line %d: unexpected EOF", p.current.line)
	}
}

// parseList parses "(name child...)". The current token is '('.
func (p *parser) parseList() (*Node, error) {
	start := p.current.line
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.typ != tokenSymbol {
		return nil, fmt.Errorf("line %d: list must start with a name", start)
	}
	list := &Node{kind: KindList, value: p.current.value, line: start}

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.current.typ == tokenRightParen {
			break
		}
		if p.current.typ == tokenEOF {
			return nil, fmt.Errorf("line %d: unexpected EOF in list %q", start, list.value)
		}
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list.children = append(list.children, child)
	}

	return list, nil
}
