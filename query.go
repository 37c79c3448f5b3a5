package tagcatalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expr is a node of a parsed query before tag names are bound to ids.
//
// Grammar:
//
//	query := term*
//	term  := '!' term | '$' word | '@' word ( '[' term* ']' )? | word
//	word  := bare | '"' ( [^"\\] | '\' any )* '"'
//
// Bare words run until whitespace, a bracket or a quote.
type Expr interface {
	expr()
}

// Word is a bare or quoted word. As a term it names a tag; as a function
// parameter it is a plain string.
type Word struct {
	Text   string
	Quoted bool
}

// ExactWord is a '$'-prefixed tag name.
type ExactWord struct {
	Text string
}

// Call is an '@'-prefixed function with an optional bracketed parameter list.
type Call struct {
	Name   string
	Params []Expr
}

type Negation struct {
	Inner Expr
}

func (Word) expr()      {}
func (ExactWord) expr() {}
func (Call) expr()      {}
func (Negation) expr()  {}

// ParseQuery parses query text into a list of expressions.
func ParseQuery(text string) ([]Expr, error) {
	p := &parser{src: text}
	exprs, err := p.terms(false)
	if err != nil {
		return nil, err
	}
	return exprs, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(msg string) error {
	return &ParseError{Pos: p.pos, Msg: msg}
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r, true
}

func (p *parser) advance() rune {
	r, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
	return r
}

func (p *parser) skipSpace() {
	for {
		r, ok := p.peek()
		if !ok || !unicode.IsSpace(r) {
			return
		}
		p.advance()
	}
}

// terms parses terms until end of input, or until ']' when nested.
func (p *parser) terms(nested bool) ([]Expr, error) {
	var exprs []Expr
	for {
		p.skipSpace()
		r, ok := p.peek()
		if !ok {
			if nested {
				return nil, p.errorf("unterminated parameter list")
			}
			return exprs, nil
		}
		if r == ']' {
			if !nested {
				return nil, p.errorf("unexpected ']'")
			}
			p.advance()
			return exprs, nil
		}
		e, err := p.term()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
}

func (p *parser) term() (Expr, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of query")
	}
	switch r {
	case '!':
		p.advance()
		inner, err := p.term()
		if err != nil {
			return nil, err
		}
		return Negation{Inner: inner}, nil
	case '$':
		p.advance()
		w, err := p.word()
		if err != nil {
			return nil, err
		}
		return ExactWord{Text: w.Text}, nil
	case '@':
		p.advance()
		name, err := p.word()
		if err != nil {
			return nil, err
		}
		call := Call{Name: name.Text}
		if next, ok := p.peek(); ok && next == '[' {
			p.advance()
			params, err := p.terms(true)
			if err != nil {
				return nil, err
			}
			call.Params = params
		}
		return call, nil
	case '[':
		return nil, p.errorf("unexpected '['")
	}
	return p.word()
}

func (p *parser) word() (Word, error) {
	r, ok := p.peek()
	if !ok {
		return Word{}, p.errorf("expected a word")
	}
	if r == '"' {
		return p.quoted()
	}

	start := p.pos
	for {
		r, ok := p.peek()
		if !ok || unicode.IsSpace(r) || r == '[' || r == ']' || r == '"' {
			break
		}
		p.advance()
	}
	if p.pos == start {
		return Word{}, p.errorf("expected a word")
	}
	return Word{Text: p.src[start:p.pos]}, nil
}

func (p *parser) quoted() (Word, error) {
	p.advance()
	var b strings.Builder
	for {
		r, ok := p.peek()
		if !ok {
			return Word{}, p.errorf("unterminated string")
		}
		p.advance()
		switch r {
		case '"':
			return Word{Text: b.String(), Quoted: true}, nil
		case '\\':
			if _, ok := p.peek(); !ok {
				return Word{}, p.errorf("unterminated escape")
			}
			b.WriteRune(p.advance())
		default:
			b.WriteRune(r)
		}
	}
}

// quoteWord renders s so that ParseQuery reads it back as a single word.
func quoteWord(s string) string {
	if s != "" && !needsQuoting(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	if first == '!' || first == '$' || first == '@' {
		return true
	}
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '[' || r == ']' || r == '"' || r == '\\'
	}) >= 0
}
