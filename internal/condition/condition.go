// Package condition evaluates the boolean visibility expressions carried by
// library view files (the visible="..." attribute).
//
// Supported syntax mirrors the host's info expressions:
//
//	expr  := and ('|' and)*
//	and   := unary ('+' unary)*
//	unary := '!' unary | '[' expr ']' | term
//
// Terms are predicates such as Library.HasContent(movies) or the literals
// true/false. Predicates this package does not know evaluate to the
// configured default.
package condition

import (
	"strings"
)

// Evaluator decides whether a visibility expression currently holds.
type Evaluator interface {
	Visible(expr string) bool
}

// Constant is an Evaluator that ignores the expression.
type Constant bool

// Visible implements Evaluator.
func (c Constant) Visible(string) bool { return bool(c) }

// Library evaluates expressions against a known set of library content
// types and installed add-ons.
type Library struct {
	content map[string]bool
	addons  map[string]bool
	dflt    bool
}

// NewLibrary returns an evaluator for the given content types (movies,
// tvshows, musicvideos, ...) and add-on ids. Unknown predicates evaluate
// to dflt.
func NewLibrary(content, addons []string, dflt bool) *Library {
	l := &Library{
		content: make(map[string]bool, len(content)),
		addons:  make(map[string]bool, len(addons)),
		dflt:    dflt,
	}
	for _, c := range content {
		l.content[strings.ToLower(strings.TrimSpace(c))] = true
	}
	for _, a := range addons {
		l.addons[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return l
}

// Visible implements Evaluator. A malformed expression evaluates to the
// default.
func (l *Library) Visible(expr string) bool {
	p := &parser{src: expr, eval: l.term}
	v, ok := p.parseOr()
	if !ok {
		return l.dflt
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return l.dflt
	}
	return v
}

func (l *Library) term(t string) bool {
	name, arg, hasArg := splitPredicate(t)
	switch name {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	case "library.hascontent":
		return hasArg && l.content[arg]
	case "system.hasaddon":
		return hasArg && l.addons[arg]
	default:
		return l.dflt
	}
}

// splitPredicate splits "Name(arg)" into lower-cased name and argument.
func splitPredicate(t string) (name, arg string, ok bool) {
	t = strings.TrimSpace(t)
	open := strings.IndexByte(t, '(')
	if open < 0 || !strings.HasSuffix(t, ")") {
		return strings.ToLower(t), "", false
	}
	name = strings.ToLower(strings.TrimSpace(t[:open]))
	arg = strings.ToLower(strings.TrimSpace(t[open+1 : len(t)-1]))
	return name, arg, true
}

type parser struct {
	src  string
	pos  int
	eval func(string) bool
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseOr() (bool, bool) {
	v, ok := p.parseAnd()
	if !ok {
		return false, false
	}
	for p.peek() == '|' {
		p.pos++
		r, ok := p.parseAnd()
		if !ok {
			return false, false
		}
		v = v || r
	}
	return v, true
}

func (p *parser) parseAnd() (bool, bool) {
	v, ok := p.parseUnary()
	if !ok {
		return false, false
	}
	for p.peek() == '+' {
		p.pos++
		r, ok := p.parseUnary()
		if !ok {
			return false, false
		}
		v = v && r
	}
	return v, true
}

func (p *parser) parseUnary() (bool, bool) {
	switch p.peek() {
	case '!':
		p.pos++
		v, ok := p.parseUnary()
		return !v, ok
	case '[':
		p.pos++
		v, ok := p.parseOr()
		if !ok || p.peek() != ']' {
			return false, false
		}
		p.pos++
		return v, true
	case 0, '|', '+', ']':
		return false, false
	}
	return p.parseTerm()
}

// parseTerm consumes a predicate. Operators inside parentheses belong to
// the predicate argument.
func (p *parser) parseTerm() (bool, bool) {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if depth == 0 && (c == '|' || c == '+' || c == ']' || c == '[') {
			break
		}
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		}
		p.pos++
	}
	t := strings.TrimSpace(p.src[start:p.pos])
	if t == "" || depth != 0 {
		return false, false
	}
	return p.eval(t), true
}
