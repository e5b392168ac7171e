// Package parser reads Unicode braille music into an ast.Score.
//
// The grammar is a parsing expression grammar evaluated by recursive
// descent: alternatives are ordered and a failed alternative restores the
// input position. Every node gets an id whose source range is recorded in
// the returned ast.Annotations.
package parser

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/braille"
)

// SyntaxError is returned when the input does not form a score. Pos is the
// rune offset of the first token the grammar could not accept.
type SyntaxError struct {
	Pos      int
	Expected []string
	// Found is the offending character, zero at the end of input.
	Found rune
}

func (e *SyntaxError) AtEOF() bool { return e.Found == 0 }

func (e *SyntaxError) Error() string {
	var b strings.Builder
	if e.AtEOF() {
		b.WriteString("unexpected end of file")
	} else {
		fmt.Fprintf(&b, "unexpected %s", Describe(e.Found))
	}
	if len(e.Expected) > 0 {
		b.WriteString(", expecting ")
		b.WriteString(strings.Join(e.Expected, " or "))
	}
	return b.String()
}

// Describe names a character the way diagnostics print it.
func Describe(r rune) string {
	switch {
	case r == '\n' || r == '\r':
		return "end of line"
	case r == ' ' || r == 0x2800:
		return "whitespace"
	case r > 0x2800 && r <= 0x28ff:
		var dots []byte
		for i := 0; i < 8; i++ {
			if r&(1<<i) != 0 {
				dots = append(dots, byte('1'+i))
			}
		}
		return fmt.Sprintf("%c (dots %s)", r, dots)
	}
	return fmt.Sprintf("%q", r)
}

// Parse parses a complete score.
func Parse(input string) (*ast.Score, *ast.Annotations, error) {
	p := newParser(input)
	score, ok := p.score()
	if !ok {
		return nil, p.ann, p.syntaxError()
	}
	return score, p.ann, nil
}

type parser struct {
	input []rune
	pos   int
	ann   *ast.Annotations

	farthest int
	expected []string
}

func newParser(input string) *parser {
	return &parser{input: []rune(input), ann: ast.NewAnnotations()}
}

func (p *parser) syntaxError() *SyntaxError {
	err := &SyntaxError{Pos: p.farthest, Expected: p.expected}
	if p.farthest < len(p.input) {
		err.Found = p.input[p.farthest]
	}
	return err
}

// touch records that the grammar looked at the current position.
func (p *parser) touch() {
	if p.pos > p.farthest {
		p.farthest = p.pos
		p.expected = nil
	}
}

// rule runs f as a named construct. On failure the position and any ids
// allocated by f are rolled back, and name becomes an expectation when f
// got no further than its start.
func (p *parser) rule(name string, f func() bool) bool {
	start, mark := p.pos, p.ann.Len()
	if f() {
		return true
	}
	p.pos = start
	p.ann.Forget(mark)
	p.touch()
	if name != "" && start == p.farthest && !slices.Contains(p.expected, name) {
		p.expected = append(p.expected, name)
	}
	return false
}

// attempt is rule without an expectation name.
func (p *parser) attempt(f func() bool) bool {
	return p.rule("", f)
}

// node allocates an id for a node starting at the current position and
// returns a function that records its range once the node is complete.
func (p *parser) node() (int, func()) {
	id, begin := p.ann.Next(), p.pos
	return id, func() { p.ann.Annotate(id, begin, p.pos) }
}

func (p *parser) eoi() bool {
	p.touch()
	return p.pos >= len(p.input)
}

// cell returns the dots of the braille cell at the current position.
func (p *parser) cell() (byte, bool) {
	p.touch()
	if p.pos >= len(p.input) {
		return 0, false
	}
	r := p.input[p.pos]
	if r < 0x2800 || r > 0x28ff {
		return 0, false
	}
	return byte(r - 0x2800), true
}

func (p *parser) cellAt(offset int) (byte, bool) {
	i := p.pos + offset
	if i >= len(p.input) || p.input[i] < 0x2800 || p.input[i] > 0x28ff {
		return 0, false
	}
	return byte(p.input[i] - 0x2800), true
}

// brl consumes s if the input continues with it.
func (p *parser) brl(s braille.Sign) bool {
	start := p.pos
	for _, want := range s {
		got, ok := p.cell()
		if !ok || got != want {
			p.pos = start
			return false
		}
		p.pos++
	}
	return true
}

// peek reports whether the input continues with s without consuming it.
func (p *parser) peek(s braille.Sign) bool {
	start := p.pos
	ok := p.brl(s)
	p.pos = start
	return ok
}

func (p *parser) whitespace() bool {
	p.touch()
	if p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == 0x2800) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) whitespaces() {
	for p.whitespace() {
	}
}

func (p *parser) eol() bool {
	p.touch()
	if p.pos >= len(p.input) {
		return false
	}
	switch p.input[p.pos] {
	case '\r':
		p.pos++
		if p.pos < len(p.input) && p.input[p.pos] == '\n' {
			p.pos++
		}
		return true
	case '\n':
		p.pos++
		return true
	}
	return false
}

func (p *parser) eols() {
	for p.eol() {
	}
}

// optionalDot accepts the dot 3 that separates a number from a following
// cell with dots in the upper left, and requires it when such a cell
// follows.
func (p *parser) optionalDot() bool {
	next, ok := p.cellAt(0)
	if !ok || !braille.HasDots123(next) {
		return true
	}
	after, ok := p.cellAt(1)
	if next == braille.Dot[0] && ok && braille.HasDots123(after) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) digit(digits [10]byte) (int, bool) {
	c, ok := p.cell()
	if !ok {
		return 0, false
	}
	if i := slices.Index(digits[:], c); i >= 0 {
		p.pos++
		return i, true
	}
	return 0, false
}

func (p *parser) number(digits [10]byte) (int, bool) {
	n, ok := p.digit(digits)
	if !ok {
		return 0, false
	}
	for {
		d, ok := p.digit(digits)
		if !ok {
			return n, true
		}
		n = n*10 + d
	}
}

func (p *parser) upperNumber() (int, bool) { return p.number(braille.UpperDigits) }
func (p *parser) lowerNumber() (int, bool) { return p.number(braille.LowerDigits) }
