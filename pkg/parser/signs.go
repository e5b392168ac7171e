package parser

import (
	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/braille"
)

func (p *parser) sign() (ast.Sign, bool) {
	for _, alt := range []func() (ast.Sign, bool){
		p.hyphen, p.noteOrChord, p.rest, p.valuePrefix, p.simile, p.barline,
	} {
		if s, ok := alt(); ok {
			return s, true
		}
	}
	return nil, false
}

func (p *parser) hyphen() (ast.Sign, bool) {
	var h *ast.Hyphen
	ok := p.attempt(func() bool {
		id, done := p.node()
		if !p.brl(braille.Hyphen) || !p.eol() {
			return false
		}
		done()
		h = &ast.Hyphen{Locatable: ast.Locatable{ID: id}}
		return true
	})
	return h, ok
}

func (p *parser) accidental() ast.Accidental {
	for _, acc := range []ast.Accidental{ast.DoubleFlat, ast.Flat, ast.DoubleSharp, ast.Sharp, ast.Natural} {
		if p.brl(braille.Accidentals[acc]) {
			return acc
		}
	}
	return ast.NoAccidental
}

func (p *parser) octave() int {
	for _, o := range []int{1, 9, 2, 3, 4, 5, 6, 7, 8} {
		if p.brl(braille.Octaves[o]) {
			return o
		}
	}
	return 0
}

func (p *parser) dots() int {
	n := 0
	for p.brl(braille.Dot) {
		n++
	}
	return n
}

func (p *parser) slurs(max int) int {
	n := 0
	for n < max && p.brl(braille.Slur) {
		n++
	}
	return n
}

func (p *parser) finger() (int, bool) {
	return p.digitOf(braille.Fingers[1:], 1)
}

// digitOf matches one of cells and returns its index plus base.
func (p *parser) digitOf(cells []byte, base int) (int, bool) {
	c, ok := p.cell()
	if !ok {
		return 0, false
	}
	for i, want := range cells {
		if c == want {
			p.pos++
			return i + base, true
		}
	}
	return 0, false
}

func (p *parser) fingering() []ast.Finger {
	var fingers []ast.Finger
	for {
		var f ast.Finger
		ok := p.attempt(func() bool {
			var ok bool
			if f.Finger, ok = p.finger(); !ok {
				return false
			}
			p.attempt(func() bool {
				if !p.brl(braille.Slur) {
					return false
				}
				f.Change, ok = p.finger()
				return ok
			})
			return true
		})
		if !ok {
			return fingers
		}
		fingers = append(fingers, f)
	}
}

func (p *parser) note() (*ast.Note, bool) {
	var n *ast.Note
	ok := p.rule("note", func() bool {
		id, done := p.node()
		n = &ast.Note{Locatable: ast.Locatable{ID: id}}
		n.Accidental = p.accidental()
		n.Octave = p.octave()
		c, ok := p.cell()
		if !ok {
			return false
		}
		if n.Step, n.Value, ok = braille.SplitNote(c); !ok {
			return false
		}
		p.pos++
		n.Dots = p.dots()
		n.Slurs = p.slurs(2)
		n.Fingers = p.fingering()
		n.Slurs += p.slurs(2)
		n.Tie = p.brl(braille.Tie)
		done()
		return true
	})
	return n, ok
}

func (p *parser) interval() (ast.Interval, bool) {
	var iv ast.Interval
	ok := p.attempt(func() bool {
		iv.Accidental = p.accidental()
		iv.Octave = p.octave()
		var ok bool
		if iv.Steps, ok = p.digitOf(braille.Intervals[2:], 2); !ok {
			return false
		}
		iv.Fingers = p.fingering()
		iv.Tie = p.brl(braille.Tie)
		return !p.peek(braille.Dot)
	})
	return iv, ok
}

func (p *parser) noteOrChord() (ast.Sign, bool) {
	var s ast.Sign
	ok := p.attempt(func() bool {
		id, done := p.node()
		n, ok := p.note()
		if !ok {
			return false
		}
		var intervals []ast.Interval
		for {
			iv, ok := p.interval()
			if !ok {
				break
			}
			intervals = append(intervals, iv)
		}
		if len(intervals) == 0 {
			// The id reserved for a chord stays unused.
			s = n
			return true
		}
		chord := &ast.Chord{Locatable: ast.Locatable{ID: id}, Base: n, Intervals: intervals}
		chord.Tie = p.brl(braille.ChordTie)
		done()
		s = chord
		return true
	})
	return s, ok
}

func (p *parser) rest() (ast.Sign, bool) {
	var r *ast.Rest
	ok := p.rule("rest", func() bool {
		id, done := p.node()
		r = &ast.Rest{Locatable: ast.Locatable{ID: id}}
		r.ByTranscriber = p.brl(braille.ByTranscriber)
		v, ok := p.digitOf(braille.Rests[1:], 1)
		if !ok {
			return false
		}
		r.Value = ast.Value(v)
		r.Dots = p.dots()
		done()
		return true
	})
	return r, ok
}

func (p *parser) valuePrefix() (ast.Sign, bool) {
	for _, kind := range []ast.Distinction{ast.SmallFollows, ast.LargeFollows, ast.Distinct} {
		id, done := p.node()
		if p.brl(braille.ValuePrefixes[kind]) {
			done()
			return &ast.ValueDistinction{Locatable: ast.Locatable{ID: id}, Kind: kind}, true
		}
		p.ann.Forget(id)
	}
	return nil, false
}

func (p *parser) simile() (ast.Sign, bool) {
	var s *ast.Simile
	ok := p.rule("simile", func() bool {
		id, done := p.node()
		s = &ast.Simile{Locatable: ast.Locatable{ID: id}}
		s.Octave = p.octave()
		for p.brl(braille.Simile) {
			s.Count++
		}
		if s.Count == 0 {
			return false
		}
		p.attempt(func() bool {
			if !p.brl(braille.NumberSign) {
				return false
			}
			var ok bool
			s.Repeat, ok = p.upperNumber()
			return ok
		})
		done()
		return true
	})
	return s, ok
}

func (p *parser) barline() (ast.Sign, bool) {
	for _, kind := range []ast.BarlineKind{ast.EndPart, ast.BeginRepeat, ast.EndRepeat} {
		id, done := p.node()
		if p.brl(braille.Barlines[kind]) {
			done()
			return &ast.Barline{Locatable: ast.Locatable{ID: id}, Kind: kind}, true
		}
		p.ann.Forget(id)
	}
	return nil, false
}
