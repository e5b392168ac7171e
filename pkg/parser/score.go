package parser

import (
	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/braille"
)

func (p *parser) score() (*ast.Score, bool) {
	score := &ast.Score{}
	p.whitespaces()
	score.KeySignature = p.keySignature()
	p.whitespace()
	if t, ok := p.timeSignature(); ok {
		score.TimeSignatures = append(score.TimeSignatures, t)
		for {
			var next ast.TimeSignature
			ok := p.attempt(func() bool {
				var ok bool
				if !p.brl(braille.PartialVoiceSeparator) {
					return false
				}
				next, ok = p.timeSignature()
				return ok
			})
			if !ok {
				break
			}
			score.TimeSignatures = append(score.TimeSignatures, next)
		}
	}
	p.whitespaces()
	p.eols()

	for {
		var part *ast.Part
		ok := p.rule("part", func() bool {
			var ok bool
			if part, ok = p.keyboardPart(); ok {
				return true
			}
			part, ok = p.soloPart()
			return ok
		})
		if !ok {
			break
		}
		score.Parts = append(score.Parts, part)
	}
	if len(score.Parts) == 0 || !p.eoi() {
		return nil, false
	}
	return score, true
}

// keySignature never fails: no sign means no accidentals.
func (p *parser) keySignature() ast.KeySignature {
	for _, acc := range []struct {
		sign braille.Sign
		dir  int
	}{{braille.Accidentals[ast.Sharp], 1}, {braille.Accidentals[ast.Flat], -1}} {
		n := 0
		for n < 3 && p.brl(acc.sign) {
			n++
		}
		if n > 0 {
			return ast.KeySignature{Fifths: n * acc.dir}
		}

		var fifths int
		if p.attempt(func() bool {
			if !p.brl(braille.NumberSign) {
				return false
			}
			count, ok := p.upperNumber()
			if !ok || count <= 2 || !p.brl(acc.sign) {
				return false
			}
			fifths = count * acc.dir
			return true
		}) {
			return ast.KeySignature{Fifths: fifths}
		}
	}
	return ast.KeySignature{}
}

func (p *parser) timeSignature() (ast.TimeSignature, bool) {
	var t ast.TimeSignature
	ok := p.rule("time signature", func() bool {
		if p.brl(braille.CommonTime) {
			t = ast.TimeSignature{Numerator: 4, Denominator: 4, Symbol: ast.CommonTime}
			return true
		}
		if p.brl(braille.CutTime) {
			t = ast.TimeSignature{Numerator: 2, Denominator: 2, Symbol: ast.CutTime}
			return true
		}
		if !p.brl(braille.NumberSign) {
			return false
		}
		num, ok := p.upperNumber()
		if !ok || num == 0 {
			return false
		}
		den, ok := p.lowerNumber()
		if !ok || den == 0 {
			return false
		}
		t = ast.TimeSignature{Numerator: num, Denominator: den}
		return true
	})
	return t, ok
}

func (p *parser) keyAndTimeSignature() (*ast.KeyAndTimeSignature, bool) {
	var kt *ast.KeyAndTimeSignature
	ok := p.rule("key and time signature", func() bool {
		id, done := p.node()
		key := p.keySignature()
		t, ok := p.timeSignature()
		if !ok {
			return false
		}
		done()
		kt = &ast.KeyAndTimeSignature{Locatable: ast.Locatable{ID: id}, Key: key, Time: t}
		return true
	})
	return kt, ok
}

// sectionHeading reads the optional key and time signature line.
func (p *parser) sectionHeading() *ast.KeyAndTimeSignature {
	var kt *ast.KeyAndTimeSignature
	p.attempt(func() bool {
		p.whitespaces()
		var ok bool
		if kt, ok = p.keyAndTimeSignature(); !ok {
			return false
		}
		p.whitespaces()
		return p.eol()
	})
	return kt
}

func (p *parser) indent() bool {
	return p.rule("indent", func() bool {
		if !p.whitespace() || !p.whitespace() {
			return false
		}
		p.whitespaces()
		return true
	})
}

func (p *parser) sectionNumber() *int {
	var n int
	if p.attempt(func() bool {
		var ok bool
		if !p.brl(braille.NumberSign) {
			return false
		}
		if n, ok = p.upperNumber(); !ok {
			return false
		}
		return p.whitespace()
	}) {
		return &n
	}
	return nil
}

func (p *parser) measureSpecification() (ast.MeasureSpecification, bool) {
	var spec ast.MeasureSpecification
	n, ok := p.lowerNumber()
	if !ok {
		return spec, false
	}
	spec.Number = n
	p.attempt(func() bool {
		if !p.brl(braille.NumberSign) {
			return false
		}
		spec.Alternative, ok = p.lowerNumber()
		return ok
	})
	return spec, true
}

func (p *parser) measureRange() *ast.MeasureRange {
	var r ast.MeasureRange
	if p.rule("measure range", func() bool {
		var ok bool
		if !p.brl(braille.NumberSign) {
			return false
		}
		if r.First, ok = p.measureSpecification(); !ok || !p.brl(braille.Dash) {
			return false
		}
		if r.Last, ok = p.measureSpecification(); !ok {
			return false
		}
		return p.whitespace()
	}) {
		return &r
	}
	return nil
}

// eom matches the end of music sign, which the end-of-part barline extends
// with dot 3.
func (p *parser) eom() bool {
	return p.rule("end of music", func() bool {
		return p.brl(braille.EndOfMusic) && !p.peek(braille.Dot)
	})
}

// sectionEnd consumes the line end of a section. The last section of a
// part ends with the end of music sign instead.
func (p *parser) sectionEnd(last bool) bool {
	if !last {
		return p.rule("end of line", p.eol)
	}
	if !p.eom() {
		return false
	}
	if p.eoi() {
		return true
	}
	if !p.rule("end of line", p.eol) {
		return false
	}
	p.eols()
	return true
}

// handParagraph reads a hand sign and the staff that follows it.
func (p *parser) handParagraph(hand braille.Sign) (*ast.Paragraph, bool) {
	var para *ast.Paragraph
	ok := p.rule("hand sign", func() bool {
		if !p.brl(hand) || !p.optionalDot() {
			return false
		}
		var ok bool
		para, ok = p.paragraph()
		return ok
	})
	return para, ok
}

func (p *parser) keyboardSection(last bool) (*ast.Section, bool) {
	var section *ast.Section
	ok := p.attempt(func() bool {
		id, done := p.node()
		s := &ast.Section{Locatable: ast.Locatable{ID: id}, Keyboard: true}
		s.KeyAndTime = p.sectionHeading()
		if !p.indent() {
			return false
		}
		s.Number = p.sectionNumber()
		s.Range = p.measureRange()
		right, ok := p.handParagraph(braille.RightHand)
		if !ok || !p.sectionEnd(last) {
			return false
		}
		if !p.indent() {
			return false
		}
		left, ok := p.handParagraph(braille.LeftHand)
		if !ok || !p.sectionEnd(last) {
			return false
		}
		s.Paragraphs = []*ast.Paragraph{right, left}
		done()
		section = s
		return true
	})
	return section, ok
}

func (p *parser) soloSection(last bool) (*ast.Section, bool) {
	var section *ast.Section
	ok := p.attempt(func() bool {
		id, done := p.node()
		s := &ast.Section{Locatable: ast.Locatable{ID: id}}
		s.KeyAndTime = p.sectionHeading()
		p.indent()
		s.Number = p.sectionNumber()
		s.Range = p.measureRange()
		para, ok := p.paragraph()
		if !ok || !p.sectionEnd(last) {
			return false
		}
		s.Paragraphs = []*ast.Paragraph{para}
		done()
		section = s
		return true
	})
	return section, ok
}

type sectionFunc func(last bool) (*ast.Section, bool)

// part reads sections until one closes with the end of music sign.
func (p *parser) part(section sectionFunc) (*ast.Part, bool) {
	part := &ast.Part{}
	for {
		if s, ok := section(true); ok {
			part.Sections = append(part.Sections, s)
			return part, true
		}
		s, ok := section(false)
		if !ok {
			return nil, false
		}
		part.Sections = append(part.Sections, s)
	}
}

func (p *parser) keyboardPart() (*ast.Part, bool) {
	var part *ast.Part
	ok := p.attempt(func() bool {
		var ok bool
		part, ok = p.part(p.keyboardSection)
		return ok
	})
	return part, ok
}

func (p *parser) soloPart() (*ast.Part, bool) {
	var part *ast.Part
	ok := p.attempt(func() bool {
		var ok bool
		part, ok = p.part(p.soloSection)
		return ok
	})
	return part, ok
}

func (p *parser) paragraph() (*ast.Paragraph, bool) {
	var para *ast.Paragraph
	ok := p.rule("paragraph", func() bool {
		id, done := p.node()
		para = &ast.Paragraph{Locatable: ast.Locatable{ID: id}}
		element, ok := p.paragraphElement()
		if !ok {
			return false
		}
		para.Elements = append(para.Elements, element)
		for {
			ok := p.attempt(func() bool {
				if !p.whitespace() && !p.eol() {
					return false
				}
				element, ok = p.paragraphElement()
				return ok
			})
			if !ok {
				break
			}
			para.Elements = append(para.Elements, element)
		}
		done()
		return true
	})
	return para, ok
}

func (p *parser) paragraphElement() (ast.ParagraphElement, bool) {
	if kt, ok := p.keyAndTimeSignature(); ok {
		return kt, true
	}
	if m, ok := p.measure(); ok {
		return m, true
	}
	return nil, false
}
