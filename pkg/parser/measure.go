package parser

import (
	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/braille"
)

// separated parses item (sep item)*. A separator may be followed by line
// breaks.
func (p *parser) separated(sep braille.Sign, item func() bool) bool {
	if !item() {
		return false
	}
	for p.attempt(func() bool {
		if !p.brl(sep) {
			return false
		}
		p.eols()
		return item()
	}) {
	}
	return true
}

func (p *parser) measure() (*ast.Measure, bool) {
	var m *ast.Measure
	ok := p.rule("measure", func() bool {
		id, done := p.node()
		m = &ast.Measure{Locatable: ast.Locatable{ID: id}}
		p.attempt(func() bool {
			if !p.brl(braille.NumberSign) {
				return false
			}
			n, ok := p.digit(braille.LowerDigits)
			if !ok || !p.optionalDot() {
				return false
			}
			m.Ending = &n
			return true
		})
		if !p.separated(braille.VoiceSeparator, func() bool {
			v, ok := p.voice()
			if ok {
				m.Voices = append(m.Voices, v)
			}
			return ok
		}) {
			return false
		}
		done()
		return true
	})
	return m, ok
}

func (p *parser) voice() (*ast.Voice, bool) {
	id, done := p.node()
	v := &ast.Voice{Locatable: ast.Locatable{ID: id}}
	ok := p.separated(braille.PartialMeasureSeparator, func() bool {
		pm, ok := p.partialMeasure()
		if ok {
			v.PartialMeasures = append(v.PartialMeasures, pm)
		}
		return ok
	})
	done()
	return v, ok
}

func (p *parser) partialMeasure() (*ast.PartialMeasure, bool) {
	id, done := p.node()
	pm := &ast.PartialMeasure{Locatable: ast.Locatable{ID: id}}
	ok := p.separated(braille.PartialVoiceSeparator, func() bool {
		pv, ok := p.partialVoice()
		if ok {
			pm.PartialVoices = append(pm.PartialVoices, pv)
		}
		return ok
	})
	done()
	return pm, ok
}

func (p *parser) partialVoice() (*ast.PartialVoice, bool) {
	var pv *ast.PartialVoice
	ok := p.rule("sign", func() bool {
		id, done := p.node()
		pv = &ast.PartialVoice{Locatable: ast.Locatable{ID: id}}
		for {
			s, ok := p.sign()
			if !ok {
				break
			}
			pv.Signs = append(pv.Signs, s)
		}
		if len(pv.Signs) == 0 {
			return false
		}
		done()
		return true
	})
	return pv, ok
}
