// Package reformat prints a disambiguated score as braille music, breaking
// each paragraph to the configured width.
package reformat

import (
	"strings"
	"unicode/utf8"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/braille"
	"github.com/bmc/pkg/linebreak"
)

// Fragment is a piece of output. Label describes it for diagnostics and
// tests only.
type Fragment struct {
	Unicode string
	Label   string
}

func (f Fragment) Width() int { return utf8.RuneCountInString(f.Unicode) }

type Output []Fragment

func (o Output) String() string {
	var b strings.Builder
	for _, f := range o {
		b.WriteString(f.Unicode)
	}
	return b.String()
}

// Style controls the layout.
type Style struct {
	// Columns is the width of a line in cells.
	Columns int
	// FirstLineColumns, when set, is the width of the first line of every
	// paragraph.
	FirstLineColumns int
}

func DefaultStyle() Style { return Style{Columns: 40} }

func (s Style) lineLengths() []int {
	columns := s.Columns
	if columns <= 0 {
		columns = DefaultStyle().Columns
	}
	if s.FirstLineColumns > 0 {
		return []int{s.FirstLineColumns, columns}
	}
	return []int{columns}
}

const (
	separatorPenalty = 5
	hyphenPenalty    = 8
)

var (
	newline  = Fragment{"\n", "new line"}
	space    = Fragment{" ", "space"}
	indent   = Fragment{"  ", "indent"}
	guideDot = fragment(braille.Dot, "guide dot")
	hyphen   = fragment(braille.Hyphen, "hyphen")
)

func fragment(s braille.Sign, label string) Fragment {
	return Fragment{Unicode: s.String(), Label: label}
}

// atom is a run of fragments the breaker treats as one box. guide is set
// when a following cell with dots 1-3 must be separated by a dot 3.
type atom struct {
	fragments Output
	guide     bool
}

func (a *atom) width() int {
	w := 0
	for _, f := range a.fragments {
		w += f.Width()
	}
	return w
}

func (a *atom) startsWithDots123() bool {
	if len(a.fragments) == 0 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(a.fragments[0].Unicode)
	c, ok := braille.Cell(r)
	return ok && braille.HasDots123(c)
}

// paragraph collects one staff's objects. atoms[i] is the content of objs[i]
// when that object is a box.
type paragraph struct {
	objs  []linebreak.Object
	atoms []*atom
}

func (p *paragraph) add(o linebreak.Object, a *atom) {
	p.objs = append(p.objs, o)
	p.atoms = append(p.atoms, a)
}

func (p *paragraph) box(fragments ...Fragment) *atom {
	a := &atom{fragments: fragments}
	if a.startsWithDots123() && p.needsGuide() {
		p.add(linebreak.NewGuide(1), &atom{fragments: Output{guideDot}})
	}
	p.add(linebreak.NewBox(a.width()), a)
	return a
}

// needsGuide looks back over a break opportunity for a box that wants a
// guide dot.
func (p *paragraph) needsGuide() bool {
	for i := len(p.objs) - 1; i >= 0; i-- {
		switch p.objs[i].Kind {
		case linebreak.Box:
			return p.atoms[i].guide
		case linebreak.Glue:
			return false
		}
	}
	return false
}

func (p *paragraph) glue()              { p.add(linebreak.NewGlue(1), nil) }
func (p *paragraph) opportunity()       { p.add(linebreak.NewPenalty(0, separatorPenalty), nil) }
func (p *paragraph) hyphenOpportunity() { p.add(linebreak.NewPenalty(1, hyphenPenalty), nil) }
func (p *paragraph) end()               { p.add(linebreak.NewPenalty(0, -linebreak.Infinity), nil) }

func (p *paragraph) isGuide(i int) bool { return i < len(p.objs) && p.objs[i].Guide }

type printer struct {
	style Style
	out   Output
	para  paragraph
	// inGroup suppresses hyphen breaks inside a note group.
	inGroup bool
}

// Reformat prints score. It expects disambiguation to have run, but only
// reads the written values.
func Reformat(score *ast.Score, style Style) Output {
	p := &printer{style: style}
	p.header(score)
	for _, part := range score.Parts {
		for i, sec := range part.Sections {
			p.section(sec, i == part.Len()-1)
		}
	}
	return p.out
}

func (p *printer) emit(f ...Fragment) { p.out = append(p.out, f...) }

func (p *printer) header(score *ast.Score) {
	p.emit(keySignature(score.KeySignature)...)
	for i, t := range score.TimeSignatures {
		if i > 0 {
			p.emit(fragment(braille.PartialVoiceSeparator, "time signature separator"))
		}
		p.emit(timeSignature(t))
	}
	p.emit(newline)
}

func keySignature(k ast.KeySignature) []Fragment {
	sign, label, n := braille.Accidentals[ast.Sharp], "sharp", k.Fifths
	if n < 0 {
		sign, label, n = braille.Accidentals[ast.Flat], "flat", -n
	}
	if n > 3 {
		return []Fragment{
			fragment(braille.NumberSign, "number sign"),
			fragment(braille.UpperNumber(n), "key signature"),
			fragment(sign, label),
		}
	}
	out := make([]Fragment, n)
	for i := range out {
		out[i] = fragment(sign, label)
	}
	return out
}

func timeSignature(t ast.TimeSignature) Fragment {
	switch t.Symbol {
	case ast.CommonTime:
		return fragment(braille.CommonTime, "time signature")
	case ast.CutTime:
		return fragment(braille.CutTime, "time signature")
	}
	s := append(append(braille.Sign{}, braille.NumberSign...), braille.UpperNumber(t.Numerator)...)
	return fragment(append(s, braille.LowerNumber(t.Denominator)...), "time signature")
}

func keyAndTime(kt *ast.KeyAndTimeSignature) []Fragment {
	return append(keySignature(kt.Key), timeSignature(kt.Time))
}

func (p *printer) section(s *ast.Section, last bool) {
	if s.KeyAndTime != nil {
		p.emit(indent)
		p.emit(keyAndTime(s.KeyAndTime)...)
		p.emit(newline)
	}

	var heading []Fragment
	if s.Number != nil {
		heading = append(heading,
			fragment(append(append(braille.Sign{}, braille.NumberSign...), braille.UpperNumber(*s.Number)...), "section number"),
			space)
	}
	if r := s.Range; r != nil {
		heading = append(heading, measureRange(r), space)
	}

	for i, para := range s.Paragraphs {
		p.para.box(indent)
		if i == 0 && len(heading) > 0 {
			p.para.box(heading...)
		}
		if len(s.Paragraphs) > 1 {
			hand, label := braille.RightHand, "right hand"
			if i == 1 {
				hand, label = braille.LeftHand, "left hand"
			}
			p.para.box(fragment(hand, label)).guide = true
			p.para.hyphenOpportunity()
		}
		p.paragraph(para, last)
	}
}

func measureRange(r *ast.MeasureRange) Fragment {
	s := append(braille.Sign{}, braille.NumberSign...)
	s = appendSpecification(s, r.First)
	s = append(s, braille.Dash...)
	s = appendSpecification(s, r.Last)
	return fragment(s, "measure range")
}

func appendSpecification(s braille.Sign, m ast.MeasureSpecification) braille.Sign {
	s = append(s, braille.LowerNumber(m.Number)...)
	if m.Alternative > 0 {
		s = append(s, braille.NumberSign...)
		s = append(s, braille.LowerNumber(m.Alternative)...)
	}
	return s
}

func (p *printer) paragraph(para *ast.Paragraph, last bool) {
	for i, el := range para.Elements {
		if i > 0 {
			p.para.glue()
		}
		switch el := el.(type) {
		case *ast.KeyAndTimeSignature:
			p.para.box(keyAndTime(el)...)
		case *ast.Measure:
			p.measure(el)
		}
	}
	if last {
		p.para.box(fragment(braille.EndOfMusic, "end of music"))
	}
	p.para.end()
	p.flush()
}

// flush breaks the collected paragraph into lines and emits it.
func (p *printer) flush() {
	objs, atoms := p.para.objs, p.para.atoms
	breaks := linebreak.Breakpoints(objs, p.style.lineLengths())

	i := 0
	for _, b := range breaks[1:] {
		for ; i < b; i++ {
			p.object(objs[i], atoms[i])
		}
		switch objs[i].Kind {
		case linebreak.Penalty:
			if objs[i].IsForcedBreak() {
				break
			}
			if objs[i].Width > 0 {
				p.emit(hyphen)
			}
			p.emit(newline)
			i++
			if p.para.isGuide(i) {
				i++
			}
		case linebreak.Glue:
			p.emit(newline)
			i++
		}
	}
	for ; i < len(objs); i++ {
		p.object(objs[i], atoms[i])
	}
	p.emit(newline)
	p.para = paragraph{}
}

func (p *printer) object(o linebreak.Object, a *atom) {
	switch o.Kind {
	case linebreak.Glue:
		p.emit(space)
	case linebreak.Box:
		p.emit(a.fragments...)
	}
}

func (p *printer) measure(m *ast.Measure) {
	if m.Ending != nil {
		s := append(append(braille.Sign{}, braille.NumberSign...), braille.LowerNumber(*m.Ending)...)
		p.para.box(fragment(s, "ending")).guide = true
	}
	for i, v := range m.Voices {
		if i > 0 {
			p.para.box(fragment(braille.VoiceSeparator, "voice separator"))
			p.para.opportunity()
		}
		for j, pm := range v.PartialMeasures {
			if j > 0 {
				p.para.box(fragment(braille.PartialMeasureSeparator, "partial measure separator"))
				p.para.opportunity()
			}
			for k, pv := range pm.PartialVoices {
				if k > 0 {
					p.para.box(fragment(braille.PartialVoiceSeparator, "partial voice separator"))
					p.para.opportunity()
				}
				p.signs(pv.Signs)
			}
		}
	}
}

func (p *printer) signs(signs []ast.Sign) {
	p.inGroup = false
	first := true
	for _, s := range signs {
		if _, ok := s.(*ast.Hyphen); ok {
			continue
		}
		if !first && !p.inGroup {
			p.para.hyphenOpportunity()
		}
		first = false
		p.sign(s)
	}
}

func (p *printer) sign(s ast.Sign) {
	p.inGroup = false
	switch s := s.(type) {
	case *ast.Note:
		p.inGroup = grouped(s.Beam)
		p.para.box(note(s)...)
	case *ast.Chord:
		p.inGroup = grouped(s.Base.Beam)
		p.para.box(chord(s)...)
	case *ast.Rest:
		p.inGroup = grouped(s.Beam)
		p.para.box(rest(s)...)
	case *ast.Simile:
		p.para.box(simile(s)...)
	case *ast.ValueDistinction:
		p.para.box(fragment(braille.ValuePrefixes[s.Kind], valuePrefixLabels[s.Kind]))
	case *ast.Barline:
		p.para.box(fragment(braille.Barlines[s.Kind], barlineLabels[s.Kind]))
	}
}

func grouped(b ast.Beam) bool { return b == ast.BeamBegin || b == ast.BeamContinue }

var (
	valuePrefixLabels = map[ast.Distinction]string{
		ast.Distinct:     "distinct values",
		ast.LargeFollows: "large values",
		ast.SmallFollows: "small values",
	}
	barlineLabels = map[ast.BarlineKind]string{
		ast.BeginRepeat: "begin repeat",
		ast.EndRepeat:   "end repeat",
		ast.EndPart:     "end part",
	}
	accidentalLabels = map[ast.Accidental]string{
		ast.Natural:     "natural",
		ast.Flat:        "flat",
		ast.DoubleFlat:  "double flat",
		ast.Sharp:       "sharp",
		ast.DoubleSharp: "double sharp",
	}
)

func pitch(acc ast.Accidental, octave int) []Fragment {
	var out []Fragment
	if acc != ast.NoAccidental {
		out = append(out, fragment(braille.Accidentals[acc], accidentalLabels[acc]))
	}
	if octave > 0 {
		out = append(out, fragment(braille.Octaves[octave], "octave"))
	}
	return out
}

func repeated(s braille.Sign, label string, n int) []Fragment {
	out := make([]Fragment, n)
	for i := range out {
		out[i] = fragment(s, label)
	}
	return out
}

func fingering(fingers []ast.Finger) []Fragment {
	var out []Fragment
	for _, f := range fingers {
		out = append(out, fragment(braille.Sign{braille.Fingers[f.Finger]}, "finger"))
		if f.Change > 0 {
			out = append(out, fragment(braille.Slur, "finger change"), fragment(braille.Sign{braille.Fingers[f.Change]}, "finger"))
		}
	}
	return out
}

func note(n *ast.Note) []Fragment {
	out := pitch(n.Accidental, n.Octave)
	out = append(out, Fragment{string(braille.Rune(braille.Note(n.Step, n.Value))), n.Step.String() + " " + n.Value.String()})
	out = append(out, repeated(braille.Dot, "augmentation dot", n.Dots)...)
	before := min(n.Slurs, 2)
	out = append(out, repeated(braille.Slur, "slur", before)...)
	out = append(out, fingering(n.Fingers)...)
	out = append(out, repeated(braille.Slur, "slur", n.Slurs-before)...)
	if n.Tie {
		out = append(out, fragment(braille.Tie, "tie"))
	}
	return out
}

func chord(c *ast.Chord) []Fragment {
	out := note(c.Base)
	for _, iv := range c.Intervals {
		out = append(out, pitch(iv.Accidental, iv.Octave)...)
		out = append(out, fragment(braille.Sign{braille.Intervals[iv.Steps]}, "interval"))
		out = append(out, fingering(iv.Fingers)...)
		if iv.Tie {
			out = append(out, fragment(braille.Tie, "tie"))
		}
	}
	if c.Tie {
		out = append(out, fragment(braille.ChordTie, "chord tie"))
	}
	return out
}

func rest(r *ast.Rest) []Fragment {
	var out []Fragment
	if r.ByTranscriber {
		out = append(out, fragment(braille.ByTranscriber, "added by transcriber"))
	}
	out = append(out, fragment(braille.Sign{braille.Rests[r.Value]}, "rest"))
	return append(out, repeated(braille.Dot, "augmentation dot", r.Dots)...)
}

func simile(s *ast.Simile) []Fragment {
	var out []Fragment
	if s.Octave > 0 {
		out = append(out, fragment(braille.Octaves[s.Octave], "octave"))
	}
	out = append(out, repeated(braille.Simile, "simile", s.Count)...)
	if s.Repeat > 0 {
		out = append(out, fragment(append(append(braille.Sign{}, braille.NumberSign...), braille.UpperNumber(s.Repeat)...), "repetitions"))
	}
	return out
}
