package disambiguate

import (
	"sort"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/rational"
)

// choice is the reading picked for one sign.
type choice struct {
	sign         ast.Sign
	category     ast.Category
	duration     rational.Rational
	beam         ast.Beam
	wholeMeasure bool
}

// interpretation is one reading of a run of signs. cost sums the reciprocal
// durations of its rhythmic signs: with the number of rhythmic signs fixed,
// the lowest cost has the highest harmonic mean.
type interpretation struct {
	cost    rational.Rational
	count   int
	choices []choice
}

var empty = &interpretation{}

func join(a, b *interpretation) *interpretation {
	choices := make([]choice, 0, len(a.choices)+len(b.choices))
	choices = append(choices, a.choices...)
	return &interpretation{
		cost:    a.cost.Add(b.cost),
		count:   a.count + b.count,
		choices: append(choices, b.choices...),
	}
}

// HarmonicMean of the durations read for the rhythmic signs.
func (in *interpretation) HarmonicMean() rational.Rational {
	if in.count == 0 || in.cost.IsZero() {
		return rational.Zero
	}
	return rational.Int(int64(in.count)).Div(in.cost)
}

func (in *interpretation) apply() {
	for _, c := range in.choices {
		switch s := c.sign.(type) {
		case *ast.Note:
			setNote(s, c)
		case *ast.Chord:
			setNote(s.Base, c)
		case *ast.Rest:
			s.Category = c.category
			s.Type = s.Value.Duration(c.category)
			s.Duration = c.duration
			s.WholeMeasure = c.wholeMeasure
			s.Beam = c.beam
		case *ast.Simile:
			s.Duration = c.duration
		}
	}
}

func setNote(n *ast.Note, c choice) {
	n.Category = c.category
	n.Type = n.Value.Duration(c.category)
	n.Duration = c.duration
	n.Beam = c.beam
}

// readings maps the end position of a run of signs to its best reading.
type readings map[rational.Rational]*interpretation

// offer stores in under end unless an equal or cheaper reading is there.
// Earlier offers win ties, so the result depends only on the order in
// which alternatives are tried.
func (r readings) offer(end rational.Rational, in *interpretation) {
	if cur, ok := r[end]; ok && !in.cost.Less(cur.cost) {
		return
	}
	r[end] = in
}

func (r readings) positions() []rational.Rational {
	keys := make([]rational.Rational, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// intersect keeps the end positions both readings reach.
func intersect(a, b readings) readings {
	out := readings{}
	for end, x := range a {
		if y, ok := b[end]; ok {
			out[end] = join(x, y)
		}
	}
	return out
}

// measureSolver enumerates the readings of one measure.
type measureSolver struct {
	time ast.TimeSignature
	// previous is the length of the last accepted measure, zero if none.
	previous rational.Rational
}

func (ms *measureSolver) target() rational.Rational { return ms.time.Duration() }

func (ms *measureSolver) onBeat(pos rational.Rational) bool {
	return pos.Mod(ms.time.Beat()).IsZero()
}

// measure returns the readings of m keyed by measure length. Every voice
// must reach the same length.
func (ms *measureSolver) measure(m *ast.Measure) readings {
	var out readings
	for i, v := range m.Voices {
		r := ms.voice(v)
		if i == 0 {
			out = r
			continue
		}
		out = intersect(out, r)
	}
	return out
}

// voice chains its partial measures: each starts where the previous ended.
func (ms *measureSolver) voice(v *ast.Voice) readings {
	frontier := readings{rational.Zero: empty}
	for _, pm := range v.PartialMeasures {
		next := readings{}
		for _, start := range frontier.positions() {
			for end, in := range ms.partialMeasure(pm, start) {
				next.offer(end, join(frontier[start], in))
			}
		}
		frontier = next
	}
	return frontier
}

// partialMeasure requires all its partial voices to end together.
func (ms *measureSolver) partialMeasure(pm *ast.PartialMeasure, start rational.Rational) readings {
	var out readings
	for i, pv := range pm.PartialVoices {
		r := newPartialVoiceSolver(ms, pv.Signs).solve(state{index: 0, pos: start, anchor: start})
		if i == 0 {
			out = r
			continue
		}
		out = intersect(out, r)
	}
	return out
}

type state struct {
	index int
	pos   rational.Rational
	// anchor is where the material a partial simile repeats begins.
	anchor rational.Rational
}

type partialVoiceSolver struct {
	ms         *measureSolver
	signs      []ast.Sign
	candidates [][]ast.Category
	// first is the index of the first sign with a value, -1 if none.
	first int
	memo  map[state]readings
}

func newPartialVoiceSolver(ms *measureSolver, signs []ast.Sign) *partialVoiceSolver {
	s := &partialVoiceSolver{
		ms:         ms,
		signs:      signs,
		candidates: Candidates(signs),
		first:      -1,
		memo:       map[state]readings{},
	}
	for i, c := range s.candidates {
		if c != nil {
			s.first = i
			break
		}
	}
	return s
}

func (s *partialVoiceSolver) solve(st state) readings {
	if st.index == len(s.signs) {
		return readings{st.pos: empty}
	}
	if r, ok := s.memo[st]; ok {
		return r
	}

	out := readings{}
	switch sign := s.signs[st.index].(type) {
	case *ast.Simile:
		d := st.pos.Sub(st.anchor)
		if st.pos.IsZero() {
			d = s.ms.previous
		}
		if d.Sign() > 0 {
			s.extend(out, st, 1, &interpretation{choices: []choice{{sign: sign, duration: d}}}, d, true)
		}
	default:
		cands := s.candidates[st.index]
		if cands == nil {
			for end, in := range s.solve(state{index: st.index + 1, pos: st.pos, anchor: st.anchor}) {
				out[end] = in
			}
			break
		}
		if r, ok := sign.(*ast.Rest); ok && s.wholeMeasureRest(st, r) {
			d := s.ms.target()
			s.extend(out, st, 1, single(sign, ast.Large, d, ast.NoBeam, true), d, false)
		}
		if end := s.notegroupEnd(st.index); end > 0 && s.ms.onBeat(st.pos) {
			// Longest group first.
			for ; end-st.index >= 3; end-- {
				if head, d := s.notegroup(st.index, end); s.ms.onBeat(st.pos.Add(d)) {
					s.extend(out, st, end-st.index, head, d, false)
				}
			}
		}
		value, _ := ast.AmbiguousValue(sign)
		dots := dotsOf(sign)
		for _, c := range cands {
			d := value.Duration(c).Mul(rational.AugmentationDotsFactor(dots))
			s.extend(out, st, 1, single(sign, c, d, ast.NoBeam, false), d, false)
		}
	}
	s.memo[st] = out
	return out
}

// extend appends every continuation of the state reached by consuming n
// signs read as head, which together last d.
func (s *partialVoiceSolver) extend(out readings, st state, n int, head *interpretation, d rational.Rational, resetAnchor bool) {
	pos := st.pos.Add(d)
	if s.ms.target().Less(pos) {
		return
	}
	next := state{index: st.index + n, pos: pos, anchor: st.anchor}
	if resetAnchor {
		next.anchor = pos
	}
	for end, tail := range s.solve(next) {
		out.offer(end, join(head, tail))
	}
}

func single(s ast.Sign, c ast.Category, d rational.Rational, beam ast.Beam, wholeMeasure bool) *interpretation {
	return &interpretation{
		cost:    d.Reciprocal(),
		count:   1,
		choices: []choice{{sign: s, category: c, duration: d, beam: beam, wholeMeasure: wholeMeasure}},
	}
}

// wholeMeasureRest reports whether r may fill the whole measure: an undotted
// whole rest opening the measure, outside of a one-whole time signature.
func (s *partialVoiceSolver) wholeMeasureRest(st state, r *ast.Rest) bool {
	return st.index == s.first && st.pos.IsZero() && r.Value == ast.WholeOr16th && r.Dots == 0 &&
		s.ms.target() != rational.One
}

// notegroupEnd returns the index after the longest note group starting at
// i, or -1. Every shorter group of three signs at least is also a group.
// A group is a value of any class but eighth followed by undotted notes
// written as eighths, three signs at least, none of them forced to a
// category by a value sign.
func (s *partialVoiceSolver) notegroupEnd(i int) int {
	if len(s.candidates[i]) != 2 {
		return -1
	}
	if v, _ := ast.AmbiguousValue(s.signs[i]); v == ast.EighthOr128th {
		return -1
	}
	j := i + 1
	for j < len(s.signs) && len(s.candidates[j]) == 2 && groupMember(s.signs[j]) {
		j++
	}
	if j-i < 3 {
		return -1
	}
	return j
}

func groupMember(s ast.Sign) bool {
	var n *ast.Note
	switch s := s.(type) {
	case *ast.Note:
		n = s
	case *ast.Chord:
		n = s.Base
	default:
		return false
	}
	return n.Value == ast.EighthOr128th && n.Dots == 0
}

// notegroup reads signs [i, end) as the small value of the first sign.
func (s *partialVoiceSolver) notegroup(i, end int) (*interpretation, rational.Rational) {
	value, _ := ast.AmbiguousValue(s.signs[i])
	base := value.Duration(ast.Small)
	in := &interpretation{}
	total := rational.Zero
	for j := i; j < end; j++ {
		d := base.Mul(rational.AugmentationDotsFactor(dotsOf(s.signs[j])))
		beam := ast.BeamContinue
		switch j {
		case i:
			beam = ast.BeamBegin
		case end - 1:
			beam = ast.BeamEnd
		}
		in = join(in, single(s.signs[j], ast.Small, d, beam, false))
		total = total.Add(d)
	}
	return in, total
}

func dotsOf(s ast.Sign) int {
	switch s := s.(type) {
	case *ast.Note:
		return s.Dots
	case *ast.Chord:
		return s.Base.Dots
	case *ast.Rest:
		return s.Dots
	}
	return 0
}
