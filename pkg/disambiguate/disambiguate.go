package disambiguate

import (
	"fmt"
	"strings"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/rational"
	"github.com/rs/zerolog/log"
)

// AmbiguityError reports a measure whose values could not be settled.
type AmbiguityError struct {
	// Measure is the node id of the measure.
	Measure int
	// Interpretations is how many readings remained, zero when none fit.
	Interpretations int
	// Incomplete is set for a short measure no other measure completes.
	Incomplete bool
}

func (e *AmbiguityError) Error() string {
	if e.Incomplete {
		return "incomplete measure"
	}
	if e.Interpretations == 0 {
		return "no possible interpretations"
	}
	return fmt.Sprintf("%d possible interpretations", e.Interpretations)
}

// Errors collects the failures of one score. Measures that fail keep zero
// durations; the rest of the score is still resolved.
type Errors []*AmbiguityError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = fmt.Sprintf("measure %d: %s", err.Measure, err)
	}
	return strings.Join(msgs, "; ")
}

// Disambiguator assigns durations to every value of a score.
type Disambiguator struct {
	// DefaultTime applies to scores without a time signature.
	DefaultTime ast.TimeSignature
}

func New() *Disambiguator {
	return &Disambiguator{DefaultTime: ast.TimeSignature{Numerator: 4, Denominator: 4}}
}

// Disambiguate resolves score with a default Disambiguator.
func Disambiguate(score *ast.Score) error {
	return New().Disambiguate(score)
}

// Disambiguate sets the category, type and duration of every note and rest,
// the duration of similes and the beams of note groups. It returns Errors
// when some measure has no single reading.
func (d *Disambiguator) Disambiguate(score *ast.Score) error {
	time, ok := score.TimeSignature()
	if !ok {
		log.Warn().Stringer("time", timeString(d.DefaultTime)).Msg("score has no time signature, assuming default")
		time = d.DefaultTime
	}

	var errs Errors
	for _, part := range score.Parts {
		var staves []*staff
		for _, sec := range part.Sections {
			if sec.KeyAndTime != nil {
				for _, st := range staves {
					st.time = sec.KeyAndTime.Time
				}
			}
			for i, para := range sec.Paragraphs {
				if i == len(staves) {
					st := &staff{time: time}
					if sec.KeyAndTime != nil {
						st.time = sec.KeyAndTime.Time
					}
					staves = append(staves, st)
				}
				errs = append(errs, staves[i].paragraph(para)...)
			}
		}
		for _, st := range staves {
			if err := st.settle(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type timeString ast.TimeSignature

func (t timeString) String() string { return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator) }

type candidate struct {
	measure  *ast.Measure
	readings readings
	// opening is set for the first measure of the staff.
	opening bool
}

// staff carries the state that flows from measure to measure on one staff.
type staff struct {
	time     ast.TimeSignature
	previous rational.Rational
	measures int
	// anacrusis is a short measure waiting for its complement.
	anacrusis *candidate
}

func (st *staff) paragraph(p *ast.Paragraph) []*AmbiguityError {
	var errs []*AmbiguityError
	for _, el := range p.Elements {
		switch el := el.(type) {
		case *ast.KeyAndTimeSignature:
			st.time = el.Time
		case *ast.Measure:
			errs = append(errs, st.measure(el)...)
		}
	}
	return errs
}

func (st *staff) measure(m *ast.Measure) []*AmbiguityError {
	ms := &measureSolver{time: st.time, previous: st.previous}
	r := ms.measure(m)
	target := ms.target()
	opening := st.measures == 0
	st.measures++

	if in, ok := r[target]; ok {
		st.accept(in, target)
		return nil
	}
	if len(r) == 0 {
		log.Debug().Int("measure", m.ID).Msg("no reading fills the measure")
		return []*AmbiguityError{{Measure: m.ID}}
	}
	if in, ok := r[rational.Zero]; ok && len(r) == 1 && in.count == 0 {
		// Nothing to resolve.
		in.apply()
		return nil
	}

	if st.anacrusis == nil {
		st.anacrusis = &candidate{measure: m, readings: r, opening: opening}
		return nil
	}
	if a, b, length, ok := st.complement(r, target); ok {
		a.apply()
		st.accept(b, length)
		st.anacrusis = nil
		return nil
	}

	// Neither measure completes the other.
	var errs []*AmbiguityError
	if err := st.settle(); err != nil {
		errs = append(errs, err)
	}
	log.Debug().Int("measure", m.ID).Msg("short measure without complement")
	return append(errs, &AmbiguityError{Measure: m.ID, Incomplete: true})
}

// complement finds the single pairing of the pending anacrusis with r that
// adds up to a full measure.
func (st *staff) complement(r readings, target rational.Rational) (a, b *interpretation, length rational.Rational, ok bool) {
	n := 0
	for lhs, x := range st.anacrusis.readings {
		rhs := target.Sub(lhs)
		if y, found := r[rhs]; found {
			a, b, length = x, y, rhs
			n++
		}
	}
	return a, b, length, n == 1
}

func (st *staff) accept(in *interpretation, length rational.Rational) {
	in.apply()
	st.previous = length
}

// settle drops the pending short measure. An opening measure followed by
// others is a pickup and keeps its reading with the highest harmonic mean;
// any other short measure is an error.
func (st *staff) settle() *AmbiguityError {
	a := st.anacrusis
	if a == nil {
		return nil
	}
	st.anacrusis = nil
	if !a.opening || st.measures < 2 {
		log.Debug().Int("measure", a.measure.ID).Msg("incomplete measure")
		return &AmbiguityError{Measure: a.measure.ID, Incomplete: true}
	}

	var best *interpretation
	for _, end := range a.readings.positions() {
		in := a.readings[end]
		if best == nil || in.cost.Less(best.cost) {
			best = in
		}
	}
	log.Debug().Int("measure", a.measure.ID).Stringer("mean", best.HarmonicMean()).
		Msg("settled pickup measure")
	best.apply()
	return nil
}
