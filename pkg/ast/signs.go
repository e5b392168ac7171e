package ast

import (
	"github.com/bmc/pkg/rational"
)

// Sign is one of *Note, *Rest, *Chord, *Simile, *ValueDistinction,
// *Barline or *Hyphen.
type Sign interface {
	Node
	sign()
}

type Note struct {
	Locatable
	Accidental Accidental
	// Octave is 1 to 9, zero when no octave mark was written.
	Octave     int
	Step       Step
	Value      Value
	Dots       int
	Slurs      int
	Tie        bool
	Fingers    []Finger

	// Set by disambiguation.
	Category Category
	Type     rational.Rational
	Duration rational.Rational
	Beam     Beam
}

type Rest struct {
	Locatable
	// ByTranscriber marks a rest the transcriber added.
	ByTranscriber bool
	Value         Value
	Dots          int

	// Set by disambiguation.
	Category     Category
	Type         rational.Rational
	Duration     rational.Rational
	WholeMeasure bool
	Beam         Beam
}

// Interval is a chord member written relative to the chord's base note.
type Interval struct {
	Accidental Accidental
	Octave     int
	// Steps is 2 (second) through 8 (octave).
	Steps   int
	Fingers []Finger
	Tie     bool
}

type Chord struct {
	Locatable
	Base      *Note
	Intervals []Interval
	// Tie ties every note of the chord to the next chord.
	Tie bool
}

// Simile repeats previous material. Count is the number of simile signs
// written in a row; Repeat is an explicit repetition count, zero if absent.
type Simile struct {
	Locatable
	Octave int
	Count  int
	Repeat int

	// Set by disambiguation.
	Duration rational.Rational
}

type Distinction int

const (
	Distinct Distinction = iota
	LargeFollows
	SmallFollows
)

type ValueDistinction struct {
	Locatable
	Kind Distinction
}

type BarlineKind int

const (
	BeginRepeat BarlineKind = iota
	EndRepeat
	EndPart
)

type Barline struct {
	Locatable
	Kind BarlineKind
}

// Hyphen is a music hyphen that ended a source line. It carries no
// musical meaning.
type Hyphen struct {
	Locatable
}

func (*Note) sign()             {}
func (*Rest) sign()             {}
func (*Chord) sign()            {}
func (*Simile) sign()           {}
func (*ValueDistinction) sign() {}
func (*Barline) sign()          {}
func (*Hyphen) sign()           {}

// AmbiguousValue returns the value class of signs that have one.
func AmbiguousValue(s Sign) (Value, bool) {
	switch s := s.(type) {
	case *Note:
		return s.Value, true
	case *Rest:
		return s.Value, true
	case *Chord:
		return s.Base.Value, true
	}
	return Unknown, false
}

// Resolved returns the duration disambiguation assigned to s. Signs
// without a duration return zero.
func Resolved(s Sign) rational.Rational {
	switch s := s.(type) {
	case *Note:
		return s.Duration
	case *Rest:
		return s.Duration
	case *Chord:
		return s.Base.Duration
	case *Simile:
		return s.Duration
	}
	return rational.Zero
}

// Duration sums the resolved durations of signs.
func Duration(signs []Sign) rational.Rational {
	total := rational.Zero
	for _, s := range signs {
		total = total.Add(Resolved(s))
	}
	return total
}
