// Package ast holds the typed tree a braille music score parses into.
//
// Nodes carry ids only. Source ranges live in Annotations, keyed by id, so
// later stages can locate nodes without the tree knowing about positions.
package ast

import (
	"github.com/bmc/pkg/rational"
)

type Locatable struct {
	ID int
}

func (l Locatable) NodeID() int { return l.ID }

type Node interface {
	NodeID() int
}

// Value is the braille value class of a note or rest. Each class stands for
// a large and a small duration.
type Value int

const (
	Unknown Value = iota
	WholeOr16th
	HalfOr32nd
	QuarterOr64th
	EighthOr128th
)

var valueNames = [...]string{"unknown", "whole or 16th", "half or 32nd", "quarter or 64th", "eighth or 128th"}

func (v Value) String() string { return valueNames[v] }

// Category selects the large or small reading of a Value.
type Category int

const (
	Large Category = iota
	Small
)

func (c Category) String() string {
	if c == Small {
		return "small"
	}
	return "large"
}

var durations = map[Category][5]rational.Rational{
	Large: {rational.Zero, rational.One, rational.New(1, 2), rational.New(1, 4), rational.New(1, 8)},
	Small: {rational.Zero, rational.New(1, 16), rational.New(1, 32), rational.New(1, 64), rational.New(1, 128)},
}

// Duration returns the undotted duration of v read in category c.
func (v Value) Duration(c Category) rational.Rational {
	return durations[c][v]
}

type Step int

const (
	C Step = iota
	D
	E
	F
	G
	A
	B
)

func (s Step) String() string { return string("CDEFGAB"[s]) }

type Accidental int

const (
	NoAccidental Accidental = iota
	Natural
	Flat
	DoubleFlat
	Sharp
	DoubleSharp
)

// Finger is a fingering digit, 1 to 5. A non-zero Change is the finger
// substituted while the note sounds.
type Finger struct {
	Finger int
	Change int
}

// Beam marks membership in a group of notes written as eighths that were
// read as smaller values.
type Beam int

const (
	NoBeam Beam = iota
	BeamBegin
	BeamContinue
	BeamEnd
)

type KeySignature struct {
	// Fifths counts sharps when positive, flats when negative.
	Fifths int
}

// TimeSymbol is how a time signature is written.
type TimeSymbol int

const (
	NumericTime TimeSymbol = iota
	CommonTime
	CutTime
)

type TimeSignature struct {
	Numerator   int
	Denominator int
	Symbol      TimeSymbol
}

func (t TimeSignature) Duration() rational.Rational {
	return rational.New(int64(t.Numerator), int64(t.Denominator))
}

// Beat returns the length of one beat.
func (t TimeSignature) Beat() rational.Rational {
	return rational.New(1, int64(t.Denominator))
}

func (t TimeSignature) IsZero() bool { return t.Denominator == 0 }

type Score struct {
	KeySignature   KeySignature
	TimeSignatures []TimeSignature
	Parts          []*Part
}

// TimeSignature returns the first global time signature, if any.
func (s *Score) TimeSignature() (TimeSignature, bool) {
	if len(s.TimeSignatures) == 0 {
		return TimeSignature{}, false
	}
	return s.TimeSignatures[0], true
}

type Part struct {
	Sections []*Section
}

// Len returns the number of sections, used to recognize the last one.
func (p *Part) Len() int { return len(p.Sections) }

type MeasureRange struct {
	First, Last MeasureSpecification
}

type MeasureSpecification struct {
	Number int
	// Alternative is the sub-measure number, zero when absent.
	Alternative int
}

// Section holds one paragraph per staff: one for a solo part, right and
// left hand for a keyboard part.
type Section struct {
	Locatable
	Keyboard   bool
	KeyAndTime *KeyAndTimeSignature
	Number     *int
	Range      *MeasureRange
	Paragraphs []*Paragraph
}

type Paragraph struct {
	Locatable
	Elements []ParagraphElement
}

// ParagraphElement is a *Measure or a *KeyAndTimeSignature.
type ParagraphElement interface {
	Node
	paragraphElement()
}

type KeyAndTimeSignature struct {
	Locatable
	Key  KeySignature
	Time TimeSignature
}

type Measure struct {
	Locatable
	// Ending is the volta number, nil when absent.
	Ending *int
	Voices []*Voice
}

func (*Measure) paragraphElement()             {}
func (*KeyAndTimeSignature) paragraphElement() {}

type Voice struct {
	Locatable
	PartialMeasures []*PartialMeasure
}

type PartialMeasure struct {
	Locatable
	PartialVoices []*PartialVoice
}

type PartialVoice struct {
	Locatable
	Signs []Sign
}
