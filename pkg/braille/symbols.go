// Package braille names the braille music signs shared by the parser and
// the reformatter.
package braille

import (
	"strings"

	"github.com/bmc/pkg/ast"
)

// Dots converts a decimal dot list such as 1456 into a cell pattern.
func Dots(list int) byte {
	var cell byte
	for ; list > 0; list /= 10 {
		d := list % 10
		if d < 1 || d > 8 {
			panic("braille: invalid dot number")
		}
		cell |= 1 << (d - 1)
	}
	return cell
}

// Sign is a sequence of cells.
type Sign []byte

func sign(lists ...int) Sign {
	s := make(Sign, len(lists))
	for i, l := range lists {
		s[i] = Dots(l)
	}
	return s
}

// String renders s as Unicode braille.
func (s Sign) String() string {
	var b strings.Builder
	for _, c := range s {
		b.WriteRune(Rune(c))
	}
	return b.String()
}

func Rune(cell byte) rune { return 0x2800 | rune(cell) }

// Cell returns the dots of a Unicode braille pattern.
func Cell(r rune) (byte, bool) {
	if r < 0x2800 || r > 0x28ff {
		return 0, false
	}
	return byte(r - 0x2800), true
}

// HasDots123 reports whether a cell uses any of the upper left dots. Such
// a cell after a number needs a separating dot 3.
func HasDots123(cell byte) bool { return cell&0x07 != 0 }

var (
	Blank = sign(0)

	NumberSign = sign(3456)
	Dot        = sign(3)
	Slur       = sign(14)
	Tie        = sign(4, 14)
	ChordTie   = sign(46, 14)
	Simile     = sign(2356)
	Hyphen     = sign(5)
	Dash       = sign(36)

	ByTranscriber = sign(6)

	PartialVoiceSeparator   = sign(5, 2)
	PartialMeasureSeparator = sign(46, 13)
	VoiceSeparator          = sign(126, 345)
	EndOfMusic              = sign(126, 13)

	RightHand = sign(46, 345)
	LeftHand  = sign(456, 345)

	CommonTime = sign(46, 14)
	CutTime    = sign(456, 14)
)

var ValuePrefixes = map[ast.Distinction]Sign{
	ast.Distinct:     sign(126, 2),
	ast.SmallFollows: sign(6, 126, 2),
	ast.LargeFollows: sign(45, 126, 2),
}

var Barlines = map[ast.BarlineKind]Sign{
	ast.BeginRepeat: sign(126, 2356),
	ast.EndRepeat:   sign(126, 23),
	ast.EndPart:     sign(126, 13, 3),
}

var Accidentals = map[ast.Accidental]Sign{
	ast.Natural:     sign(16),
	ast.Flat:        sign(126),
	ast.DoubleFlat:  sign(126, 126),
	ast.Sharp:       sign(146),
	ast.DoubleSharp: sign(146, 146),
}

// Octaves is indexed by octave number, 1 to 9.
var Octaves = [10]Sign{nil, sign(4, 4), sign(4), sign(45), sign(456), sign(5), sign(46), sign(56), sign(6), sign(6, 6)}

// Steps holds the dots 1, 2, 4 and 5 part of a note, indexed by ast.Step.
var Steps = [7]byte{Dots(145), Dots(15), Dots(124), Dots(1245), Dots(125), Dots(24), Dots(245)}

// Values holds the dots 3 and 6 part of a note, indexed by ast.Value.
var Values = [5]byte{0, Dots(36), Dots(3), Dots(6), 0}

// Rests is indexed by ast.Value.
var Rests = [5]byte{0, Dots(134), Dots(136), Dots(1236), Dots(1346)}

var UpperDigits = [10]byte{Dots(245), Dots(1), Dots(12), Dots(14), Dots(145), Dots(15), Dots(124), Dots(1245), Dots(125), Dots(24)}

var LowerDigits = [10]byte{Dots(356), Dots(2), Dots(23), Dots(25), Dots(256), Dots(26), Dots(235), Dots(2356), Dots(236), Dots(35)}

// Fingers is indexed by finger number, 1 to 5.
var Fingers = [6]byte{0, Dots(1), Dots(12), Dots(123), Dots(2), Dots(13)}

// Intervals is indexed by interval size, 2 (second) to 8 (octave).
var Intervals = [9]byte{0, 0, Dots(34), Dots(346), Dots(3456), Dots(35), Dots(356), Dots(25), Dots(36)}

const stepMask = 0x1b

// Note returns the cell for a step written with a value class.
func Note(step ast.Step, value ast.Value) byte {
	return Steps[step] | Values[value]
}

// SplitNote decodes a note cell. It returns false for cells that are not
// notes.
func SplitNote(cell byte) (ast.Step, ast.Value, bool) {
	if cell&0xc0 != 0 {
		return 0, ast.Unknown, false
	}
	step := -1
	for i, s := range Steps {
		if cell&stepMask == s {
			step = i
		}
	}
	if step < 0 {
		return 0, ast.Unknown, false
	}
	switch cell &^ stepMask {
	case Values[ast.WholeOr16th]:
		return ast.Step(step), ast.WholeOr16th, true
	case Values[ast.HalfOr32nd]:
		return ast.Step(step), ast.HalfOr32nd, true
	case Values[ast.QuarterOr64th]:
		return ast.Step(step), ast.QuarterOr64th, true
	}
	return ast.Step(step), ast.EighthOr128th, true
}

// UpperNumber writes n with upper digits.
func UpperNumber(n int) Sign { return number(n, UpperDigits) }

// LowerNumber writes n with lower digits.
func LowerNumber(n int) Sign { return number(n, LowerDigits) }

func number(n int, digits [10]byte) Sign {
	if n == 0 {
		return Sign{digits[0]}
	}
	var s Sign
	for ; n > 0; n /= 10 {
		s = append(Sign{digits[n%10]}, s...)
	}
	return s
}
