// Package disambiguate decides whether each braille value denotes its large
// or its small duration.
//
// Braille writes a whole note and a 16th note with the same cell, and so on
// down to eighth and 128th. Explicit value signs narrow the choice for a run
// of notes; everything else is settled by requiring that every voice of a
// measure fills the time signature.
package disambiguate

import (
	"github.com/bmc/pkg/ast"
)

// State is the candidate generator's mode within a partial voice.
type State int

const (
	Both State = iota
	JustLarge
	JustSmall
)

var (
	bothCategories  = []ast.Category{ast.Large, ast.Small}
	largeCategories = []ast.Category{ast.Large}
	smallCategories = []ast.Category{ast.Small}
)

// Candidates returns the categories each sign may take. Signs without a
// value get nil.
//
// A large-follows or small-follows sign forces its category on the run of
// values that share the class of the first value after it. The first value
// of another class ends the run.
func Candidates(signs []ast.Sign) [][]ast.Category {
	result := make([][]ast.Category, len(signs))
	state, last := Both, ast.Unknown
	for i, s := range signs {
		if vd, ok := s.(*ast.ValueDistinction); ok {
			switch vd.Kind {
			case ast.LargeFollows:
				state = JustLarge
			case ast.SmallFollows:
				state = JustSmall
			default:
				state = Both
			}
			last = ast.Unknown
			continue
		}

		value, ok := ast.AmbiguousValue(s)
		if !ok {
			continue
		}
		if state == Both {
			result[i] = bothCategories
			continue
		}
		if last == ast.Unknown {
			last = value
		}
		if value != last {
			state, last = Both, ast.Unknown
			result[i] = bothCategories
			continue
		}
		if state == JustLarge {
			result[i] = largeCategories
		} else {
			result[i] = smallCategories
		}
	}
	return result
}
