package disambiguate

import (
	"testing"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/parser"
	"github.com/bmc/pkg/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) *ast.Score {
	t.Helper()
	score, _, err := parser.Parse(input)
	require.NoError(t, err, parser.NewReporter("test", input).ReportError(err))
	return score
}

// rhythmic returns the note, chord and rest durations of a part in order.
func rhythmic(score *ast.Score) []rational.Rational {
	var out []rational.Rational
	for _, part := range score.Parts {
		for _, sec := range part.Sections {
			for _, para := range sec.Paragraphs {
				for _, el := range para.Elements {
					m, ok := el.(*ast.Measure)
					if !ok {
						continue
					}
					for _, v := range m.Voices {
						for _, pm := range v.PartialMeasures {
							for _, pv := range pm.PartialVoices {
								for _, s := range pv.Signs {
									if _, ok := ast.AmbiguousValue(s); ok {
										out = append(out, ast.Resolved(s))
									}
								}
							}
						}
					}
				}
			}
		}
	}
	return out
}

func signs(score *ast.Score, measure int) []ast.Sign {
	m := score.Parts[0].Sections[0].Paragraphs[0].Elements[measure].(*ast.Measure)
	return m.Voices[0].PartialMeasures[0].PartialVoices[0].Signs
}

func repeat(r rational.Rational, n int) []rational.Rational {
	out := make([]rational.Rational, n)
	for i := range out {
		out[i] = r
	}
	return out
}

var (
	quarter   = rational.New(1, 4)
	half      = rational.New(1, 2)
	eighth    = rational.New(1, 8)
	sixteenth = rational.New(1, 16)
)

type durationTester struct {
	input string
	want  []rational.Rational
}

func (d *durationTester) runTest(t *testing.T) {
	score := parse(t, d.input)
	require.NoError(t, Disambiguate(score))
	assert.Equal(t, d.want, rhythmic(score))
}

func TestDurations(t *testing.T) {
	tests := map[string]*durationTester{
		"four-quarters": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠣⠅\n",
			want:  repeat(quarter, 4),
		},
		"two-voices": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠣⠜⠗⠗⠣⠅\n",
			want:  append(repeat(quarter, 4), half, half),
		},
		"dotted": {
			input: "⠼⠉⠲\n⠗⠄⠣⠅\n",
			want:  []rational.Rational{rational.New(3, 4)},
		},
		"sixteenths": {
			input: "⠼⠃⠲\n⠽⠽⠽⠽⠽⠽⠽⠽⠣⠅\n",
			want:  repeat(sixteenth, 8),
		},
		"anacrusis": {
			input: "⠼⠉⠲\n⠹⠀⠹⠹⠹⠀⠹⠹⠣⠅\n",
			want:  repeat(quarter, 6),
		},
		"lone-anacrusis": {
			input: "⠼⠙⠲\n⠹⠀⠹⠹⠹⠹⠣⠅\n",
			want:  repeat(quarter, 5),
		},
		"time-change": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠀⠼⠃⠲⠀⠹⠹⠣⠅\n",
			want:  repeat(quarter, 6),
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestNotegroup(t *testing.T) {
	score := parse(t, "⠼⠃⠲\n⠽⠙⠙⠙⠹⠣⠅\n")
	require.NoError(t, Disambiguate(score))
	assert.Equal(t, append(repeat(sixteenth, 4), quarter), rhythmic(score))

	var beams []ast.Beam
	for _, s := range signs(score, 0) {
		if n, ok := s.(*ast.Note); ok {
			beams = append(beams, n.Beam)
		}
	}
	assert.Equal(t, []ast.Beam{ast.BeamBegin, ast.BeamContinue, ast.BeamContinue, ast.BeamEnd, ast.NoBeam}, beams)

	first := signs(score, 0)[0].(*ast.Note)
	assert.Equal(t, ast.Small, first.Category)
	assert.Equal(t, sixteenth, first.Type)
}

func TestShorterNotegroup(t *testing.T) {
	// The six note group does not end on a beat, the four note group does.
	score := parse(t, "⠼⠃⠲\n⠽⠙⠙⠙⠙⠙⠣⠅\n")
	require.NoError(t, Disambiguate(score))
	assert.Equal(t, append(repeat(sixteenth, 4), eighth, eighth), rhythmic(score))

	var beams []ast.Beam
	for _, s := range signs(score, 0) {
		if n, ok := s.(*ast.Note); ok {
			beams = append(beams, n.Beam)
		}
	}
	assert.Equal(t, []ast.Beam{
		ast.BeamBegin, ast.BeamContinue, ast.BeamContinue, ast.BeamEnd, ast.NoBeam, ast.NoBeam,
	}, beams)
}

type incompleteTester struct {
	input string
	// measures lists the elements of the first paragraph that fail.
	measures []int
}

func (it *incompleteTester) runTest(t *testing.T) {
	score := parse(t, it.input)
	err := Disambiguate(score)
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	var want []int
	for _, i := range it.measures {
		want = append(want, score.Parts[0].Sections[0].Paragraphs[0].Elements[i].(*ast.Measure).ID)
	}
	var got []int
	for _, e := range errs {
		assert.True(t, e.Incomplete)
		assert.EqualError(t, e, "incomplete measure")
		got = append(got, e.Measure)
	}
	assert.Equal(t, want, got)
}

func TestIncompleteMeasure(t *testing.T) {
	tests := map[string]*incompleteTester{
		"only-measure": {
			input:    "⠼⠙⠲\n⠹⠹⠹⠣⠅\n",
			measures: []int{0},
		},
		"inner-measure": {
			input:    "⠼⠙⠲\n⠹⠹⠹⠹⠀⠹⠹⠹⠀⠹⠹⠹⠹⠣⠅\n",
			measures: []int{1},
		},
		"no-complement": {
			input:    "⠼⠙⠲\n⠹⠀⠹⠹⠹⠹⠀⠹⠹⠣⠅\n",
			measures: []int{2},
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestWholeMeasureRest(t *testing.T) {
	score := parse(t, "⠼⠉⠲\n⠍⠣⠅\n")
	require.NoError(t, Disambiguate(score))

	r := signs(score, 0)[0].(*ast.Rest)
	assert.True(t, r.WholeMeasure)
	assert.Equal(t, rational.New(3, 4), r.Duration)
}

func TestSimile(t *testing.T) {
	score := parse(t, "⠼⠙⠲\n⠹⠹⠶⠀⠶⠣⠅\n")
	require.NoError(t, Disambiguate(score))

	partial := signs(score, 0)[2].(*ast.Simile)
	assert.Equal(t, half, partial.Duration)
	full := signs(score, 1)[0].(*ast.Simile)
	assert.Equal(t, rational.One, full.Duration)
}

func TestNoInterpretation(t *testing.T) {
	score := parse(t, "⠼⠃⠲\n⠹⠹⠀⠽⠽⠽⠽⠽⠽⠽⠽⠽⠣⠅\n")
	err := Disambiguate(score)
	require.Error(t, err)

	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	m := score.Parts[0].Sections[0].Paragraphs[0].Elements[1].(*ast.Measure)
	assert.Equal(t, m.ID, errs[0].Measure)
	assert.Equal(t, 0, errs[0].Interpretations)
	assert.EqualError(t, errs[0], "no possible interpretations")

	// The other measure is still resolved.
	assert.Equal(t, quarter, ast.Resolved(signs(score, 0)[0]))
}

func TestDefaultTime(t *testing.T) {
	score := &ast.Score{Parts: parse(t, "⠼⠙⠲\n⠹⠹⠹⠹⠣⠅\n").Parts}
	require.NoError(t, Disambiguate(score))
	assert.Equal(t, repeat(quarter, 4), rhythmic(score))
}

func TestDeterministic(t *testing.T) {
	const input = "⠼⠙⠲\n⠹⠀⠽⠙⠙⠙⠹⠹⠹⠀⠹⠹⠹⠣⠅\n"
	want := parse(t, input)
	require.NoError(t, Disambiguate(want))
	for i := 0; i < 10; i++ {
		got := parse(t, input)
		require.NoError(t, Disambiguate(got))
		assert.Equal(t, rhythmic(want), rhythmic(got))
	}
}

func note(v ast.Value) *ast.Note { return &ast.Note{Value: v} }

func TestCandidates(t *testing.T) {
	both, large, small := bothCategories, largeCategories, smallCategories
	tests := map[string]struct {
		signs []ast.Sign
		want  [][]ast.Category
	}{
		"unmarked": {
			signs: []ast.Sign{note(ast.QuarterOr64th), &ast.Barline{}, note(ast.HalfOr32nd)},
			want:  [][]ast.Category{both, nil, both},
		},
		"large-run": {
			signs: []ast.Sign{
				&ast.ValueDistinction{Kind: ast.LargeFollows},
				note(ast.QuarterOr64th), &ast.Simile{Count: 1}, note(ast.QuarterOr64th),
				note(ast.HalfOr32nd), note(ast.QuarterOr64th),
			},
			want: [][]ast.Category{nil, large, nil, large, both, both},
		},
		"small-then-distinct": {
			signs: []ast.Sign{
				&ast.ValueDistinction{Kind: ast.SmallFollows},
				&ast.Rest{Value: ast.EighthOr128th},
				&ast.ValueDistinction{Kind: ast.Distinct},
				note(ast.EighthOr128th),
			},
			want: [][]ast.Category{nil, small, nil, both},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Candidates(tt.signs))
		})
	}
}
