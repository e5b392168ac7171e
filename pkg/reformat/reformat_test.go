package reformat

import (
	"testing"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/disambiguate"
	"github.com/bmc/pkg/parser"
	"github.com/bmc/pkg/rational"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, input string) *ast.Score {
	t.Helper()
	score, _, err := parser.Parse(input)
	require.NoError(t, err, parser.NewReporter("test", input).ReportError(err))
	require.NoError(t, disambiguate.Disambiguate(score))
	return score
}

type reformatTester struct {
	input string
	style Style
	want  string
}

func (r *reformatTester) runTest(t *testing.T) {
	out := Reformat(resolve(t, r.input), r.style)
	assert.Equal(t, r.want, out.String())
}

func TestReformat(t *testing.T) {
	tests := map[string]*reformatTester{
		"single-line": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠀⠹⠹⠹⠹⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠼⠙⠲\n  ⠹⠹⠹⠹ ⠹⠹⠹⠹⠣⠅\n",
		},
		"break-between-measures": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠀⠹⠹⠹⠹⠣⠅\n",
			style: Style{Columns: 12},
			want:  "⠼⠙⠲\n  ⠹⠹⠹⠹\n⠹⠹⠹⠹⠣⠅\n",
		},
		"music-hyphen": {
			input: "⠼⠑⠲\n⠹⠹⠹⠹⠹⠣⠅\n",
			style: Style{Columns: 6},
			want:  "⠼⠑⠲\n  ⠹⠹⠐\n⠹⠹⠹⠣⠅\n",
		},
		"key-signature": {
			input: "⠼⠙⠣⠼⠉⠲\n⠹⠹⠹⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠼⠙⠣⠼⠉⠲\n  ⠹⠹⠹⠣⠅\n",
		},
		"cut-time": {
			input: "⠸⠉\n⠝⠝⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠸⠉\n  ⠝⠝⠣⠅\n",
		},
		"ending-guide-dot": {
			input: "⠼⠙⠲\n⠹⠹⠹⠹⠀⠼⠂⠄⠍⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠼⠙⠲\n  ⠹⠹⠹⠹ ⠼⠂⠄⠍⠣⠅\n",
		},
		"keyboard": {
			input: "⠼⠙⠲\n  ⠨⠜⠐⠹⠹⠹⠹⠣⠅\n  ⠸⠜⠄⠝⠝⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠼⠙⠲\n  ⠨⠜⠐⠹⠹⠹⠹⠣⠅\n  ⠸⠜⠄⠝⠝⠣⠅\n",
		},
		"sections": {
			input: "⠼⠙⠲\n  ⠼⠁⠀⠹⠹⠹⠹\n  ⠩⠼⠉⠲\n  ⠼⠃⠀⠼⠆⠤⠒⠀⠹⠹⠹⠀⠹⠹⠹⠣⠅\n",
			style: DefaultStyle(),
			want:  "⠼⠙⠲\n  ⠼⠁ ⠹⠹⠹⠹\n  ⠩⠼⠉⠲\n  ⠼⠃ ⠼⠆⠤⠒ ⠹⠹⠹ ⠹⠹⠹⠣⠅\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestNotegroupIsNotHyphenated(t *testing.T) {
	// Without the note group the cheapest break would fall after the third
	// sixteenth.
	out := Reformat(resolve(t, "⠼⠃⠲\n⠽⠙⠙⠙⠹⠣⠅\n"), Style{Columns: 7})
	assert.Equal(t, "⠼⠃⠲\n  ⠽⠙⠙⠙⠐\n⠹⠣⠅\n", out.String())
}

func TestLabels(t *testing.T) {
	out := Reformat(resolve(t, "⠼⠙⠲\n  ⠨⠜⠐⠹⠹⠹⠹⠣⠅\n  ⠸⠜⠄⠝⠝⠣⠅\n"), DefaultStyle())
	var labels []string
	for _, f := range out {
		labels = append(labels, f.Label)
	}
	assert.Contains(t, labels, "guide dot")
	assert.Contains(t, labels, "octave")
	assert.Contains(t, labels, "end of music")
	assert.Contains(t, labels, "C half or 32nd")
}

func durations(score *ast.Score) []rational.Rational {
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
									if _, ok := s.(*ast.Hyphen); !ok {
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

type roundTripTester struct {
	input string
}

func (r *roundTripTester) runTest(t *testing.T) {
	for _, style := range []Style{DefaultStyle(), {Columns: 10}, {Columns: 14, FirstLineColumns: 8}} {
		first := resolve(t, r.input)
		printed := Reformat(first, style).String()

		second := resolve(t, printed)
		assert.Equal(t, durations(first), durations(second), printed)
		assert.Equal(t, printed, Reformat(second, style).String())
	}
}

func TestRoundTrip(t *testing.T) {
	tests := map[string]*roundTripTester{
		"voices": {
			input: "⠼⠙⠲\n⠐⠹⠄⠁⠉⠃⠱⠉⠈⠉⠙⠹⠣⠜⠧⠧⠨⠅⠝⠐⠂⠥⠀⠼⠂⠄⠹⠹⠹⠹⠣⠅\n",
		},
		"signs": {
			input: "⠩⠼⠙⠲\n⠘⠣⠂⠐⠹⠬⠤⠨⠉⠹⠹⠹⠀⠶⠀⠣⠶⠹⠹⠹⠹⠣⠆⠣⠅\n",
		},
		"notegroups": {
			input: "⠼⠃⠲\n⠽⠙⠙⠙⠹⠀⠽⠙⠙⠙⠽⠙⠙⠙⠀⠹⠹⠣⠅\n",
		},
		"keyboard": {
			input: "⠼⠙⠲\n" +
				"  ⠼⠁⠀⠨⠜⠐⠹⠹⠹⠹⠀⠹⠹⠹⠹\n" +
				"  ⠸⠜⠄⠝⠝⠀⠝⠝\n" +
				"  ⠩⠼⠙⠲\n" +
				"  ⠼⠃⠀⠼⠒⠤⠲⠀⠨⠜⠐⠹⠹⠹⠹⠀⠹⠹⠹⠹⠣⠅\n" +
				"  ⠸⠜⠄⠝⠝⠀⠝⠝⠣⠅\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}
