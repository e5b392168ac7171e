package parser

import (
	"strings"
	"testing"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/text2braille"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) (*ast.Score, *ast.Annotations) {
	t.Helper()
	score, ann, err := Parse(input)
	require.NoError(t, err, NewReporter("test", input).ReportError(err))
	return score, ann
}

func firstMeasure(score *ast.Score) *ast.Measure {
	return score.Parts[0].Sections[0].Paragraphs[0].Elements[0].(*ast.Measure)
}

type headerTester struct {
	table string
	input string
	key   int
	time  ast.TimeSignature
}

func (h *headerTester) runTest(t *testing.T) {
	tab, err := text2braille.NewRegistry(nil, "").Table(h.table)
	require.NoError(t, err)

	score, _ := mustParse(t, tab.Transliterate(h.input)+"\n⠹⠹⠹⠹⠣⠅\n")
	assert.Equal(t, h.key, score.KeySignature.Fifths)
	ts, ok := score.TimeSignature()
	require.True(t, ok)
	assert.Equal(t, h.time, ts)
}

func TestHeader(t *testing.T) {
	tests := map[string]*headerTester{
		"twelve-eight":     {table: "de", input: "#ab(", key: 0, time: ast.TimeSignature{Numerator: 12, Denominator: 8}},
		"common":           {table: "de", input: "#d/", key: 0, time: ast.TimeSignature{Numerator: 4, Denominator: 4}},
		"one-sharp":        {table: "de", input: "3#c/", key: 1, time: ast.TimeSignature{Numerator: 3, Denominator: 4}},
		"one-flat":         {table: "de", input: "2#f(", key: -1, time: ast.TimeSignature{Numerator: 6, Denominator: 8}},
		"four-sharps":      {table: "de", input: "#d3#d/", key: 4, time: ast.TimeSignature{Numerator: 4, Denominator: 4}},
		"four-flats":       {table: "de", input: "#d2#d/", key: -4, time: ast.TimeSignature{Numerator: 4, Denominator: 4}},
		"three-flats":      {table: "de", input: "222#c/", key: -3, time: ast.TimeSignature{Numerator: 3, Denominator: 4}},
		"common-time-sign": {table: "brf", input: ".c", key: 0, time: ast.TimeSignature{Numerator: 4, Denominator: 4, Symbol: ast.CommonTime}},
		"cut-time-sign":    {table: "brf", input: "_c", key: 0, time: ast.TimeSignature{Numerator: 2, Denominator: 2, Symbol: ast.CutTime}},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestMultipleTimeSignatures(t *testing.T) {
	score, _ := mustParse(t, "⠼⠉⠲⠐⠂⠼⠙⠲\n⠹⠹⠹⠣⠅")
	assert.Equal(t, []ast.TimeSignature{{Numerator: 3, Denominator: 4}, {Numerator: 4, Denominator: 4}}, score.TimeSignatures)
}

func TestMeasureStructure(t *testing.T) {
	input := "⠼⠙⠲\n⠐⠹⠄⠁⠉⠃⠱⠉⠈⠉⠫⠣⠜⠧⠧⠨⠅⠝⠐⠂⠥⠀⠼⠂⠄⠹⠹⠹⠹⠣⠅\n"
	score, ann := mustParse(t, input)
	require.Len(t, score.Parts, 1)
	require.Len(t, score.Parts[0].Sections, 1)
	para := score.Parts[0].Sections[0].Paragraphs[0]
	require.Len(t, para.Elements, 2)

	m := para.Elements[0].(*ast.Measure)
	require.Len(t, m.Voices, 2)
	first := m.Voices[0].PartialMeasures[0].PartialVoices[0]
	require.Len(t, first.Signs, 3)

	n := first.Signs[0].(*ast.Note)
	assert.Equal(t, 5, n.Octave)
	assert.Equal(t, ast.C, n.Step)
	assert.Equal(t, ast.QuarterOr64th, n.Value)
	assert.Equal(t, 1, n.Dots)
	assert.Equal(t, []ast.Finger{{Finger: 1, Change: 2}}, n.Fingers)

	d := first.Signs[1].(*ast.Note)
	assert.Equal(t, ast.D, d.Step)
	assert.Equal(t, 1, d.Slurs)
	assert.True(t, d.Tie)

	second := m.Voices[1]
	require.Len(t, second.PartialMeasures, 2)
	assert.Len(t, second.PartialMeasures[0].PartialVoices[0].Signs, 2)
	require.Len(t, second.PartialMeasures[1].PartialVoices, 2)

	ending := para.Elements[1].(*ast.Measure)
	require.NotNil(t, ending.Ending)
	assert.Equal(t, 1, *ending.Ending)

	// Every node has a range inside the input.
	rng, ok := ann.Range(n.ID)
	require.True(t, ok)
	assert.Equal(t, ast.Range{Begin: 4, End: 10}, rng)
	rng, ok = ann.Range(m.ID)
	require.True(t, ok)
	assert.Equal(t, 4, rng.Begin)
}

func TestSigns(t *testing.T) {
	input := "⠼⠙⠲\n⠘⠣⠂⠐⠹⠬⠤⠨⠉⠠⠧⠶⠣⠶⠣⠅⠄⠩⠱⠣⠆⠣⠅"
	score, _ := mustParse(t, input)
	signs := firstMeasure(score).Voices[0].PartialMeasures[0].PartialVoices[0].Signs
	require.Len(t, signs, 8)

	assert.Equal(t, ast.LargeFollows, signs[0].(*ast.ValueDistinction).Kind)

	chord := signs[1].(*ast.Chord)
	assert.Equal(t, ast.C, chord.Base.Step)
	require.Len(t, chord.Intervals, 2)
	assert.Equal(t, 3, chord.Intervals[0].Steps)
	assert.Equal(t, 8, chord.Intervals[1].Steps)
	assert.True(t, chord.Tie)

	rest := signs[2].(*ast.Rest)
	assert.True(t, rest.ByTranscriber)
	assert.Equal(t, ast.QuarterOr64th, rest.Value)

	assert.Equal(t, 1, signs[3].(*ast.Simile).Count)
	assert.Equal(t, ast.BeginRepeat, signs[4].(*ast.Barline).Kind)

	// The end-part barline carries a dot 3 the end of music sign lacks.
	assert.Equal(t, ast.EndPart, signs[5].(*ast.Barline).Kind)
	assert.Equal(t, ast.Sharp, signs[6].(*ast.Note).Accidental)
	assert.Equal(t, ast.EndRepeat, signs[7].(*ast.Barline).Kind)
}

func TestSectionsAndParts(t *testing.T) {
	input := "⠼⠙⠲\n" +
		"  ⠼⠁⠀⠐⠹⠹⠹⠹⠀⠹⠹⠹⠹\n" +
		"⠱⠱⠱⠱\n" +
		"  ⠩⠼⠙⠲\n" +
		"  ⠼⠃⠀⠼⠂⠤⠆⠀⠫⠫⠫⠫⠣⠅\n" +
		"⠼⠙⠲\n" +
		"  ⠨⠜⠐⠹⠹⠹⠹⠣⠅\n" +
		"  ⠸⠜⠄⠝⠝⠣⠅\n"
	score, _ := mustParse(t, input)
	require.Len(t, score.Parts, 2)

	solo := score.Parts[0]
	require.Equal(t, 2, solo.Len())
	require.NotNil(t, solo.Sections[0].Number)
	assert.Equal(t, 1, *solo.Sections[0].Number)
	assert.Len(t, solo.Sections[0].Paragraphs[0].Elements, 3)

	last := solo.Sections[1]
	require.NotNil(t, last.KeyAndTime)
	assert.Equal(t, 1, last.KeyAndTime.Key.Fifths)
	require.NotNil(t, last.Range)
	assert.Equal(t, ast.MeasureRange{First: ast.MeasureSpecification{Number: 1}, Last: ast.MeasureSpecification{Number: 2}}, *last.Range)

	keyboard := score.Parts[1]
	require.Equal(t, 1, keyboard.Len())
	assert.True(t, keyboard.Sections[0].Keyboard)
	assert.Len(t, keyboard.Sections[0].Paragraphs, 2)
}

func TestHyphen(t *testing.T) {
	score, _ := mustParse(t, "⠼⠙⠲\n⠹⠹⠐\n⠹⠹⠣⠅\n")
	signs := firstMeasure(score).Voices[0].PartialMeasures[0].PartialVoices[0].Signs
	require.Len(t, signs, 5)
	assert.IsType(t, &ast.Hyphen{}, signs[2])
}

func TestLineEndings(t *testing.T) {
	for _, eol := range []string{"\n", "\r\n", "\r"} {
		score, _ := mustParse(t, "⠼⠙⠲"+eol+"⠹⠹⠹⠹"+eol+"⠹⠹⠹⠹⠣⠅"+eol)
		assert.Len(t, score.Parts[0].Sections[0].Paragraphs[0].Elements, 2)
	}
}

type syntaxErrorTester struct {
	input string
	line  int
	col   int
	eof   bool
}

func (s *syntaxErrorTester) runTest(t *testing.T) {
	_, _, err := Parse(s.input)
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, s.eof, syn.AtEOF())

	rep := NewReporter("score.bmc", s.input)
	line, col := rep.Position(syn.Pos)
	assert.Equal(t, s.line, line)
	assert.Equal(t, s.col, col)

	msg := rep.ReportError(err)
	if s.eof {
		assert.Contains(t, msg, "unexpected end of file")
		assert.NotContains(t, msg, "^")
	} else {
		assert.True(t, strings.HasSuffix(msg, strings.Repeat(" ", s.col-1)+"^\n"), msg)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := map[string]*syntaxErrorTester{
		"truncated":         {input: "⠼⠙⠲\n⠹⠹⠹", line: 2, col: 4, eof: true},
		"truncated-newline": {input: "⠼⠙⠲\n⠹⠹⠹⠹\n", line: 3, col: 1, eof: true},
		"empty":             {input: "", line: 1, col: 1, eof: true},
		"stray-character":   {input: "⠼⠙⠲\n⠹⠹x⠹⠣⠅\n", line: 2, col: 3},
		"crlf":              {input: "⠼⠙⠲\r\n⠹⠹⠹⠹\r\n⠹⠹⠿x⠣⠅", line: 3, col: 4},
	}

	for name, tt := range tests {
		t.Run(name, tt.runTest)
	}
}

func TestReporter(t *testing.T) {
	rep := NewReporter("a.brl", "ab\r\ncd\rx\ny")
	for pos, want := range [][2]int{{1, 1}, {1, 2}, {1, 3}, {1, 4}, {2, 1}, {2, 2}, {2, 3}, {3, 1}, {3, 2}, {4, 1}, {4, 2}} {
		line, col := rep.Position(pos)
		assert.Equal(t, want, [2]int{line, col}, "pos %d", pos)
	}
	assert.Equal(t, "cd", rep.Line(2))
	assert.Equal(t, "a.brl:2:2: oops\ncd\n ^\n", rep.Report(5, "oops"))
	assert.Equal(t, "a.brl:4:2: oops\n", rep.Report(11, "oops"))
}
