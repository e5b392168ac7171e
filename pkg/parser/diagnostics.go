package parser

import (
	"fmt"
	"strings"

	"github.com/bmc/pkg/ast"
	"github.com/pkg/errors"
)

// Reporter turns rune offsets into line/column diagnostics for one input.
type Reporter struct {
	Source string

	input []rune
	// lines holds the offset at which each line starts.
	lines []int
}

func NewReporter(source, input string) *Reporter {
	r := &Reporter{Source: source, input: []rune(input), lines: []int{0}}
	for i := 0; i < len(r.input); i++ {
		switch r.input[i] {
		case '\r':
			if i+1 < len(r.input) && r.input[i+1] == '\n' {
				i++
			}
			r.lines = append(r.lines, i+1)
		case '\n':
			r.lines = append(r.lines, i+1)
		}
	}
	return r
}

// Position returns the 1-based line and column of a rune offset.
func (r *Reporter) Position(pos int) (line, col int) {
	if pos > len(r.input) {
		pos = len(r.input)
	}
	line = 1
	for line < len(r.lines) && r.lines[line] <= pos {
		line++
	}
	return line, pos - r.lines[line-1] + 1
}

// Line returns the text of a 1-based line without its terminator.
func (r *Reporter) Line(line int) string {
	if line < 1 || line > len(r.lines) {
		return ""
	}
	end := len(r.input)
	if line < len(r.lines) {
		end = r.lines[line]
	}
	return strings.TrimRight(string(r.input[r.lines[line-1]:end]), "\r\n")
}

// Report formats a message for an offset. Offsets inside the input get the
// offending line and a caret; the end of input does not.
func (r *Reporter) Report(pos int, msg string) string {
	line, col := r.Position(pos)
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d:%d: %s\n", r.Source, line, col, msg)
	if pos >= len(r.input) {
		return b.String()
	}
	b.WriteString(r.Line(line))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", col-1))
	b.WriteString("^\n")
	return b.String()
}

// ReportNode reports msg at the start of the node with the given id.
func (r *Reporter) ReportNode(ann *ast.Annotations, id int, msg string) string {
	rng, ok := ann.Range(id)
	if !ok {
		return fmt.Sprintf("%s: %s\n", r.Source, msg)
	}
	return r.Report(rng.Begin, msg)
}

// ReportError formats err, placing syntax errors at their position.
func (r *Reporter) ReportError(err error) string {
	var syn *SyntaxError
	if errors.As(err, &syn) {
		return r.Report(syn.Pos, syn.Error())
	}
	return fmt.Sprintf("%s: %s\n", r.Source, err)
}
