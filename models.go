package bmc

import (
	"fmt"

	"github.com/bmc/pkg/ast"
)

// Metadata describes a transcription. It is stored as JSON next to the
// transcription in the library.
type Metadata struct {
	Parts    int `json:"parts"`
	Sections int `json:"sections"`
	// Measures counts the measures of the first staff of every part.
	Measures       int      `json:"measures"`
	KeySignature   int      `json:"key_signature"`
	TimeSignatures []string `json:"time_signatures"`
	Keyboard       bool     `json:"keyboard"`

	Columns          int    `json:"columns"`
	FirstLineColumns int    `json:"first_line_columns,omitempty"`
	InputTable       string `json:"input_table,omitempty"`
	OutputTable      string `json:"output_table,omitempty"`
}

func timeSignature(t ast.TimeSignature) string {
	return fmt.Sprintf("%d/%d", t.Numerator, t.Denominator)
}

func describe(score *ast.Score, opts Options) Metadata {
	md := Metadata{
		Parts:            len(score.Parts),
		KeySignature:     score.KeySignature.Fifths,
		TimeSignatures:   []string{},
		Columns:          opts.Style.Columns,
		FirstLineColumns: opts.Style.FirstLineColumns,
		InputTable:       opts.InputTable,
		OutputTable:      opts.OutputTable,
	}
	for _, t := range score.TimeSignatures {
		md.TimeSignatures = append(md.TimeSignatures, timeSignature(t))
	}

	for _, part := range score.Parts {
		md.Sections += part.Len()
		for _, sec := range part.Sections {
			md.Keyboard = md.Keyboard || sec.Keyboard
			if len(sec.Paragraphs) == 0 {
				continue
			}
			for _, el := range sec.Paragraphs[0].Elements {
				if _, ok := el.(*ast.Measure); ok {
					md.Measures++
				}
			}
		}
	}
	return md
}
