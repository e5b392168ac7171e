package bmc

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bmc/pkg/ast"
	"github.com/bmc/pkg/disambiguate"
	"github.com/bmc/pkg/parser"
	"github.com/bmc/pkg/reformat"
	"github.com/bmc/pkg/text2braille"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// EncodingError reports input that is not UTF-8.
type EncodingError struct {
	Source string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", e.Source, e.Offset)
}

// Options select the tables and layout of one translation.
type Options struct {
	Style       reformat.Style
	InputTable  string
	OutputTable string
}

func (c *Configuration) Options() Options {
	return Options{
		Style:       c.Settings.Style(),
		InputTable:  c.Settings.InputTable,
		OutputTable: c.Settings.OutputTable,
	}
}

// Result is a reformatted score.
type Result struct {
	Source string
	// Hash identifies the input together with its options.
	Hash   string
	Input  string
	Score  *ast.Score
	Output reformat.Output
	// Text is the output rendered through the output table.
	Text     string
	Metadata Metadata
}

// Translator runs the pipeline: decode, transliterate, parse,
// disambiguate, reformat and render. Results are cached by source and hash.
type Translator struct {
	tables        *text2braille.Registry
	disambiguator *disambiguate.Disambiguator
	cache         *expirable.LRU[string, *Result]
}

func NewTranslator(conf *Configuration) *Translator {
	return newTranslator(text2braille.NewRegistry(conf.FS(), conf.Tables()))
}

// NewTranslatorFs reads user tables from dir on fs.
func NewTranslatorFs(fs afero.Fs, dir string) *Translator {
	return newTranslator(text2braille.NewRegistry(fs, dir))
}

func newTranslator(tables *text2braille.Registry) *Translator {
	return &Translator{
		tables:        tables,
		disambiguator: disambiguate.New(),
		cache:         expirable.NewLRU[string, *Result](64, nil, 10*time.Minute),
	}
}

func (t *Translator) Tables() *text2braille.Registry { return t.tables }

func hash(data []byte, opts Options) string {
	h := md5.New()
	h.Write(data)
	fmt.Fprintf(h, "\x00%+v", opts)
	return hex.EncodeToString(h.Sum(nil))
}

// Translate reformats data. Diagnostics go to diag in the
// "source:line:column: message" format, followed by the offending line and a
// caret. The returned error wraps a *parser.SyntaxError,
// disambiguate.Errors or *EncodingError.
func (t *Translator) Translate(source string, data []byte, opts Options, diag io.Writer) (*Result, error) {
	if !utf8.Valid(data) {
		err := &EncodingError{Source: source, Offset: invalidOffset(data)}
		fmt.Fprintln(diag, err)
		return nil, err
	}

	key := hash(data, opts)
	if r, ok := t.cache.Get(source + "\x00" + key); ok {
		log.Debug().Str("source", source).Str("hash", key).Msg("cached translation")
		return r, nil
	}

	input := t.transliterate(string(data), opts.InputTable)
	reporter := parser.NewReporter(source, input)

	score, ann, err := parser.Parse(input)
	if err != nil {
		io.WriteString(diag, reporter.ReportError(err))
		return nil, errors.Wrapf(err, "failed to parse %s", source)
	}

	if err := t.disambiguator.Disambiguate(score); err != nil {
		var errs disambiguate.Errors
		if errors.As(err, &errs) {
			for _, e := range errs {
				io.WriteString(diag, reporter.ReportNode(ann, e.Measure, e.Error()))
			}
		}
		return nil, errors.Wrapf(err, "failed to resolve values of %s", source)
	}

	out := reformat.Reformat(score, opts.Style)
	r := &Result{
		Source:   source,
		Hash:     key,
		Input:    input,
		Score:    score,
		Output:   out,
		Text:     t.render(out.String(), opts.OutputTable),
		Metadata: describe(score, opts),
	}
	t.cache.Add(source+"\x00"+key, r)
	return r, nil
}

// transliterate maps text input to braille. A table that cannot be loaded
// leaves the input as it is.
func (t *Translator) transliterate(input, table string) string {
	if table == "" {
		return input
	}
	tab, err := t.tables.Table(table)
	if err != nil {
		log.Warn().Err(err).Str("table", table).Msg("input is not transliterated")
		return input
	}
	return tab.Transliterate(input)
}

func (t *Translator) render(output, table string) string {
	if table == "" {
		return output
	}
	tab, err := t.tables.Table(table)
	if err != nil {
		log.Warn().Err(err).Str("table", table).Msg("output is not rendered")
		return output
	}
	return tab.Render(output)
}

func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(data)
}
