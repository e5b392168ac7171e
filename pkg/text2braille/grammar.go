package text2braille

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// Table files hold one directive per line:
//
//	# comment
//	char a (1)
//	char \# (3456)
//	alias A a
//
// A literal '#', '\' or space must be escaped (\#, \\, \s). \xHH, \uHHHH
// and \UHHHHHHHH name a code point.
type tableFile struct {
	Directives []*directive `parser:"@@*"`
}

type directive struct {
	Pos   lexer.Position
	Char  *charDirective  `parser:"  'char' @@"`
	Alias *aliasDirective `parser:"| 'alias' @@"`
}

type charDirective struct {
	Character string `parser:"@(Escape | Ident | Char)"`
	Dots      string `parser:"@Dots"`
}

type aliasDirective struct {
	From string `parser:"@(Escape | Ident | Char)"`
	To   string `parser:"@(Escape | Ident | Char)"`
}

var tableLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Dots", Pattern: `\([1-8]*\)`},
	{Name: "Escape", Pattern: `\\(?:x[0-9A-Fa-f]{2}|u[0-9A-Fa-f]{4}|U[0-9A-Fa-f]{8}|.)`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "Char", Pattern: `\S`},
})

var tableParser = participle.MustBuild[tableFile](
	participle.Lexer(tableLexer),
	participle.Elide("Comment", "Whitespace"),
)

// ParseTable reads a table file. name becomes the table name and is used in
// error positions.
func ParseTable(name string, data []byte) (*Table, error) {
	file, err := tableParser.ParseBytes(name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse table %s", name)
	}

	t := newTable(name)
	for _, d := range file.Directives {
		switch {
		case d.Char != nil:
			c, err := unescape(d.Char.Character)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", d.Pos)
			}
			dots, _ := Dots(d.Char.Dots[1 : len(d.Char.Dots)-1])
			t.define(c, dots)
		case d.Alias != nil:
			from, err := unescape(d.Alias.From)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", d.Pos)
			}
			to, err := unescape(d.Alias.To)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", d.Pos)
			}
			t.alias(from, to)
		}
	}
	return t, nil
}

func unescape(tok string) (rune, error) {
	if len(tok) > 1 && tok[0] == '\\' {
		switch tok[1] {
		case 'x', 'u', 'U':
			n, err := strconv.ParseUint(tok[2:], 16, 32)
			if err != nil {
				return 0, errors.Wrapf(err, "invalid escape %q", tok)
			}
			return rune(n), nil
		case 's':
			return ' ', nil
		}
		tok = tok[1:]
	}
	r, ok := singleRune(tok)
	if !ok {
		return 0, errors.Errorf("expected a single character, got %q", tok)
	}
	return r, nil
}
