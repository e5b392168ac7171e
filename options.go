package bmc

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ParseOverrides reads settings written as "key value, key value", the way
// the --set flag takes them. Values are words or double-quoted strings;
// dashes in keys read as underscores.
func ParseOverrides(line string) (map[string]string, error) {
	s := &symbols{input: []rune(line)}
	return s.parse()
}

type symbols struct {
	input []rune
	pos   int
}

func (s *symbols) next() rune {
	if s.pos >= len(s.input) {
		return 0
	}
	ch := s.input[s.pos]
	s.pos++
	return ch
}

func (s *symbols) peek() rune {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

func (s *symbols) skipWhitespace() {
	for unicode.IsSpace(s.peek()) {
		s.next()
	}
}

func isWord(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || strings.ContainsRune("-_./~", ch)
}

func (s *symbols) word() string {
	var w []rune
	for ch := s.peek(); ch != 0 && isWord(ch); ch = s.peek() {
		w = append(w, ch)
		s.next()
	}
	return string(w)
}

func (s *symbols) key() string {
	s.skipWhitespace()
	return strings.ReplaceAll(s.word(), "-", "_")
}

// quoted parses a double-quoted string. Backslash escapes the next rune.
func (s *symbols) quoted() (string, error) {
	start := s.pos
	s.next()

	var str []rune
	for {
		switch ch := s.next(); ch {
		case 0:
			return "", errors.Errorf("unterminated string at %d", start)
		case '"':
			return string(str), nil
		case '\\':
			if esc := s.next(); esc != 0 {
				str = append(str, esc)
			}
		default:
			str = append(str, ch)
		}
	}
}

func (s *symbols) value() (string, error) {
	s.skipWhitespace()
	if s.peek() == '"' {
		return s.quoted()
	}
	return s.word(), nil
}

func (s *symbols) parse() (map[string]string, error) {
	flags := make(map[string]string)
	for {
		key := s.key()
		if key == "" {
			break
		}

		value, err := s.value()
		if err != nil {
			return nil, err
		}
		flags[key] = value

		s.skipWhitespace()
		if s.peek() == 0 {
			break
		}
		if s.peek() != ',' {
			return nil, errors.Errorf("expected ',' between settings at %d", s.pos)
		}
		s.next()
	}

	s.skipWhitespace()
	if s.peek() != 0 {
		return nil, errors.Errorf("unexpected %q at %d", s.peek(), s.pos)
	}
	return flags, nil
}
