// Package text2braille maps text characters to braille dot patterns.
//
// Scores are often typed on keyboards that produce braille ASCII or a
// national computer braille code instead of Unicode braille. A Table turns
// each such character into exactly one braille cell, so offsets into the
// input stay valid after transliteration.
package text2braille

import (
	"strings"
	"unicode/utf8"
)

const (
	// BrailleBase is the first code point of the Unicode braille block.
	BrailleBase rune = 0x2800
	brailleLast rune = 0x28FF
)

// Cell returns the Unicode braille character for a dot pattern.
func Cell(dots byte) rune { return BrailleBase | rune(dots) }

// IsBraille reports whether r is in the Unicode braille block.
func IsBraille(r rune) bool { return r >= BrailleBase && r <= brailleLast }

// Dots parses a dot list such as "1456" into its bit pattern. It returns
// false on characters outside 1-8.
func Dots(list string) (byte, bool) {
	var dots byte
	for _, d := range list {
		if d < '1' || d > '8' {
			return 0, false
		}
		dots |= 1 << (d - '1')
	}
	return dots, true
}

type Table struct {
	Name    string
	chars   map[rune]byte
	aliases map[rune]rune
	reverse map[byte]rune
}

func newTable(name string) *Table {
	return &Table{
		Name:    name,
		chars:   make(map[rune]byte),
		aliases: make(map[rune]rune),
		reverse: make(map[byte]rune),
	}
}

// define maps c to dots. The first character defined for a pattern is the
// one Render produces.
func (t *Table) define(c rune, dots byte) {
	t.chars[c] = dots
	if _, ok := t.reverse[dots]; !ok {
		t.reverse[dots] = c
	}
}

func (t *Table) alias(from, to rune) {
	t.aliases[from] = to
}

// Dots returns the dot pattern for c. Braille characters map to their own
// pattern in every table.
func (t *Table) Dots(c rune) (byte, bool) {
	if IsBraille(c) {
		return byte(c - BrailleBase), true
	}
	if dots, ok := t.chars[c]; ok {
		return dots, true
	}
	if to, ok := t.aliases[c]; ok {
		dots, ok := t.chars[to]
		return dots, ok
	}
	return 0, false
}

// Character returns the text character for a dot pattern.
func (t *Table) Character(dots byte) (rune, bool) {
	c, ok := t.reverse[dots]
	return c, ok
}

// Transliterate converts every mapped character of s to Unicode braille.
// Line breaks are kept. Characters without a mapping are copied unchanged,
// so a parser will report them at their original offset.
func (t *Table) Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, c := range s {
		if c == '\n' || c == '\r' {
			b.WriteRune(c)
			continue
		}
		if dots, ok := t.Dots(c); ok {
			b.WriteRune(Cell(dots))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Render converts Unicode braille back to the table's characters. Cells the
// table cannot represent are kept as braille.
func (t *Table) Render(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if IsBraille(c) {
			if r, ok := t.Character(byte(c - BrailleBase)); ok {
				b.WriteRune(r)
				continue
			}
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Len returns the number of characters defined, aliases excluded.
func (t *Table) Len() int { return len(t.chars) }

func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError && size == len(s) && size > 0
}
