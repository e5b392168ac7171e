package text2braille

import (
	"strings"
)

// Tables are written as character/dot-list pairs, the same way table files
// spell them.
var builtinSources = map[string][]string{
	// North American braille ASCII.
	"brf": {
		" ", "", "!", "2346", "\"", "5", "#", "3456", "$", "1246", "%", "146",
		"&", "12346", "'", "3", "(", "12356", ")", "23456", "*", "16", "+", "346",
		",", "6", "-", "36", ".", "46", "/", "34", "0", "356", "1", "2",
		"2", "23", "3", "25", "4", "256", "5", "26", "6", "235", "7", "2356",
		"8", "236", "9", "35", ":", "156", ";", "56", "<", "126", "=", "123456",
		">", "345", "?", "1456", "@", "4", "[", "246", "\\", "1256", "]", "12456",
		"^", "45", "_", "456",
	},
	// German computer braille, the part a music transcriber types.
	"de": {
		" ", "", "#", "3456", "1", "16", "2", "126", "3", "146", "4", "1456",
		"5", "156", "6", "1246", "7", "12456", "8", "1256", "9", "246", "0", "2456",
		".", "3", ",", "2", ";", "23", ":", "25", "?", "26", "!", "235",
		"(", "236", ")", "356", "-", "36", "/", "256", "\"", "2356", "'", "6",
		"$", "4", "+", "235", "*", "35", "<", "45", ">", "345", "_", "456",
		"=", "123456", "%", "346", "&", "12346", "@", "5", "|", "56",
	},
}

var letters = []string{
	"1", "12", "14", "145", "15", "124", "1245", "125", "24", "245",
	"13", "123", "134", "1345", "135", "1234", "12345", "1235", "234", "2345",
	"136", "1236", "2456", "1346", "13456", "1356",
}

var builtins = loadBuiltins()

func loadBuiltins() map[string]*Table {
	tables := make(map[string]*Table, len(builtinSources))
	for name, pairs := range builtinSources {
		t := newTable(name)
		for i := 0; i < len(pairs); i += 2 {
			c, _ := singleRune(pairs[i])
			dots, ok := Dots(pairs[i+1])
			if !ok {
				panic("text2braille: bad builtin dots " + pairs[i+1])
			}
			t.define(c, dots)
		}
		for i, list := range letters {
			dots, _ := Dots(list)
			lower := rune('a' + i)
			t.define(lower, dots)
			switch name {
			case "brf":
				t.alias(rune('A'+i), lower)
			default:
				t.define(rune('A'+i), dots|1<<6)
			}
		}
		tables[name] = t
	}
	return tables
}

// BuiltinNames lists the tables available without any table file.
func BuiltinNames() []string {
	return []string{"brf", "de"}
}

var locales = []string{"de"}

// TableForLocale picks a builtin table name for a locale string such as
// "de_AT.UTF-8". It falls back to "brf".
func TableForLocale(locale string) string {
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "brf"
	}
	if i := strings.IndexByte(locale, '.'); i >= 0 {
		locale = locale[:i]
	}
	for _, candidate := range []string{locale, strings.SplitN(locale, "_", 2)[0]} {
		for _, l := range locales {
			if l == candidate {
				return l
			}
		}
	}
	return "brf"
}
