package text2braille

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// TableExt is the extension of table files in a tables directory.
const TableExt = ".ttb"

// ResourceError reports a table that could not be found or loaded.
type ResourceError struct {
	Table string
	Err   error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("table %q unavailable: %v", e.Table, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Registry resolves table names to tables. Files in the tables directory
// shadow builtin tables of the same name.
type Registry struct {
	fs    afero.Fs
	dir   string
	cache *expirable.LRU[string, *Table]
}

// NewRegistry returns a registry reading table files from dir on fs. An
// empty dir only serves builtin tables.
func NewRegistry(fs afero.Fs, dir string) *Registry {
	return &Registry{
		fs:    fs,
		dir:   dir,
		cache: expirable.NewLRU[string, *Table](32, nil, 5*time.Minute),
	}
}

// LocaleTable names the builtin table of the current locale.
const LocaleTable = "locale"

func currentLocale() string {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

// Table loads the named table. A missing table is a *ResourceError.
func (r *Registry) Table(name string) (*Table, error) {
	if name == LocaleTable {
		name = TableForLocale(currentLocale())
	}
	if t, ok := r.cache.Get(name); ok {
		return t, nil
	}

	t, err := r.load(name)
	if err != nil {
		return nil, &ResourceError{Table: name, Err: err}
	}
	r.cache.Add(name, t)
	return t, nil
}

func (r *Registry) load(name string) (*Table, error) {
	if r.dir != "" && r.fs != nil {
		fpath := filepath.Join(r.dir, name+TableExt)
		data, err := afero.ReadFile(r.fs, fpath)
		switch {
		case err == nil:
			log.Debug().Str("table", name).Str("path", fpath).Msg("loading table file")
			return ParseTable(name, data)
		case !errors.Is(err, os.ErrNotExist):
			return nil, errors.Wrapf(err, "failed to read %s", fpath)
		}
	}
	if t, ok := builtins[name]; ok {
		return t, nil
	}
	return nil, errors.Errorf("no such table")
}

// Names lists builtin tables and the table files found in the directory.
func (r *Registry) Names() []string {
	names := BuiltinNames()
	if r.dir == "" || r.fs == nil {
		return names
	}
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		log.Debug().Err(err).Str("dir", r.dir).Msg("no tables directory")
		return names
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), TableExt) {
			continue
		}
		if n := strings.TrimSuffix(e.Name(), TableExt); !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	slices.Sort(names)
	return names
}

// DotsForCharacter looks c up in a builtin table.
func DotsForCharacter(c rune, table string) (byte, bool) {
	t, ok := builtins[table]
	if !ok {
		if IsBraille(c) {
			return byte(c - BrailleBase), true
		}
		return 0, false
	}
	return t.Dots(c)
}
