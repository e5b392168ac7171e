// Sources of scores
//
// Usage:
// for src, err := range FindSources(fs, []string{"scores/*.brl"}) {...}
//
// src.Read() // the raw bytes of the score
package bmc

import (
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ScoreExts are the extensions searched for inside a directory.
var ScoreExts = []string{".bmc", ".brl", ".brf", ".txt"}

// A single score to translate
type Source struct {
	// name of the source, used in diagnostics and the library
	Name string
	read func() ([]byte, error)
}

func (s *Source) Read() ([]byte, error) {
	data, err := s.read()
	return data, errors.Wrapf(err, "failed to read %s", s.Name)
}

// ReaderSource reads from r, e.g. stdin.
func ReaderSource(name string, r io.Reader) *Source {
	return &Source{Name: name, read: func() ([]byte, error) { return io.ReadAll(r) }}
}

func fileSource(fs afero.Fs, fpath string) *Source {
	return &Source{Name: fpath, read: func() ([]byte, error) { return afero.ReadFile(fs, fpath) }}
}

// FindSources expands files, directories and glob patterns. Directories
// are searched recursively for ScoreExts files; named files are taken
// whatever their extension.
func FindSources(fs afero.Fs, args []string) iter.Seq2[*Source, error] {
	return func(yield func(*Source, error) bool) {
		for _, arg := range args {
			matches, err := afero.Glob(fs, arg)
			if err != nil {
				yield(nil, errors.Wrapf(err, "invalid glob pattern %s", arg))
				return
			}
			if len(matches) == 0 {
				// not a pattern, or a missing file: reading reports it
				matches = []string{arg}
			}

			for _, match := range matches {
				if !expand(fs, match, yield) {
					return
				}
			}
		}
	}
}

func expand(fs afero.Fs, fpath string, yield func(*Source, error) bool) bool {
	info, err := fs.Stat(fpath)
	if err != nil || !info.IsDir() {
		return yield(fileSource(fs, fpath), nil)
	}

	var files []string
	err = afero.Walk(fs, fpath, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && slices.Contains(ScoreExts, filepath.Ext(p)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return yield(nil, errors.Wrapf(err, "failed to walk %s", fpath))
	}

	slices.Sort(files)
	for _, f := range files {
		if !yield(fileSource(fs, f), nil) {
			return false
		}
	}
	return true
}
