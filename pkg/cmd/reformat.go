package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// source returns the score named by args, or stdin.
func (e *env) source(cmd *cobra.Command, args []string) (*bmc.Source, error) {
	if len(args) == 0 || args[0] == unset {
		return bmc.ReaderSource("<stdin>", cmd.InOrStdin()), nil
	}
	for src, err := range bmc.FindSources(e.conf.FS(), args[:1]) {
		return src, err
	}
	return nil, errors.Errorf("no score at %s", args[0])
}

func (e *env) translate(cmd *cobra.Command, src *bmc.Source) (*bmc.Result, error) {
	data, err := src.Read()
	if err != nil {
		return nil, err
	}
	return e.translator.Translate(src.Name, data, e.conf.Options(), cmd.ErrOrStderr())
}

func (e *env) write(cmd *cobra.Command, fpath string, data []byte) error {
	if fpath == "" || fpath == unset {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return errors.Wrapf(afero.WriteFile(e.conf.FS(), fpath, data, 0644), "failed to write %s", fpath)
}

func reformatCommand(e *env) *cobra.Command {
	var (
		output string
		save   bool
		name   string
	)

	cmd := &cobra.Command{
		Use:     "reformat [file]",
		Short:   "Reformat a braille music score",
		GroupID: "music",
		Example: `
		$ bmc reformat minuet.brl
		$ bmc --set "columns 32, output_table brf" reformat -o minuet.brf minuet.brl
		$ cat minuet.brl | bmc reformat --save --name minuet
		`,
		Long: `
		Reads a score in Unicode braille, or in the characters of the input table, resolves
		the ambiguous note values and prints the score broken to the configured line width.
		Diagnostics go to stderr.
		`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := e.source(cmd, args)
			if err != nil {
				return err
			}
			r, err := e.translate(cmd, src)
			if err != nil {
				return err
			}

			if err := e.write(cmd, output, []byte(r.Text)); err != nil {
				return err
			}

			if save {
				if name == "" {
					name = filepath.Base(src.Name)
				}
				t, err := e.store.Library.Add(name, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s as %s\n", name, t.Serial)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, stdout when unset")
	cmd.Flags().BoolVar(&save, "save", false, "Store the result in the library")
	cmd.Flags().StringVar(&name, "name", "", "Library name, the file name when unset")
	return cmd
}

func checkCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "check file...",
		Short:   "Check that scores parse and their values resolve",
		GroupID: "music",
		Long: `
		Runs every score through the whole pipeline without printing it. Directories are
		searched for ` + strings.Join(bmc.ScoreExts, ", ") + ` files. The exit status is non-zero
		when any score fails.
		`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var total, failed int
			for src, err := range bmc.FindSources(e.conf.FS(), args) {
				if err != nil {
					return err
				}
				total++
				if _, err := e.translate(cmd, src); err != nil {
					failed++
					log.Debug().Err(err).Str("source", src.Name).Msg("check failed")
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED\n", src.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", src.Name)
			}

			if failed > 0 {
				return errors.Errorf("%d of %d scores failed", failed, total)
			}
			return nil
		},
	}
}
