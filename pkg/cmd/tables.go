package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func tablesCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "tables [name]...",
		Short:   "List transliteration tables",
		GroupID: "manage",
		Long: `
		Lists the builtin tables and the .ttb files in the tables directory. With names, loads
		each table and reports how many characters it defines.
		`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := e.translator.Tables()
			names := args
			if len(names) == 0 {
				names = tables.Names()
			}

			for _, name := range names {
				t, err := tables.Table(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d characters\n", name, t.Len())
			}
			return nil
		},
	}
}
