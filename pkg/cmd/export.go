package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmc"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func exportCommand(e *env) *cobra.Command {
	var (
		plugin string
		output string
	)

	cmd := &cobra.Command{
		Use:     "export --plugin name [file]",
		Short:   "Reformat a score and hand it to an exporter plugin",
		GroupID: "music",
		Example: `
		$ bmc export --plugin brf-exporter minuet.brl
		wrote minuet.brf
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
			md, err := json.Marshal(r.Metadata)
			if err != nil {
				return errors.Wrap(err, "failed to marshal metadata")
			}

			plugins := bmc.NewPlugins(e.conf)
			defer plugins.Close()

			exp, err := plugins.Exporter(plugin)
			if err != nil {
				return err
			}
			data, err := bmc.Export(exp, r, md)
			if err != nil {
				return err
			}

			if output == "" && len(args) > 0 {
				props, err := exp.Properties()
				if err != nil {
					return errors.Wrapf(err, "plugin %s", plugin)
				}
				output = strings.TrimSuffix(src.Name, filepath.Ext(src.Name)) + props.Extension
			}
			if err := e.write(cmd, output, data); err != nil {
				return err
			}
			if output != "" && output != unset {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&plugin, "plugin", "", "Exporter plugin in the plugins directory")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "-" for stdout`)
	cmd.MarkFlagRequired("plugin")
	return cmd
}

func pluginsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "plugins",
		Short:   "List exporter plugins",
		GroupID: "manage",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plugins := bmc.NewPlugins(e.conf)
			defer plugins.Close()

			names, err := plugins.Names()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%-20s | %-6s | %s\n", "Name", "Ext", "Description")
			for _, name := range names {
				exp, err := plugins.Exporter(name)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s | %-6s | %v\n", name, "", err)
					continue
				}
				props, err := exp.Properties()
				if err != nil {
					return errors.Wrapf(err, "plugin %s", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s | %-6s | %s\n", name, props.Extension, props.Description)
			}
			return nil
		},
	}
}
