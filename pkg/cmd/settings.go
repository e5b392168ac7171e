package cmd

import (
	"fmt"

	"github.com/bmc"
	"github.com/spf13/cobra"
)

func settingsCommand(e *env) *cobra.Command {
	o := &operatorCmds{env: e, name: "settings", short: "Inspect and store settings"}

	o.list = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		stored, err := oc.env.store.Settings.List()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%-20s | %-8s | %s\n", "Key", "Source", "Value")
		for _, key := range bmc.SettingKeys {
			v, err := oc.env.conf.Settings.Get(key)
			if err != nil {
				return err
			}
			from := "file"
			if _, ok := stored[key]; ok {
				from = "stored"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s | %-8s | %s\n", key, from, v)
		}
		return nil
	}

	o.show = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		v, err := oc.env.conf.Settings.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}

	o.remove = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		return oc.env.store.Settings.Remove(args...)
	}

	set := &cobra.Command{
		Use:   "set key value",
		Short: "Store a setting. Stored settings override the settings file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.store.Settings.Set(args[0], args[1])
		},
	}

	write := &cobra.Command{
		Use:   "write",
		Short: "Write the effective settings to " + bmc.ConfigFile,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.conf.SaveSettings()
		},
	}

	o.extra = []*cobra.Command{set, write}
	return o.makeCommand()
}
