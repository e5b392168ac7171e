package cmd

import (
	"github.com/spf13/cobra"
)

// operatorCmds builds a command group over one kind of stored object.
type operatorCmds struct {
	env *env
	// name of the command
	name  string
	short string
	// Operations
	list   func(*operatorCmds, *cobra.Command, []string) error
	show   func(*operatorCmds, *cobra.Command, []string) error
	remove func(*operatorCmds, *cobra.Command, []string) error
	// more subcommands
	extra []*cobra.Command
}

func (o *operatorCmds) makeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [pattern]...",
		Short: "List " + o.name + " entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.list(o, cmd, args)
		},
	}
}

func (o *operatorCmds) makeShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "show id",
		Aliases: []string{"get"},
		Short:   "Show one " + o.name + " entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.show(o, cmd, args)
		},
	}
}

func (o *operatorCmds) makeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove id...",
		Short: "Remove " + o.name + " entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.remove(o, cmd, args)
		},
	}
}

func (o *operatorCmds) makeCommand() *cobra.Command {
	cmd := &cobra.Command{
		GroupID: "manage",
		Use:     o.name,
		Short:   o.short,
	}

	if o.list != nil {
		cmd.AddCommand(o.makeListCommand())
	}
	if o.show != nil {
		cmd.AddCommand(o.makeShowCommand())
	}
	if o.remove != nil {
		cmd.AddCommand(o.makeRemoveCommand())
	}
	cmd.AddCommand(o.extra...)
	return cmd
}
