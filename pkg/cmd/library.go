package cmd

import (
	"fmt"
	"io"

	"github.com/bmc"
	"github.com/bmc/pkg/database"
	"github.com/spf13/cobra"
)

func printTranscriptions(w io.Writer, ts []*database.Transcription) error {
	fmt.Fprintf(w, "%-8s | %-24s | %-8s | %-6s | %s\n", "Serial", "Name", "Measures", "Time", "Saved")
	for _, t := range ts {
		md, err := bmc.TranscriptionMetadata(t)
		if err != nil {
			return err
		}
		meter := ""
		if len(md.TimeSignatures) > 0 {
			meter = md.TimeSignatures[0]
		}
		fmt.Fprintf(w, "%-8s | %-24s | %-8d | %-6s | %s\n",
			t.Serial[:8], t.Name, md.Measures, meter, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func libraryCommand(e *env) *cobra.Command {
	o := &operatorCmds{env: e, name: "library", short: "Browse saved transcriptions"}
	var input, metadata bool

	o.list = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		ts, err := oc.env.store.Library.Find(args...)
		if err != nil {
			return err
		}
		return printTranscriptions(cmd.OutOrStdout(), ts)
	}

	o.show = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		t, err := oc.env.store.Library.Get(args[0])
		if err != nil {
			return err
		}
		switch {
		case input:
			_, err = io.WriteString(cmd.OutOrStdout(), t.Input)
		case metadata:
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(t.Metadata))
		default:
			_, err = io.WriteString(cmd.OutOrStdout(), t.Output)
		}
		return err
	}

	o.remove = func(oc *operatorCmds, cmd *cobra.Command, args []string) error {
		var serials []string
		for _, prefix := range args {
			t, err := oc.env.store.Library.Get(prefix)
			if err != nil {
				return err
			}
			serials = append(serials, t.Serial)
		}
		return oc.env.store.Library.Remove(serials...)
	}

	cmd := o.makeCommand()
	show, _, _ := cmd.Find([]string{"show"})
	show.Flags().BoolVar(&input, "input", false, "Print the input instead of the output")
	show.Flags().BoolVar(&metadata, "metadata", false, "Print the metadata as JSON")
	show.MarkFlagsMutuallyExclusive("input", "metadata")
	return cmd
}
