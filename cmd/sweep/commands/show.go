package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/sweep/internal/ui/style"
)

func (c *CLI) newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of a completed context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			field(w, "id", d.Metadata.ID)
			field(w, "type", d.Metadata.Type)
			field(w, "started", d.Metadata.Start.Local().Format(time.DateTime))
			field(w, "finished", d.Metadata.End.Local().Format(time.DateTime))
			field(w, "duration", d.Metadata.End.Sub(d.Metadata.Start).Round(time.Millisecond).String())

			section(w, "discriminators")
			for _, k := range d.Discriminators.Keys() {
				field(w, "  "+k, d.Discriminators[k])
			}

			if len(d.Metadata.Imports) > 0 {
				section(w, "imports")
				for _, k := range sortedKeys(d.Metadata.Imports) {
					field(w, "  "+k, d.Metadata.Imports[k])
				}
			}

			section(w, "attributes")
			for _, k := range sortedKeys(d.Attributes) {
				field(w, "  "+k, d.Attributes[k])
			}

			if len(d.Subtasks) > 0 {
				section(w, "subtasks")
				for _, id := range d.Subtasks {
					_, _ = fmt.Fprintln(w, "  "+id)
				}
			}
			return nil
		},
	}
}

func section(w io.Writer, name string) {
	_, _ = fmt.Fprintln(w, style.Header.Render(name))
}

func field(w io.Writer, key, value string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", style.Key.Render(key+":"), value)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
