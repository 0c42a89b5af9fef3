package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.trai.ch/sweep/internal/app"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/ui/style"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored contexts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			taskType, _ := cmd.Flags().GetString("type")
			all, _ := cmd.Flags().GetBool("all")

			contexts, err := c.app.List(cmd.Context(), app.ListOptions{Type: taskType, All: all})
			if err != nil {
				return err
			}
			if len(contexts) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), style.Muted.Render("no contexts"))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), contextTable(contexts))
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "Only list contexts of this task type")
	cmd.Flags().BoolP("all", "a", false, "Include contexts that never completed")
	return cmd
}

func contextTable(contexts []app.ContextSummary) string {
	rows := make([][]string, 0, len(contexts))
	for _, c := range contexts {
		status, finished := style.Circle+" incomplete", ""
		if c.Complete {
			status = style.Check + " complete"
			finished = c.Metadata.End.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{c.ID, c.Type, status, finished, formatDiscriminators(c.Discriminators)})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.Muted).
		Headers("ID", "TYPE", "STATUS", "FINISHED", "DISCRIMINATORS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Inherit(style.Header)
			case col != 2 || row >= len(contexts):
				return s
			case contexts[row].Complete:
				return s.Inherit(style.Success)
			}
			return s.Inherit(style.Muted)
		}).
		String()
}

func formatDiscriminators(d domain.Discriminators) string {
	parts := make([]string, 0, len(d))
	for _, k := range d.Keys() {
		parts = append(parts, k+"="+d[k])
	}
	return strings.Join(parts, " ")
}
