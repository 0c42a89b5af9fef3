package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/sweep/internal/app"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/sweep/internal/ui/style"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <experiment.yaml>",
		Short: "Run an experiment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			opts, err := runOptions(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			watch, _ := cmd.Flags().GetBool("watch")
			if watch {
				return c.app.Watch(cmd.Context(), args[0], opts, func(id string, err error) {
					if err != nil {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), style.Failure.Render(style.Cross+" "+err.Error()))
						return
					}
					_, _ = fmt.Fprintln(out, style.Success.Render(style.Check)+" "+id)
				})
			}

			id, err := c.app.Run(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, id)
			return nil
		},
	}
	cmd.Flags().StringP("policy", "p", "", "Default policy for existing results: use-existing, run-again or ask-existing")
	cmd.Flags().IntP("workers", "w", 0, "Number of subtasks run concurrently by batches that do not set one")
	cmd.Flags().String("metrics", "", "Write Prometheus metrics to this file after the run")
	cmd.Flags().Bool("watch", false, "Run again every time the experiment file changes")
	return cmd
}

func runOptions(cmd *cobra.Command) (app.RunOptions, error) {
	var opts app.RunOptions

	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		policy, err := domain.ParsePolicy(p)
		if err != nil {
			return opts, err
		}
		opts.Policy = policy
	}
	opts.Workers, _ = cmd.Flags().GetInt("workers")
	opts.MetricsPath, _ = cmd.Flags().GetString("metrics")
	return opts, nil
}
