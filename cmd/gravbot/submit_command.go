package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gravbot/internal/services"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "submit <uuid-or-link>...",
		Short: "Submit replays to the parse endpoint",
		Long: "Submit one or more replays. Each argument may be a replay UUID or a link\n" +
			"carrying a uuid= parameter. Invalid inputs are reported and skipped.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			recorder, _, err := ctx.recorder()
			if err != nil {
				return err
			}
			limit := concurrency
			if limit <= 0 {
				limit = cfg.Submit.Concurrency
			}
			reqCtx := services.WithOrigin(cmd.Context(), "cli")
			tally := recorder.SubmitAll(reqCtx, args, limit)
			return renderTally(cmd, ctx, tally)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent submissions (defaults to submit.concurrency)")
	return cmd
}
