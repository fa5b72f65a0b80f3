package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gravbot/internal/services"
)

func newResubmitCommand(ctx *commandContext) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "resubmit",
		Short: "Submit every identifier held in the fallback store",
		Long: "Read the fallback store and submit each identifier to the parse\n" +
			"endpoint. The store is left unchanged; duplicates are reported as such.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			recorder, store, err := ctx.recorder()
			if err != nil {
				return err
			}
			entries, err := store.Entries()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Fallback store %s is empty\n", store.Path())
				return nil
			}
			limit := concurrency
			if limit <= 0 {
				limit = cfg.Submit.Concurrency
			}
			reqCtx := services.WithOrigin(cmd.Context(), "resubmit")
			tally := recorder.SubmitAll(reqCtx, entries, limit)
			return renderTally(cmd, ctx, tally)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Maximum concurrent submissions (defaults to submit.concurrency)")
	return cmd
}
