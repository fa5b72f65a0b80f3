package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"gravbot/internal/api"
	"gravbot/internal/replays"
	"gravbot/internal/services"
	"gravbot/internal/services/parse"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var onlyLog bool

	cmd := &cobra.Command{
		Use:   "record <uuid>",
		Short: "Record a replay by submitting it or writing it to the fallback store",
		Long: "Record a replay identifier. By default it is submitted to the parse\n" +
			"endpoint; with --only-log it is appended to the local fallback store\n" +
			"without any network call. The identifier is not validated.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *parse.Result
			recorder, store, err := ctx.recorder(replays.WithResultHandler(func(_ context.Context, r parse.Result) {
				result = &r
			}))
			if err != nil {
				return err
			}

			id := strings.TrimSpace(args[0])
			reqCtx := services.WithOrigin(cmd.Context(), "cli")
			if err := recorder.RecordReplay(reqCtx, id, onlyLog); err != nil {
				return err
			}

			if onlyLog {
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.LoggedResponse{UUID: id, Logged: true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s to %s\n", id, store.Path())
				return nil
			}
			if result == nil {
				return nil
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			line := fmt.Sprintf("%s %s", outcomeLabel(result.Outcome.String()), result.UUID)
			if detail := resultDetail(*result); detail != "" {
				line += ": " + detail
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}

	cmd.Flags().BoolVar(&onlyLog, "only-log", false, "Append to the fallback store instead of submitting")
	return cmd
}
