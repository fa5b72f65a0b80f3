package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "List identifiers held in the fallback store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := ctx.recorder()
			if err != nil {
				return err
			}
			entries, err := store.Entries()
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if entries == nil {
					entries = []string{}
				}
				return writeJSON(cmd, entries)
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintf(w, "Fallback store %s is empty\n", store.Path())
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				rows = append(rows, []string{strconv.Itoa(i + 1), entry})
			}
			fmt.Fprintln(w, renderTable(w, []string{"#", "UUID"}, rows, []columnAlignment{alignRight, alignLeft}))
			fmt.Fprintln(w, newPrinter().Sprintf("%d identifiers in %s", len(entries), store.Path()))
			return nil
		},
	}
}
