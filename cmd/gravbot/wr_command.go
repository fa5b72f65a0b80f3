package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gravbot/internal/api"
	"gravbot/internal/records"
	"gravbot/internal/services"
)

func newWRCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var refresh bool

	cmd := &cobra.Command{
		Use:   "wr <map-id>",
		Short: "Show the world record for a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapID := strings.TrimSpace(args[0])
			cache, err := ctx.cache()
			if err != nil {
				return err
			}
			reqCtx := services.WithOrigin(cmd.Context(), "cli")
			snapshot, err := cache.Refresh(reqCtx, refresh)
			if err != nil {
				return fmt.Errorf("world record data is unavailable: %w", err)
			}

			if all {
				entries := records.ForMap(snapshot, mapID)
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.MapRecordsResponse{MapID: mapID, Records: api.FromEntries(entries)})
				}
				return renderMapRecords(cmd, mapID, entries)
			}

			entry, found := records.BestRecord(mapID, snapshot)
			if !found {
				if ctx.jsonOutput() {
					return writeJSON(cmd, api.ErrorResponse{Error: "no record for map " + mapID})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "No record for map %s\n", mapID)
				return nil
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, api.WRResponse{MapID: mapID, Record: api.FromEntry(entry)})
			}
			return renderMapRecords(cmd, mapID, []records.Entry{entry})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every record for the map, fastest first")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the dataset even if the cache is fresh")
	return cmd
}

func renderMapRecords(cmd *cobra.Command, mapID string, entries []records.Entry) error {
	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(w, "No record for map %s\n", mapID)
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		var player string
		_, _ = entry.Field("capping_player", &player)
		var replay string
		_, _ = entry.Field("uuid", &replay)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.MapID,
			records.FormatTime(entry.RecordTime),
			player,
			replay,
		})
	}
	fmt.Fprintln(w, renderTable(w,
		[]string{"#", "Map", "Time", "Capper", "Replay"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
	))
	return nil
}
