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

type leaderboardBoard struct {
	name  string
	title string
	rows  func(records.Leaderboards) []records.Standing
}

var leaderboardBoards = []leaderboardBoard{
	{"wr", "World Records", func(l records.Leaderboards) []records.Standing { return l.WorldRecords }},
	{"solo", "Solo World Records", func(l records.Leaderboards) []records.Standing { return l.SoloWorldRecords }},
	{"capping", "Capping World Records", func(l records.Leaderboards) []records.Standing { return l.CappingWorldRecords }},
	{"games", "Games Completed", func(l records.Leaderboards) []records.Standing { return l.GamesCompleted }},
}

func newLeaderboardCommand(ctx *commandContext) *cobra.Command {
	var board string
	var limit int
	var refresh bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank players by world records",
		Long: "Rank players from the WR dataset. Boards: wr (world records held),\n" +
			"solo (solo world records), capping (world records capped) and games\n" +
			"(timed records played). All boards are shown unless --board is set.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := selectBoards(board)
			if err != nil {
				return err
			}
			cache, err := ctx.cache()
			if err != nil {
				return err
			}
			reqCtx := services.WithOrigin(cmd.Context(), "cli")
			snapshot, err := cache.Refresh(reqCtx, refresh)
			if err != nil {
				return fmt.Errorf("world record data is unavailable: %w", err)
			}
			resp := api.FromLeaderboards(snapshot)
			if ctx.jsonOutput() {
				return writeJSON(cmd, resp)
			}

			w := cmd.OutOrStdout()
			for i, b := range selected {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, b.title)
				standings := b.rows(resp.Leaderboards)
				if len(standings) == 0 {
					fmt.Fprintln(w, "No entries")
					continue
				}
				if limit > 0 && len(standings) > limit {
					standings = standings[:limit]
				}
				rows := make([][]string, 0, len(standings))
				for rank, s := range standings {
					rows = append(rows, []string{strconv.Itoa(rank + 1), s.Name, strconv.Itoa(s.Score)})
				}
				fmt.Fprintln(w, renderTable(w, []string{"#", "Name", "Score"}, rows,
					[]columnAlignment{alignRight, alignLeft, alignRight}))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&board, "board", "", "Show one board: wr, solo, capping or games")
	cmd.Flags().IntVar(&limit, "limit", 10, "Rows per board (0 for all)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch the dataset even if the cache is fresh")
	return cmd
}

func selectBoards(name string) ([]leaderboardBoard, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return leaderboardBoards, nil
	}
	for _, b := range leaderboardBoards {
		if b.name == name {
			return []leaderboardBoard{b}, nil
		}
	}
	return nil, fmt.Errorf("unknown board %q (want wr, solo, capping or games)", name)
}
