package records

import (
	"encoding/json"
	"testing"
	"time"
)

func decodeSnapshot(t *testing.T, payload string) *Snapshot {
	t.Helper()
	var entries []Entry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return NewSnapshot(entries, time.Now())
}

func scores(board []Standing) map[string]int {
	out := make(map[string]int, len(board))
	for _, s := range board {
		out[s.Name] = s.Score
	}
	return out
}

func TestLeaderboardCountsRecordsAndWorldRecords(t *testing.T) {
	snapshot := decodeSnapshot(t, `[
		{"map_id":"M1","record_time":9000,"players":[{"name":"ann","user_id":"u1"},{"name":"bob"}],"capping_player":"bob"},
		{"map_id":"M1","record_time":5000,"players":[{"name":"ann","user_id":"u1"},{"name":"ann","user_id":"u1"}],"is_solo":true,"capping_player":"ann","capping_player_user_id":"u1"},
		{"map_id":"M2","record_time":7000,"players":[{"name":"bob"},{"name":"Some Ball 3"},{"name":"some ball"}],"capping_player":"Some Ball 3"},
		{"map_id":"M3","record_time":null,"players":[{"name":"carl"}]}
	]`)

	boards := Leaderboard(snapshot)

	games := scores(boards.GamesCompleted)
	if games["ann"] != 2 || games["bob"] != 2 || games["Some Balls"] != 1 || games["carl"] != 0 {
		t.Fatalf("unexpected games completed: %+v", boards.GamesCompleted)
	}

	wrs := scores(boards.WorldRecords)
	if wrs["ann"] != 1 || wrs["bob"] != 1 || wrs["Some Balls"] != 1 || len(wrs) != 3 {
		t.Fatalf("unexpected world records: %+v", boards.WorldRecords)
	}

	solo := scores(boards.SoloWorldRecords)
	if len(solo) != 1 || solo["ann"] != 1 {
		t.Fatalf("unexpected solo world records: %+v", boards.SoloWorldRecords)
	}

	capping := scores(boards.CappingWorldRecords)
	if len(capping) != 2 || capping["ann"] != 1 || capping["Some Balls"] != 1 {
		t.Fatalf("unexpected capping world records: %+v", boards.CappingWorldRecords)
	}
	for _, s := range boards.CappingWorldRecords {
		if s.Name == "ann" && (s.Key != "u1" || !s.HasPlayerID) {
			t.Fatalf("expected capper keyed by user id, got %+v", s)
		}
		if s.Name == "Some Balls" && s.HasPlayerID {
			t.Fatalf("anonymous players never have ids: %+v", s)
		}
	}
}

func TestLeaderboardOrdersByScoreThenName(t *testing.T) {
	snapshot := decodeSnapshot(t, `[
		{"map_id":"M1","record_time":1,"players":[{"name":"zed"}]},
		{"map_id":"M2","record_time":1,"players":[{"name":"zed"},{"name":"amy"}]},
		{"map_id":"M3","record_time":1,"players":[{"name":"bea"}]}
	]`)

	board := Leaderboard(snapshot).WorldRecords
	want := []string{"zed", "amy", "bea"}
	if len(board) != len(want) {
		t.Fatalf("unexpected board %+v", board)
	}
	for i, name := range want {
		if board[i].Name != name {
			t.Fatalf("position %d = %q, want %q (board %+v)", i, board[i].Name, name, board)
		}
	}
}

func TestLeaderboardIgnoresMalformedFields(t *testing.T) {
	snapshot := decodeSnapshot(t, `[
		{"map_id":"M1","record_time":1,"players":"nobody","is_solo":"yes","capping_player":42},
		{"map_id":"M2","record_time":2,"players":[{"name":"dan","user_id":17}],"is_solo":true}
	]`)

	boards := Leaderboard(snapshot)
	if len(boards.WorldRecords) != 1 || boards.WorldRecords[0].Key != "17" {
		t.Fatalf("unexpected world records: %+v", boards.WorldRecords)
	}
	if len(boards.SoloWorldRecords) != 1 || len(boards.CappingWorldRecords) != 0 {
		t.Fatalf("unexpected boards: %+v", boards)
	}
}

func TestLeaderboardEmptySnapshot(t *testing.T) {
	boards := Leaderboard(nil)
	if len(boards.GamesCompleted) != 0 || len(boards.WorldRecords) != 0 {
		t.Fatalf("expected empty boards, got %+v", boards)
	}
	if boards.WorldRecords == nil {
		t.Fatal("expected non-nil slices for JSON output")
	}
}
