package records

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// anonymousBall matches the placeholder names given to unregistered players.
var anonymousBall = regexp.MustCompile(`(?i)^Some Ball(?:\s*\d+)?$`)

const anonymousName = "Some Balls"

// Standing is one row of a leaderboard.
type Standing struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	HasPlayerID bool   `json:"has_player_id"`
}

// Leaderboards ranks players across the dataset. Each board is ordered by
// score descending, then name.
type Leaderboards struct {
	// GamesCompleted counts every timed record a player took part in.
	GamesCompleted []Standing `json:"games_completed"`
	// WorldRecords counts the per-map best records a player took part in.
	WorldRecords []Standing `json:"world_records"`
	// SoloWorldRecords counts world records flagged is_solo.
	SoloWorldRecords []Standing `json:"solo_world_records"`
	// CappingWorldRecords counts world records by their capping player.
	CappingWorldRecords []Standing `json:"capping_world_records"`
}

type player struct {
	Name   string          `json:"name"`
	UserID json.RawMessage `json:"user_id"`
}

func (p player) id() string {
	id, err := decodeMapID(p.UserID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(id)
}

func (p player) key() string {
	if anonymousBall.MatchString(p.Name) {
		return anonymousName
	}
	if id := p.id(); id != "" {
		return id
	}
	return p.Name
}

func (p player) displayName() string {
	if anonymousBall.MatchString(p.Name) {
		return anonymousName
	}
	return p.Name
}

func (p player) hasID() bool {
	return p.id() != "" && !anonymousBall.MatchString(p.Name)
}

type tally map[string]*Standing

// add credits p once; seen dedups repeated players within one record.
func (t tally) add(p player, seen map[string]bool) {
	key := p.key()
	if seen != nil {
		if seen[key] {
			return
		}
		seen[key] = true
	}
	standing, ok := t[key]
	if !ok {
		standing = &Standing{Key: key, Name: p.displayName(), HasPlayerID: p.hasID()}
		t[key] = standing
	}
	standing.Score++
}

func (t tally) ranked() []Standing {
	out := make([]Standing, 0, len(t))
	for _, standing := range t {
		out = append(out, *standing)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func players(entry Entry) []player {
	var list []player
	if _, err := entry.Field("players", &list); err != nil {
		return nil
	}
	return list
}

// Leaderboard builds the player leaderboards for snapshot. Only records that
// qualify for a map count; world records are the entries BestByMap selects.
// Malformed players or flags are ignored rather than failing the board.
func Leaderboard(snapshot *Snapshot) Leaderboards {
	games := tally{}
	wrs := tally{}
	solo := tally{}
	capping := tally{}

	if snapshot.Len() > 0 {
		for _, entry := range snapshot.Entries {
			if !qualifies(entry, entry.MapID) {
				continue
			}
			seen := map[string]bool{}
			for _, p := range players(entry) {
				games.add(p, seen)
			}
		}
	}

	for _, entry := range BestByMap(snapshot) {
		list := players(entry)
		seen := map[string]bool{}
		for _, p := range list {
			wrs.add(p, seen)
		}

		var isSolo bool
		if _, err := entry.Field("is_solo", &isSolo); err == nil && isSolo {
			soloSeen := map[string]bool{}
			for _, p := range list {
				solo.add(p, soloSeen)
			}
		}

		var capper string
		if _, err := entry.Field("capping_player", &capper); err == nil && capper != "" {
			p := player{Name: capper}
			var userID json.RawMessage
			if ok, err := entry.Field("capping_player_user_id", &userID); ok && err == nil {
				p.UserID = userID
			}
			capping.add(p, nil)
		}
	}

	return Leaderboards{
		GamesCompleted:      games.ranked(),
		WorldRecords:        wrs.ranked(),
		SoloWorldRecords:    solo.ranked(),
		CappingWorldRecords: capping.ranked(),
	}
}
