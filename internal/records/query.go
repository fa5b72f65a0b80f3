package records

import "sort"

func qualifies(entry Entry, mapID string) bool {
	return mapID != "" && entry.MapID == mapID && entry.HasTime
}

// BestRecord returns the entry with the lowest record time for mapID. Ties go
// to the entry that appears first in the snapshot. It reports false when the
// snapshot is nil or empty or when no entry for the map has a record time.
func BestRecord(mapID string, snapshot *Snapshot) (Entry, bool) {
	if snapshot.Len() == 0 {
		return Entry{}, false
	}
	var (
		best  Entry
		found bool
	)
	for _, entry := range snapshot.Entries {
		if !qualifies(entry, mapID) {
			continue
		}
		if !found || entry.RecordTime < best.RecordTime {
			best = entry
			found = true
		}
	}
	return best, found
}

// BestByMap indexes the best record of every map in the snapshot using the
// same rules as BestRecord.
func BestByMap(snapshot *Snapshot) map[string]Entry {
	best := make(map[string]Entry)
	if snapshot.Len() == 0 {
		return best
	}
	for _, entry := range snapshot.Entries {
		if !entry.HasTime || entry.MapID == "" {
			continue
		}
		current, ok := best[entry.MapID]
		if !ok || entry.RecordTime < current.RecordTime {
			best[entry.MapID] = entry
		}
	}
	return best
}

// ForMap returns every qualifying entry for mapID ordered fastest first,
// preserving snapshot order between equal times.
func ForMap(snapshot *Snapshot, mapID string) []Entry {
	if snapshot.Len() == 0 {
		return nil
	}
	var out []Entry
	for _, entry := range snapshot.Entries {
		if qualifies(entry, mapID) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordTime < out[j].RecordTime
	})
	return out
}
