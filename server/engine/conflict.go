package engine

// DetectConflicts finds every unordered pair of sessions whose [start, end)
// intervals overlap and returns the overlap window for each pair.
//
// Sessions missing a start or end, or with end <= start, cannot conflict and
// are skipped. Exact touching (endA == startB) is not a conflict. Each pair
// is examined once (i < j), so the relation is reported symmetrically and a
// session never conflicts with itself. O(n^2) is fine: n is a favorites-sized
// set, tens at most.
func DetectConflicts(sessions []Session) []Conflict {
	scheduled := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if s.Scheduled() {
			scheduled = append(scheduled, s)
		}
	}

	var conflicts []Conflict
	for i := 0; i < len(scheduled); i++ {
		for j := i + 1; j < len(scheduled); j++ {
			a, b := scheduled[i], scheduled[j]
			if a.StartTime.Before(*b.EndTime) && b.StartTime.Before(*a.EndTime) {
				overlapStart := *a.StartTime
				if b.StartTime.After(overlapStart) {
					overlapStart = *b.StartTime
				}
				overlapEnd := *a.EndTime
				if b.EndTime.Before(overlapEnd) {
					overlapEnd = *b.EndTime
				}
				conflicts = append(conflicts, Conflict{
					SessionA:     a.ID,
					SessionB:     b.ID,
					OverlapStart: overlapStart,
					OverlapEnd:   overlapEnd,
				})
			}
		}
	}
	return conflicts
}
