package engine

import (
	"sort"
)

// RankCandidates scores every session against the intent and profile, drops
// those below threshold, sorts by score descending (ties broken by earliest
// start, then ID for determinism) and truncates to the complexity budget.
//
// Threshold should be one of ThresholdStrict or ThresholdLoose. Raising the
// threshold can only shrink the result set, never grow it.
func (e *Engine) RankCandidates(sessions []Session, intent Intent, profile Profile,
	complexity Complexity, threshold float64) []RankedCandidate {

	ranked := make([]RankedCandidate, 0, len(sessions))
	for _, session := range sessions {
		score := e.ScoreSession(session, intent, profile)
		if score < threshold {
			continue
		}
		ranked = append(ranked, RankedCandidate{Session: session, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		si, sj := ranked[i].Session.StartTime, ranked[j].Session.StartTime
		switch {
		case si != nil && sj != nil && !si.Equal(*sj):
			return si.Before(*sj)
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return ranked[i].Session.ID < ranked[j].Session.ID
	})

	if budget := complexity.CandidateBudget(); len(ranked) > budget {
		ranked = ranked[:budget]
	}
	return ranked
}

// RankWithFallback runs the strict pass and, when it yields nothing, retries
// with the loose threshold. An empty strict result must never silently
// proceed as "no relevant content" while a looser interpretation exists; the
// caller falls through to profile-only recommendations when even the loose
// pass is empty.
func (e *Engine) RankWithFallback(sessions []Session, intent Intent, profile Profile,
	complexity Complexity) []RankedCandidate {

	if ranked := e.RankCandidates(sessions, intent, profile, complexity, ThresholdStrict); len(ranked) > 0 {
		return ranked
	}
	return e.RankCandidates(sessions, intent, profile, complexity, ThresholdLoose)
}
