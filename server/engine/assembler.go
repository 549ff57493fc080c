package engine

import (
	"sort"
	"strings"
	"time"
)

// ContextPayload is the bounded, JSON-serializable summary handed to the
// prompt-construction step. Field presence depends on the complexity tier:
// simple requests omit verbose fields (descriptions, bios) instead of
// truncating strings mid-way.
type ContextPayload struct {
	Intent          Intent             `json:"intent"`
	Complexity      Complexity         `json:"complexity"`
	Candidates      []CandidateSummary `json:"candidates"`
	Conflicts       []Conflict         `json:"conflicts"`
	Recommendations Recommendations    `json:"recommendations"`
	// NoSessionData flags an empty upstream collection so prompt
	// construction can degrade to its "no session data" branch.
	NoSessionData bool `json:"noSessionData,omitempty"`
}

// CandidateSummary is the per-session slice of the payload.
type CandidateSummary struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Track       string           `json:"track,omitempty"`
	Level       string           `json:"level,omitempty"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
	Score       float64          `json:"score"`
	Speakers    []SpeakerSummary `json:"speakers,omitempty"`
}

// SpeakerSummary carries speaker info; Bio only at complex verbosity.
type SpeakerSummary struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Bio     string `json:"bio,omitempty"`
}

// Recommendations groups profile-driven session picks.
type Recommendations struct {
	Networking   []CandidateSummary `json:"networking,omitempty"`
	LearningPath []CandidateSummary `json:"learningPath,omitempty"`
	MustAttend   []CandidateSummary `json:"mustAttend,omitempty"`
}

// networkingTitleKeywords select sessions for the networking group.
var networkingTitleKeywords = []string{"networking", "reception", "lunch", "breakfast", "mixer", "happy hour"}

// levelOrder fixes the learning-path ordering Beginner < Intermediate < Advanced.
var levelOrder = map[string]int{
	"Beginner":     0,
	"Intermediate": 1,
	"Advanced":     2,
}

const (
	maxRecommendationGroupSize = 5
	maxLearningPathSize        = 6
)

// AssembleContext packages ranked candidates, conflicts and profile-derived
// recommendation groups into a single bounded payload. An empty or
// unavailable session collection yields an explicit empty-but-valid payload,
// never an error.
func (e *Engine) AssembleContext(candidates []RankedCandidate, conflicts []Conflict,
	allSessions []Session, intent Intent, profile Profile, complexity Complexity) *ContextPayload {

	payload := &ContextPayload{
		Intent:     intent,
		Complexity: complexity,
		Candidates: []CandidateSummary{},
		Conflicts:  []Conflict{},
	}
	if len(allSessions) == 0 && len(candidates) == 0 {
		payload.NoSessionData = true
		return payload
	}
	if conflicts != nil {
		payload.Conflicts = conflicts
	}

	budget := complexity.CandidateBudget()
	for i, c := range candidates {
		if i >= budget {
			break
		}
		payload.Candidates = append(payload.Candidates, e.summarize(c.Session, c.Score, complexity))
	}

	payload.Recommendations = Recommendations{
		Networking:   e.networkingGroup(allSessions, complexity),
		LearningPath: e.learningPath(allSessions, complexity),
		MustAttend:   e.mustAttendForRole(allSessions, profile, complexity),
	}
	return payload
}

// summarize converts a session to its payload form at the given verbosity.
// Descriptions appear from moderate upward, bios only at complex.
func (e *Engine) summarize(s Session, score float64, complexity Complexity) CandidateSummary {
	summary := CandidateSummary{
		ID:        s.ID,
		Title:     s.Title,
		Location:  s.Location,
		Track:     s.Track,
		Level:     s.Level,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Score:     score,
	}
	if complexity != ComplexitySimple {
		summary.Description = s.Description
	}
	for _, sp := range s.Speakers {
		speaker := SpeakerSummary{Name: sp.Name, Role: sp.Role, Company: sp.Company}
		if complexity == ComplexityComplex {
			speaker.Bio = sp.Bio
		}
		summary.Speakers = append(summary.Speakers, speaker)
	}
	return summary
}

// networkingGroup picks sessions whose titles mark them as social events.
func (e *Engine) networkingGroup(sessions []Session, complexity Complexity) []CandidateSummary {
	var group []CandidateSummary
	for _, s := range sessions {
		if containsAnyKeyword(s.Title, networkingTitleKeywords) {
			group = append(group, e.summarize(s, 0, complexity))
			if len(group) >= maxRecommendationGroupSize {
				break
			}
		}
	}
	return group
}

// learningPath builds a level-ordered subsequence: Beginner sessions first,
// then Intermediate, then Advanced, each sorted by start time.
func (e *Engine) learningPath(sessions []Session, complexity Complexity) []CandidateSummary {
	leveled := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if _, ok := levelOrder[s.Level]; ok {
			leveled = append(leveled, s)
		}
	}
	sort.SliceStable(leveled, func(i, j int) bool {
		li, lj := levelOrder[leveled[i].Level], levelOrder[leveled[j].Level]
		if li != lj {
			return li < lj
		}
		si, sj := leveled[i].StartTime, leveled[j].StartTime
		switch {
		case si != nil && sj != nil:
			return si.Before(*sj)
		case si != nil:
			return true
		}
		return false
	})

	path := make([]CandidateSummary, 0, maxLearningPathSize)
	for _, s := range leveled {
		path = append(path, e.summarize(s, 0, complexity))
		if len(path) >= maxLearningPathSize {
			break
		}
	}
	return path
}

// mustAttendForRole picks sessions whose title, track or tags mention the
// profile role or goals. An empty profile yields an empty group.
func (e *Engine) mustAttendForRole(sessions []Session, profile Profile, complexity Complexity) []CandidateSummary {
	if profile.IsEmpty() {
		return nil
	}
	terms := make([]string, 0, len(profile.Goals)+1)
	if profile.Role != "" {
		terms = append(terms, strings.Fields(profile.Role)...)
	}
	terms = append(terms, profile.Goals...)
	if len(terms) == 0 {
		return nil
	}

	var group []CandidateSummary
	for _, s := range sessions {
		searchable := s.Title + " " + s.Track + " " + strings.Join(s.Tags, " ")
		if containsAnyKeyword(searchable, terms) {
			group = append(group, e.summarize(s, 0, complexity))
			if len(group) >= maxRecommendationGroupSize {
				break
			}
		}
	}
	return group
}
