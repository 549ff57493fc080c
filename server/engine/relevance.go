package engine

import (
	"strconv"
	"strings"
	"time"
)

// ScoreSession computes the relevance of one session against an intent and a
// profile. The result is always in [0, 1]. Missing optional fields and empty
// profiles contribute zero; they are never an error.
func (e *Engine) ScoreSession(session Session, intent Intent, profile Profile) float64 {
	cfg := e.config.Scoring
	score := 0.0

	searchable := session.Title + " " + session.Description + " " + session.Track

	for _, topic := range intent.Topics {
		if topic == "ai" {
			// AI queries dominate usage, so the expanded synonym list earns a
			// higher increment scaled by distinct hits.
			hits := 0
			for _, syn := range aiSynonyms {
				if containsKeyword(searchable, syn) {
					hits++
					if hits >= cfg.MaxAISynonymHits {
						break
					}
				}
			}
			score += float64(hits) * cfg.AISynonymBonus
			continue
		}
		if keywords, ok := keywordsForTopic(topic); ok && containsAnyKeyword(searchable, keywords) {
			score += cfg.TopicBonus
		} else if containsKeyword(searchable, topic) {
			score += cfg.TopicBonus
		}
	}

	// Profile interests: title beats description beats track/tags.
	for _, interest := range profile.Interests {
		switch {
		case containsKeyword(session.Title, interest):
			score += cfg.InterestTitleBonus
		case containsKeyword(session.Description, interest):
			score += cfg.InterestDescriptionBonus
		case containsKeyword(session.Track, interest) || tagsContain(session.Tags, interest):
			score += cfg.InterestTrackTagBonus
		}
	}

	if len(session.Speakers) > 0 {
		score += cfg.SpeakerBonus
	}
	if profile.Company != "" && sharesCompany(session.Speakers, profile.Company) {
		score += cfg.SharedCompanyBonus
	}
	if e.matchesTimePreference(session, intent.TimePreference) {
		score += cfg.TimeMatchBonus
	}

	// Generic filler sessions (keynotes, lunches, receptions) statistically
	// co-occur with popular words; halve their score when the query names a
	// topic and the session has not earned a high score on its own.
	if len(intent.Topics) > 0 && score < cfg.GenericPenaltyCutoff &&
		containsAnyKeyword(session.Title, genericTitleKeywords) {
		score *= cfg.GenericPenaltyFactor
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// keywordsForTopic returns the taxonomy keyword list for a topic tag.
func keywordsForTopic(topic string) ([]string, bool) {
	for _, entry := range topicKeywords {
		if entry.topic == topic {
			return entry.keywords, true
		}
	}
	return nil, false
}

func tagsContain(tags []string, interest string) bool {
	for _, tag := range tags {
		if containsKeyword(tag, interest) || strings.EqualFold(tag, interest) {
			return true
		}
	}
	return false
}

func sharesCompany(speakers []Speaker, company string) bool {
	for _, sp := range speakers {
		if sp.Company != "" && strings.EqualFold(sp.Company, company) {
			return true
		}
	}
	return false
}

// matchesTimePreference reports whether the session start satisfies the
// intent's time preference. Unscheduled sessions never earn the bonus.
func (e *Engine) matchesTimePreference(session Session, pref string) bool {
	if pref == "" || pref == TimeAny || !session.Scheduled() {
		return false
	}
	start := *session.StartTime
	switch pref {
	case "morning":
		return start.Hour() < 12
	case "afternoon":
		return start.Hour() >= 12
	}
	if strings.HasPrefix(pref, "day-") && e.config.EventStart != nil {
		eventDay := dayIndex(*e.config.EventStart, start)
		return pref == "day-"+strconv.Itoa(eventDay)
	}
	return false
}

// dayIndex returns the 1-based conference day of t relative to eventStart.
func dayIndex(eventStart, t time.Time) int {
	es := time.Date(eventStart.Year(), eventStart.Month(), eventStart.Day(), 0, 0, 0, 0, eventStart.Location())
	tt := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return int(tt.Sub(es).Hours()/24) + 1
}
