package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func scheduledAt(day time.Time, startHour, endHour int) (start, end *time.Time) {
	s := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, time.UTC)
	e := time.Date(day.Year(), day.Month(), day.Day(), endHour, 0, 0, 0, time.UTC)
	return &s, &e
}

// TestScoreSession_Bounds verifies scores stay in [0, 1] across a grid of
// sessions, intents and profiles, including malformed records.
func TestScoreSession_Bounds(t *testing.T) {
	e := NewEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	start, end := scheduledAt(day, 9, 10)

	sessions := []Session{
		{},
		{ID: "s1", Title: "Generative AI in Claims with machine learning and LLM agents",
			Description: "deep learning, neural networks, GPT, NLP", Track: "AI", StartTime: start, EndTime: end,
			Speakers: []Speaker{{Name: "A", Company: "Acme"}}},
		{ID: "s2", Title: "Lunch Break"},
		{ID: "bad", Title: "End before start", StartTime: end, EndTime: start},
	}
	intents := []Intent{
		{Primary: IntentGeneral, Topics: []string{}, TimePreference: TimeAny},
		{Primary: IntentRecommendation, Topics: []string{"ai", "claims", "cyber"}, TimePreference: "morning"},
	}
	profiles := []Profile{
		{},
		{Role: "Claims Manager", Company: "Acme", Interests: []string{"AI", "claims", "machine learning"}, Goals: []string{"learn"}},
	}

	for si, s := range sessions {
		for ii, intent := range intents {
			for pi, p := range profiles {
				name := fmt.Sprintf("session=%d intent=%d profile=%d", si, ii, pi)
				score := e.ScoreSession(s, intent, p)
				assert.GreaterOrEqual(t, score, 0.0, name)
				assert.LessOrEqual(t, score, 1.0, name)
			}
		}
	}
}

// TestScoreSession_Idempotent verifies scoring is a pure function.
func TestScoreSession_Idempotent(t *testing.T) {
	e := NewEngine()
	session := Session{ID: "s1", Title: "AI underwriting", Track: "Data"}
	intent := Intent{Topics: []string{"ai", "underwriting"}, TimePreference: TimeAny}
	profile := Profile{Interests: []string{"AI"}}

	first := e.ScoreSession(session, intent, profile)
	second := e.ScoreSession(session, intent, profile)
	assert.Equal(t, first, second)
}

// TestScoreSession_InterestWeightOrdering verifies title > description >
// track/tag for profile interest matches.
func TestScoreSession_InterestWeightOrdering(t *testing.T) {
	e := NewEngine()
	intent := Intent{Topics: []string{}, TimePreference: TimeAny}
	profile := Profile{Interests: []string{"telematics"}}

	titleHit := e.ScoreSession(Session{Title: "Telematics pricing"}, intent, profile)
	descHit := e.ScoreSession(Session{Title: "Pricing", Description: "telematics signals"}, intent, profile)
	tagHit := e.ScoreSession(Session{Title: "Pricing", Tags: []string{"telematics"}}, intent, profile)

	assert.Greater(t, titleHit, descHit)
	assert.Greater(t, descHit, tagHit)
	assert.Greater(t, tagHit, 0.0)
}

// TestScoreSession_GenericPenalty verifies the filler-session penalty applies
// only when the intent names a topic and the score is still low.
func TestScoreSession_GenericPenalty(t *testing.T) {
	e := NewEngine()
	generic := Session{Title: "Opening Keynote"}
	profile := Profile{Interests: []string{"keynote"}}

	topical := Intent{Topics: []string{"ai"}, TimePreference: TimeAny}
	neutral := Intent{Topics: []string{}, TimePreference: TimeAny}

	penalized := e.ScoreSession(generic, topical, profile)
	unpenalized := e.ScoreSession(generic, neutral, profile)

	require.Greater(t, unpenalized, 0.0)
	assert.InDelta(t, unpenalized*e.config.Scoring.GenericPenaltyFactor, penalized, 1e-9)
}

// TestScoreSession_AISynonymScaling verifies distinct AI synonym hits raise
// the score, capped at the configured maximum.
func TestScoreSession_AISynonymScaling(t *testing.T) {
	e := NewEngine()
	intent := Intent{Topics: []string{"ai"}, TimePreference: TimeAny}
	profile := Profile{}

	one := e.ScoreSession(Session{Title: "AI roundtable"}, intent, profile)
	two := e.ScoreSession(Session{Title: "Generative AI roundtable"}, intent, profile)
	many := e.ScoreSession(Session{Title: "Generative AI with machine learning, LLM, GPT and deep learning"}, intent, profile)

	assert.Greater(t, two, one)
	assert.Greater(t, many, two)
	capped := float64(e.config.Scoring.MaxAISynonymHits) * e.config.Scoring.AISynonymBonus
	assert.InDelta(t, capped, many, 1e-9)
}

// TestScoreSession_CompanyAndSpeakerBonuses verifies the minor contributions.
func TestScoreSession_CompanyAndSpeakerBonuses(t *testing.T) {
	e := NewEngine()
	intent := Intent{Topics: []string{}, TimePreference: TimeAny}

	bare := Session{Title: "Panel"}
	withSpeaker := Session{Title: "Panel", Speakers: []Speaker{{Name: "Dana Reyes"}}}
	withColleague := Session{Title: "Panel", Speakers: []Speaker{{Name: "Dana Reyes", Company: "Mutual Re"}}}

	anon := Profile{}
	employee := Profile{Company: "mutual re"} // company match is case-insensitive

	assert.Equal(t, 0.0, e.ScoreSession(bare, intent, anon))
	assert.InDelta(t, e.config.Scoring.SpeakerBonus, e.ScoreSession(withSpeaker, intent, anon), 1e-9)
	assert.InDelta(t, e.config.Scoring.SpeakerBonus+e.config.Scoring.SharedCompanyBonus,
		e.ScoreSession(withColleague, intent, employee), 1e-9)
}

// TestScoreSession_TimePreferenceBonus verifies morning/afternoon matching and
// that unscheduled or invalid intervals never earn the bonus.
func TestScoreSession_TimePreferenceBonus(t *testing.T) {
	e := NewEngine()
	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	mStart, mEnd := scheduledAt(day, 9, 10)
	aStart, aEnd := scheduledAt(day, 14, 15)

	intent := Intent{Topics: []string{}, TimePreference: "morning"}
	profile := Profile{}

	morning := Session{Title: "Panel", StartTime: mStart, EndTime: mEnd}
	afternoon := Session{Title: "Panel", StartTime: aStart, EndTime: aEnd}
	unscheduled := Session{Title: "Panel"}
	inverted := Session{Title: "Panel", StartTime: mEnd, EndTime: mStart}

	assert.InDelta(t, e.config.Scoring.TimeMatchBonus, e.ScoreSession(morning, intent, profile), 1e-9)
	assert.Equal(t, 0.0, e.ScoreSession(afternoon, intent, profile))
	assert.Equal(t, 0.0, e.ScoreSession(unscheduled, intent, profile))
	assert.Equal(t, 0.0, e.ScoreSession(inverted, intent, profile))
}

// TestScoreSession_DayPreference verifies day-N matching against EventStart.
func TestScoreSession_DayPreference(t *testing.T) {
	eventStart := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	cfg.EventStart = &eventStart
	e := NewEngineWithConfig(cfg)

	day2 := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	start, end := scheduledAt(day2, 10, 11)
	session := Session{Title: "Panel", StartTime: start, EndTime: end}
	profile := Profile{}

	match := e.ScoreSession(session, Intent{Topics: []string{}, TimePreference: "day-2"}, profile)
	miss := e.ScoreSession(session, Intent{Topics: []string{}, TimePreference: "day-1"}, profile)

	assert.InDelta(t, e.config.Scoring.TimeMatchBonus, match, 1e-9)
	assert.Equal(t, 0.0, miss)
}
