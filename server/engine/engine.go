// Package engine implements the relevance-scoring and conflict-detection core
// of the conference concierge. All entry points are pure functions over
// in-memory data: they perform no I/O, keep no hidden state, and are safe to
// call concurrently with fully-resolved inputs.
package engine

import (
	"fmt"
	"time"
)

// Engine bundles the classifiers, scorer, ranker and assembler behind a
// single validated configuration.
type Engine struct {
	config *Config
}

// NewEngine creates an engine with the default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates an engine with the given configuration.
// An invalid configuration is a caller bug, not bad data, so it panics.
func NewEngineWithConfig(config *Config) *Engine {
	if err := ValidateConfig(config); err != nil {
		panic(fmt.Sprintf("invalid engine config: %v", err))
	}
	return &Engine{config: config}
}

// Session is the read-only view of a scheduled conference talk or event.
// Start/End are nil when the session is unscheduled (TBD); callers must never
// rely on them being set.
type Session struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Track       string     `json:"track,omitempty"`
	Level       string     `json:"level,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Speakers    []Speaker  `json:"speakers,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

// Speaker is a person presenting one or more sessions.
type Speaker struct {
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Company string `json:"company,omitempty"`
	Bio     string `json:"bio,omitempty"`
}

// Scheduled reports whether the session has a valid [start, end) interval.
// Records with end <= start are treated as unscheduled, never as an error.
func (s *Session) Scheduled() bool {
	return s.StartTime != nil && s.EndTime != nil && s.EndTime.After(*s.StartTime)
}

// Profile carries the personalization signal for scoring. The zero value is a
// valid anonymous profile and contributes nothing to any score.
type Profile struct {
	Role       string
	Company    string
	Interests  []string
	Goals      []string
	Experience string
}

// IsEmpty reports whether the profile carries no personalization signal.
func (p *Profile) IsEmpty() bool {
	return p == nil || (p.Role == "" && p.Company == "" && len(p.Interests) == 0 &&
		len(p.Goals) == 0 && p.Experience == "")
}

// PrimaryIntent is the closed set of primary goals a query can express.
type PrimaryIntent string

const (
	IntentGeneral        PrimaryIntent = "general"
	IntentRecommendation PrimaryIntent = "recommendation"
	IntentScheduling     PrimaryIntent = "scheduling"
	IntentSpeakerInfo    PrimaryIntent = "speaker_info"
	IntentTiming         PrimaryIntent = "timing"
	IntentLocation       PrimaryIntent = "location"
	IntentNetworking     PrimaryIntent = "networking"
	IntentLearning       PrimaryIntent = "learning"
)

// TimeAny is the default time preference when a query names no time of day
// or conference day.
const TimeAny = "any"

// Intent is the structured interpretation of a free-text query. It is
// ephemeral and recomputed per message.
type Intent struct {
	Primary        PrimaryIntent `json:"primary"`
	Topics         []string      `json:"topics"`
	TimePreference string        `json:"timePreference"`
}

// Complexity drives candidate-set size and prompt verbosity.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// CandidateBudget returns the maximum ranked-candidate count for the tier.
func (c Complexity) CandidateBudget() int {
	switch c {
	case ComplexitySimple:
		return 10
	case ComplexityModerate:
		return 20
	case ComplexityComplex:
		return 30
	default:
		return 10
	}
}

// RankedCandidate is a session plus the relevance score that placed it in the
// ranked set. Recomputed per request, never persisted.
type RankedCandidate struct {
	Session Session
	Score   float64
}

// Conflict is an unordered pair of sessions whose [start, end) intervals
// overlap, plus the overlap window.
type Conflict struct {
	SessionA     string    `json:"sessionIdA"`
	SessionB     string    `json:"sessionIdB"`
	OverlapStart time.Time `json:"overlapStart"`
	OverlapEnd   time.Time `json:"overlapEnd"`
}
