package engine

import (
	"fmt"
	"time"
)

// Named threshold constants. Callers pick between them depending on whether
// they need precision (strict) or coverage (loose); the ranker falls back
// from strict to loose before giving up.
const (
	// ThresholdStrict filters for "relevant sessions" with high precision.
	ThresholdStrict = 0.4
	// ThresholdLoose is the wider "consider for recommendations" pass.
	ThresholdLoose = 0.3
)

// Config holds the tunable constants of the engine. Hard-coded values from
// the scoring formulas are pulled out here so they can be adjusted without
// touching the algorithms.
type Config struct {
	Scoring    ScoringConfig    `json:"scoring" yaml:"scoring"`
	Complexity ComplexityConfig `json:"complexity" yaml:"complexity"`

	// EventStart anchors "day-N" time preferences: day 1 is the calendar
	// day of EventStart. When nil, day-N bonuses never apply.
	EventStart *time.Time `json:"eventStart" yaml:"eventStart"`
}

// ScoringConfig holds the relevance-scorer increments.
type ScoringConfig struct {
	// TopicBonus is added per intent topic found in title/description/track.
	TopicBonus float64 `json:"topicBonus" yaml:"topicBonus"`
	// AISynonymBonus is added per distinct AI synonym hit.
	AISynonymBonus float64 `json:"aiSynonymBonus" yaml:"aiSynonymBonus"`
	// MaxAISynonymHits caps the distinct AI synonym hits counted.
	MaxAISynonymHits int `json:"maxAiSynonymHits" yaml:"maxAiSynonymHits"`
	// Interest bonuses must be strictly decreasing: title > description > track/tags.
	InterestTitleBonus       float64 `json:"interestTitleBonus" yaml:"interestTitleBonus"`
	InterestDescriptionBonus float64 `json:"interestDescriptionBonus" yaml:"interestDescriptionBonus"`
	InterestTrackTagBonus    float64 `json:"interestTrackTagBonus" yaml:"interestTrackTagBonus"`
	// SpeakerBonus is a flat bonus for sessions with at least one speaker.
	SpeakerBonus float64 `json:"speakerBonus" yaml:"speakerBonus"`
	// SharedCompanyBonus applies when profile.Company matches a speaker company.
	SharedCompanyBonus float64 `json:"sharedCompanyBonus" yaml:"sharedCompanyBonus"`
	// TimeMatchBonus applies when the intent time preference matches the start.
	TimeMatchBonus float64 `json:"timeMatchBonus" yaml:"timeMatchBonus"`
	// GenericPenaltyCutoff: generic-titled sessions below this pre-penalty
	// score are halved when the intent names at least one topic.
	GenericPenaltyCutoff float64 `json:"genericPenaltyCutoff" yaml:"genericPenaltyCutoff"`
	// GenericPenaltyFactor multiplies the score of penalized sessions.
	GenericPenaltyFactor float64 `json:"genericPenaltyFactor" yaml:"genericPenaltyFactor"`
}

// ComplexityConfig holds the query-complexity thresholds. The classifier
// counts complexity signals and maps the count to a tier, so a superset of
// signals can never classify lower than a subset.
type ComplexityConfig struct {
	// LongMessageChars is the length at which a message counts as long.
	LongMessageChars int `json:"longMessageChars" yaml:"longMessageChars"`
	// VeryLongMessageChars adds a second length signal.
	VeryLongMessageChars int `json:"veryLongMessageChars" yaml:"veryLongMessageChars"`
	// ModerateSignals is the minimum signal count for the moderate tier.
	ModerateSignals int `json:"moderateSignals" yaml:"moderateSignals"`
	// ComplexSignals is the minimum signal count for the complex tier.
	ComplexSignals int `json:"complexSignals" yaml:"complexSignals"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			TopicBonus:               0.15,
			AISynonymBonus:           0.1,
			MaxAISynonymHits:         3,
			InterestTitleBonus:       0.3,
			InterestDescriptionBonus: 0.2,
			InterestTrackTagBonus:    0.1,
			SpeakerBonus:             0.05,
			SharedCompanyBonus:       0.1,
			TimeMatchBonus:           0.1,
			GenericPenaltyCutoff:     0.5,
			GenericPenaltyFactor:     0.5,
		},
		Complexity: ComplexityConfig{
			LongMessageChars:     120,
			VeryLongMessageChars: 300,
			ModerateSignals:      2,
			ComplexSignals:       4,
		},
	}
}

// ValidateConfig verifies configuration invariants.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "Config", Value: nil}
	}
	s := config.Scoring
	if s.TopicBonus <= 0 || s.TopicBonus > 1 {
		return ErrInvalidConfig{Field: "Scoring.TopicBonus", Value: s.TopicBonus}
	}
	if s.AISynonymBonus <= 0 || s.MaxAISynonymHits < 1 {
		return ErrInvalidConfig{Field: "Scoring.AISynonymBonus", Value: s.AISynonymBonus}
	}
	// Interest weights must strictly decrease from title to track/tags.
	if !(s.InterestTitleBonus > s.InterestDescriptionBonus &&
		s.InterestDescriptionBonus > s.InterestTrackTagBonus &&
		s.InterestTrackTagBonus > 0) {
		return ErrInvalidConfig{Field: "Scoring.Interest*Bonus", Value: s.InterestTitleBonus}
	}
	if s.GenericPenaltyFactor <= 0 || s.GenericPenaltyFactor >= 1 {
		return ErrInvalidConfig{Field: "Scoring.GenericPenaltyFactor", Value: s.GenericPenaltyFactor}
	}
	if s.GenericPenaltyCutoff < 0 || s.GenericPenaltyCutoff > 1 {
		return ErrInvalidConfig{Field: "Scoring.GenericPenaltyCutoff", Value: s.GenericPenaltyCutoff}
	}
	c := config.Complexity
	if c.LongMessageChars < 1 || c.VeryLongMessageChars <= c.LongMessageChars {
		return ErrInvalidConfig{Field: "Complexity.LongMessageChars", Value: c.LongMessageChars}
	}
	if c.ModerateSignals < 1 || c.ComplexSignals <= c.ModerateSignals {
		return ErrInvalidConfig{Field: "Complexity.ModerateSignals", Value: c.ModerateSignals}
	}
	return nil
}

// ErrInvalidConfig reports an out-of-range configuration field.
type ErrInvalidConfig struct {
	Field string
	Value interface{}
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field '%s': %v", e.Field, e.Value)
}
