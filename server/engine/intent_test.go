package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyIntent_Primary tests first-match primary intent resolution.
func TestClassifyIntent_Primary(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		message  string
		expected PrimaryIntent
	}{
		{"recommendation", "Can you recommend a session about claims?", IntentRecommendation},
		{"scheduling", "Does my agenda have any conflict?", IntentScheduling},
		{"speaker info", "Who is the presenter of the cyber talk?", IntentSpeakerInfo},
		{"timing", "What time does the keynote start?", IntentTiming},
		{"location", "Where is the underwriting workshop?", IntentLocation},
		{"networking", "I want to meet people in insurtech", IntentNetworking},
		{"learning", "I'm a beginner, where do I start?", IntentLearning},
		{"no keyword falls back to general", "Find AI sessions in the morning", IntentGeneral},
		{"empty message", "", IntentGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := e.ClassifyIntent(tt.message)
			assert.Equal(t, tt.expected, intent.Primary)
		})
	}
}

// TestClassifyIntent_RuleOrder verifies that declaration order breaks ties:
// recommendation is checked before scheduling.
func TestClassifyIntent_RuleOrder(t *testing.T) {
	e := NewEngine()
	intent := e.ClassifyIntent("recommend sessions for my schedule")
	assert.Equal(t, IntentRecommendation, intent.Primary)
}

// TestClassifyIntent_Topics tests topic extraction against the taxonomy.
func TestClassifyIntent_Topics(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name    string
		message string
		topics  []string
	}{
		{
			name:    "multiple topics extracted independently",
			message: "sessions about machine learning and cyber security",
			topics:  []string{"ai", "cyber"},
		},
		{
			name:    "claims and regulation",
			message: "how do claims teams handle compliance",
			topics:  []string{"claims", "regulation"},
		},
		{
			name:    "no taxonomy hit",
			message: "hello there",
			topics:  []string{},
		},
		{
			name:    "short token needs a word boundary",
			message: "maintaining html pages", // must not match "ai" or "ml"
			topics:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := e.ClassifyIntent(tt.message)
			assert.Equal(t, tt.topics, intent.Topics)
		})
	}
}

// TestClassifyIntent_TimePreference tests time-of-day and day-N extraction.
func TestClassifyIntent_TimePreference(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		message  string
		expected string
	}{
		{"AI sessions in the morning", "morning"},
		{"anything good after lunch?", "afternoon"},
		{"what's on day 2?", "day-2"},
		{"talks on the second day", "day-2"},
		{"best sessions overall", TimeAny},
		{"", TimeAny},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			intent := e.ClassifyIntent(tt.message)
			assert.Equal(t, tt.expected, intent.TimePreference)
		})
	}
}

// TestClassifyIntent_EmptyDefaults verifies the all-defaults Intent.
func TestClassifyIntent_EmptyDefaults(t *testing.T) {
	e := NewEngine()
	intent := e.ClassifyIntent("   ")
	assert.Equal(t, IntentGeneral, intent.Primary)
	assert.Empty(t, intent.Topics)
	assert.Equal(t, TimeAny, intent.TimePreference)
}
