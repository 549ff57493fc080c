package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestClassifyComplexity_Tiers tests representative messages per tier.
func TestClassifyComplexity_Tiers(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name     string
		message  string
		expected Complexity
	}{
		{"empty", "", ComplexitySimple},
		{"short lookup", "AI sessions today", ComplexitySimple},
		{
			// Signals: multi-part marker, "recommend", "conflict" keywords.
			"multi-part with keywords",
			"Can you recommend AI sessions and check my schedule for a conflict?",
			ComplexityModerate,
		},
		{
			// Signals: long message, two question marks, multi-part marker,
			// "plan", "itinerary", "conflict", "optimize" keywords.
			"itinerary planning",
			"I'm here for two days and want to get the most out of them. Could you plan " +
				"a full itinerary for me? It should avoid any conflict between talks, and " +
				"also optimize for hands-on AI content — which tracks should I follow?",
			ComplexityComplex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.ClassifyComplexity(tt.message))
		})
	}
}

// TestClassifyComplexity_Monotonic verifies that adding complexity signals to
// a message never lowers its tier.
func TestClassifyComplexity_Monotonic(t *testing.T) {
	e := NewEngine()

	rank := func(c Complexity) int {
		switch c {
		case ComplexitySimple:
			return 0
		case ComplexityModerate:
			return 1
		default:
			return 2
		}
	}

	base := "show me cyber talks"
	grown := base
	additions := []string{
		" and compare them",
		" with a plan for day 2",
		"? also, is there a conflict with the keynote?",
		" " + strings.Repeat("I care about practical detail. ", 12),
	}

	prev := rank(e.ClassifyComplexity(base))
	for _, add := range additions {
		grown += add
		cur := rank(e.ClassifyComplexity(grown))
		assert.GreaterOrEqual(t, cur, prev, "adding signals must not lower the tier: %q", grown)
		prev = cur
	}
}

// TestClassifyComplexity_Deterministic verifies classification depends only
// on the message text.
func TestClassifyComplexity_Deterministic(t *testing.T) {
	e := NewEngine()
	msg := "recommend sessions and plan my day?"
	first := e.ClassifyComplexity(msg)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.ClassifyComplexity(msg))
	}
}
