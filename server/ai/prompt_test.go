package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confmate/confmate/server/engine"
)

func TestBuildPrompt(t *testing.T) {
	payload := &engine.ContextPayload{
		Intent:     engine.Intent{Primary: engine.IntentRecommendation, Topics: []string{"ai"}, TimePreference: engine.TimeAny},
		Complexity: engine.ComplexityModerate,
		Candidates: []engine.CandidateSummary{
			{ID: "s-1", Title: "AI in underwriting", Score: 0.45},
		},
	}

	messages := BuildPrompt(payload, "what should I attend?")
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "AI in underwriting", "candidates are embedded in the system prompt")
	assert.Contains(t, messages[0].Content, `"recommendation"`)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "what should I attend?", messages[1].Content)
}

func TestBuildPrompt_NoSessionData(t *testing.T) {
	payload := &engine.ContextPayload{
		Intent:        engine.Intent{Primary: engine.IntentGeneral, Topics: []string{}, TimePreference: engine.TimeAny},
		Complexity:    engine.ComplexitySimple,
		NoSessionData: true,
	}

	messages := BuildPrompt(payload, "what's on?")
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "catalog is currently unavailable")
	assert.NotContains(t, messages[0].Content, "Context payload")
}

func TestBuildPrompt_NilPayload(t *testing.T) {
	messages := BuildPrompt(nil, "hello")
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "catalog is currently unavailable")
}
