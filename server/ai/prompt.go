package ai

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"

	"github.com/confmate/confmate/server/engine"
)

const systemPromptHeader = `You are the conference concierge for an insurance industry event.
Answer attendee questions about sessions, speakers, schedules and the venue.
Ground every claim in the context payload below; if the payload does not
cover something, say so instead of guessing. Mention schedule conflicts when
the payload lists any. Keep answers short for simple questions and expand
only when the question asks for plans or comparisons.`

const noSessionDataPrompt = `You are the conference concierge for an insurance industry event.
The session catalog is currently unavailable, so you cannot cite specific
sessions, rooms or times. Say that clearly, answer what you can from general
conference knowledge, and suggest the attendee retry in a moment.`

// BuildPrompt turns the assembled context payload and the attendee's message
// into the chat messages for the LLM. The payload is embedded as JSON so the
// model sees exactly what the engine ranked.
func BuildPrompt(payload *engine.ContextPayload, userMessage string) []Message {
	system := systemPromptHeader
	if payload == nil || payload.NoSessionData {
		system = noSessionDataPrompt
	} else if encoded, err := json.MarshalIndent(payload, "", "  "); err == nil {
		system += "\n\nContext payload:\n" + string(encoded)
	}

	return []Message{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: userMessage},
	}
}
