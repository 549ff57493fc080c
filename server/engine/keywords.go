package engine

import (
	"strings"
	"unicode"
)

// Keyword tables for intent classification and scoring. Declaration order
// matters for the primary-intent rules: the first matching rule wins.

// intentRule maps trigger phrases to a primary intent.
type intentRule struct {
	intent  PrimaryIntent
	phrases []string
}

// primaryIntentRules is checked in order; recommendation deliberately
// precedes scheduling so "recommend a schedule" is a recommendation query.
var primaryIntentRules = []intentRule{
	{IntentRecommendation, []string{"recommend", "suggest", "what should i", "best session", "worth attending", "top pick"}},
	{IntentScheduling, []string{"schedule", "conflict", "agenda", "itinerary", "plan my", "overlap", "favorite"}},
	{IntentSpeakerInfo, []string{"speaker", "who is", "presenter", "panelist", "keynote by"}},
	{IntentTiming, []string{"when is", "what time", "start time", "how long", "duration"}},
	{IntentLocation, []string{"where is", "location", "room", "which hall", "venue", "stage"}},
	{IntentNetworking, []string{"network", "meet people", "mixer", "reception", "connect with"}},
	{IntentLearning, []string{"learn", "beginner", "introduction", "deep dive", "workshop", "hands-on", "learning path"}},
}

// topicKeywords is the fixed topic taxonomy. Every topic whose keyword list
// hits contributes its tag; extraction is independent of the primary intent.
// Ordered so extracted topic lists are deterministic.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"ai", []string{"ai", "artificial intelligence", "machine learning", "ml", "llm", "genai", "generative"}},
	{"claims", []string{"claim", "claims", "fnol", "adjuster", "settlement"}},
	{"cyber", []string{"cyber", "security", "breach", "ransomware", "cyber security", "cybersecurity"}},
	{"embedded", []string{"embedded", "api-first", "point of sale", "ecosystem"}},
	{"distribution", []string{"distribution", "broker", "agent channel", "mga", "bancassurance"}},
	{"innovation", []string{"innovation", "insurtech", "startup", "disrupt", "transformation"}},
	{"data", []string{"data", "analytics", "telematics", "predictive", "model"}},
	{"customer", []string{"customer", "cx", "experience", "engagement", "retention", "policyholder"}},
	{"underwriting", []string{"underwriting", "underwriter", "risk selection", "pricing"}},
	{"health", []string{"health", "life insurance", "wellness", "medical"}},
	{"property", []string{"property", "catastrophe", "climate risk", "flood", "wildfire", "p&c"}},
	{"regulation", []string{"regulation", "regulatory", "compliance", "solvency", "privacy law"}},
}

// aiSynonyms is the expanded synonym list for the "ai" topic. AI queries are
// the dominant use case, so each distinct hit raises the score, capped by
// maxAISynonymHits.
var aiSynonyms = []string{
	"ai", "artificial intelligence", "machine learning", "ml", "llm",
	"large language model", "genai", "generative", "gpt", "neural",
	"deep learning", "nlp", "computer vision", "agentic",
}

// genericTitleKeywords marks filler sessions that should not crowd out
// topical results when the query names a topic.
var genericTitleKeywords = []string{
	"keynote", "opening", "closing", "lunch", "break", "networking", "reception",
}

// morningKeywords and afternoonKeywords drive time-preference extraction.
var (
	morningKeywords   = []string{"morning", "before noon", "early session", "breakfast"}
	afternoonKeywords = []string{"afternoon", "after lunch", "evening", "late session"}
)

// containsKeyword reports whether text contains kw as a whole word or phrase,
// case-insensitively. Boundary checks keep short tokens like "ai" or "ml"
// from matching inside unrelated words ("maintain", "html").
func containsKeyword(text, kw string) bool {
	if text == "" || kw == "" {
		return false
	}
	lower := strings.ToLower(text)
	kw = strings.ToLower(kw)
	for idx := 0; ; {
		i := strings.Index(lower[idx:], kw)
		if i < 0 {
			return false
		}
		i += idx
		before := boundaryAt(lower, i-1)
		after := boundaryAt(lower, i+len(kw))
		if before && after {
			return true
		}
		idx = i + 1
	}
}

// boundaryAt reports whether position i is outside the string or holds a
// non-alphanumeric rune.
func boundaryAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// containsAnyKeyword reports whether any keyword in the list hits.
func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if containsKeyword(text, kw) {
			return true
		}
	}
	return false
}
