package engine

import (
	"strings"
)

// multiPartMarkers indicate a message asking for more than one thing.
var multiPartMarkers = []string{
	" and ", " also ", " then ", " plus ", "as well as", "compare", " versus ", " vs ",
}

// complexityKeywords are query features that require heavier processing:
// cross-session reasoning, schedule math, or itinerary assembly.
var complexityKeywords = []string{
	"conflict", "overlap", "itinerary", "plan", "optimize", "across",
	"recommend", "personalized", "learning path", "full day", "all sessions",
}

// ClassifyComplexity categorizes a message as simple, moderate or complex to
// drive the candidate budget and model/token sizing.
//
// The classifier counts complexity signals (length, multi-part markers,
// question marks, keyword density) and maps the count through the configured
// thresholds. Because every signal only ever increments the count, a message
// carrying a superset of signals can never classify lower than one with a
// subset, and the result is a pure function of the text.
func (e *Engine) ClassifyComplexity(message string) Complexity {
	cfg := e.config.Complexity
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return ComplexitySimple
	}
	lower := strings.ToLower(trimmed)

	signals := 0
	if len(trimmed) >= cfg.LongMessageChars {
		signals++
	}
	if len(trimmed) >= cfg.VeryLongMessageChars {
		signals++
	}
	if strings.Count(lower, "?") >= 2 {
		signals++
	}
	for _, marker := range multiPartMarkers {
		if strings.Contains(lower, marker) {
			signals++
			break
		}
	}
	for _, kw := range complexityKeywords {
		if containsKeyword(lower, kw) {
			signals++
		}
	}

	switch {
	case signals >= cfg.ComplexSignals:
		return ComplexityComplex
	case signals >= cfg.ModerateSignals:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}
