package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// dayNumberRegex matches "day 2", "day-3" and similar conference-day forms.
var dayNumberRegex = regexp.MustCompile(`\bday[\s-]*([1-9])\b`)

// ordinalDays maps spelled-out day references to day numbers.
// TODO: "last day" needs the event length, which the engine does not carry;
// resolve it at the service layer once the agenda range is loaded.
var ordinalDays = []struct {
	phrase string
	day    int
}{
	{"first day", 1},
	{"second day", 2},
	{"third day", 3},
}

// ClassifyIntent parses a free-text message into a structured Intent.
// Primary intent is first-match over the ordered rule table; topic and time
// extraction are independent of it. An empty or unmatched message yields the
// all-defaults Intent and is never an error.
func (e *Engine) ClassifyIntent(message string) Intent {
	intent := Intent{
		Primary:        IntentGeneral,
		Topics:         []string{},
		TimePreference: TimeAny,
	}
	if strings.TrimSpace(message) == "" {
		return intent
	}

	for _, rule := range primaryIntentRules {
		if containsAnyKeyword(message, rule.phrases) {
			intent.Primary = rule.intent
			break
		}
	}

	for _, entry := range topicKeywords {
		if containsAnyKeyword(message, entry.keywords) {
			intent.Topics = append(intent.Topics, entry.topic)
		}
	}

	intent.TimePreference = extractTimePreference(message)
	return intent
}

// extractTimePreference detects a time-of-day or conference-day preference.
// Defaults to TimeAny when nothing matches.
func extractTimePreference(message string) string {
	lower := strings.ToLower(message)

	if m := dayNumberRegex.FindStringSubmatch(lower); m != nil {
		return "day-" + m[1]
	}
	for _, od := range ordinalDays {
		if strings.Contains(lower, od.phrase) {
			return fmt.Sprintf("day-%d", od.day)
		}
	}

	if containsAnyKeyword(lower, morningKeywords) {
		return "morning"
	}
	if containsAnyKeyword(lower, afternoonKeywords) {
		return "afternoon"
	}
	return TimeAny
}
