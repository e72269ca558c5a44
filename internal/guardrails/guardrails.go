// Package guardrails classifies candidate messages before any interview logic
// runs: prompt-injection attempts and off-topic chatter are redirected instead
// of being evaluated.
package guardrails

import (
	"regexp"
	"strings"
)

const (
	// Messages shorter than this are almost always direct answers ("Yes", "No")
	// and are accepted without further checks.
	minLengthForCheck = 15

	// Messages longer than this with no interview-relevant keyword are
	// rejected. Medium-length messages get the benefit of the doubt.
	longMessageLength = 80
)

// offTopicPatterns flag manipulation attempts and clearly unrelated requests.
// Order matters: the first injectionPatternCount entries are the ones treated
// as prompt injection.
var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(previous|all|above)\s+(instructions?|prompts?)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+a`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)forget\s+(everything|your\s+instructions)`),
	regexp.MustCompile(`(?i)what\s+is\s+(the\s+)?(capital|president|weather|meaning\s+of\s+life)`),
	regexp.MustCompile(`(?i)tell\s+me\s+(a\s+joke|about\s+(yourself|AI|politics|sports))`),
	regexp.MustCompile(`(?i)write\s+(me\s+)?(a\s+)?(poem|story|essay|code|script|song)`),
	regexp.MustCompile(`(?i)help\s+me\s+with\s+(my\s+)?(homework|math|science|coding)`),
	regexp.MustCompile(`(?i)what\s+do\s+you\s+think\s+about\s+(politics|religion|war)`),
	regexp.MustCompile(`(?i)who\s+(won|is\s+winning)\s+(the|in)\s+`),
	regexp.MustCompile(`(?i)can\s+you\s+(search|browse|google|look\s+up)`),
	regexp.MustCompile(`(?i)translate\s+.+\s+to\s+`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)reveal\s+(your|the)\s+(instructions|prompt|system)`),
}

const injectionPatternCount = 6

var wordPattern = regexp.MustCompile(`[a-z']+`)

// defaultKeywords is the interview-relevance vocabulary for the delivery
// driver role. A message containing any of these words is considered on-topic.
var defaultKeywords = toSet([]string{
	"yes", "no", "yeah", "nope", "yep", "sure", "absolutely", "i can", "i do",
	"i am", "i'm", "i have", "i don't", "i cannot", "i can't",
	"drive", "driver", "driving", "license", "delivery", "deliver", "package",
	"truck", "vehicle", "route", "fedex", "courier", "shipping",
	"lift", "heavy", "pounds", "lbs", "weight", "physical",
	"weekend", "shift", "hours", "schedule", "available", "availability",
	"experience", "job", "work", "worked", "working", "years", "months",
	"background", "drug", "screening", "test", "check",
	"clean", "record", "violation", "accident",
	"management", "time", "organize", "independent", "independently",
	"customer", "service", "professional",
	"apply", "position", "role", "hire", "hiring",
	"pay", "salary", "benefits", "training", "bonus",
	"age", "old", "21",
	"tampa", "florida", "tsavo",
})

// Filter holds the relevance vocabulary for one job. The zero-value checks in
// this package use the built-in delivery-driver vocabulary.
type Filter struct {
	keywords map[string]struct{}
}

// NewFilter builds a filter with a custom relevance vocabulary. An empty list
// falls back to the default vocabulary.
func NewFilter(keywords []string) *Filter {
	if len(keywords) == 0 {
		return &Filter{keywords: defaultKeywords}
	}
	return &Filter{keywords: toSet(keywords)}
}

// IsPromptInjection reports whether the message attempts to override the
// interviewer's role or instructions.
func (f *Filter) IsPromptInjection(message string) bool {
	for _, pattern := range offTopicPatterns[:injectionPatternCount] {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}

// IsOnTopic reports whether the candidate's message is relevant to the
// interview. Short messages are accepted without inspection; long messages
// with no relevance keyword are rejected.
func (f *Filter) IsOnTopic(message string) bool {
	message = strings.TrimSpace(message)

	if len(message) < minLengthForCheck {
		return true
	}

	for _, pattern := range offTopicPatterns {
		if pattern.MatchString(message) {
			return false
		}
	}

	if f.containsKeyword(message) {
		return true
	}

	if len(message) > longMessageLength {
		return false
	}

	// Benefit of the doubt for medium-length messages.
	return true
}

func (f *Filter) containsKeyword(message string) bool {
	keywords := f.keywords
	if keywords == nil {
		keywords = defaultKeywords
	}

	for _, word := range wordPattern.FindAllString(strings.ToLower(message), -1) {
		if _, ok := keywords[word]; ok {
			return true
		}
	}
	return false
}

// IsPromptInjection checks the message against the injection pattern set.
func IsPromptInjection(message string) bool {
	return (&Filter{}).IsPromptInjection(message)
}

// IsOnTopic checks the message with the default relevance vocabulary.
func IsOnTopic(message string) bool {
	return (&Filter{}).IsOnTopic(message)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}
