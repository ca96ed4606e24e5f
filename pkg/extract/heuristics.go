package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/voiceagi/go-voiceagi/pkg/intent"
)

// Pattern templates keyed by the semantic role of the parameter. Each
// group is tried in order; the first match wins. The description
// patterns deliberately strip a leading action verb, which can swallow
// a verb that belongs to the description itself ("create a goal to
// optimize memory" yields "memory", not "optimize memory"). That is a
// known limitation of verb-anchored capture, kept rather than patched
// around.
var (
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:my name is|i'm|i am|call me)\s+(\w+)`),
		regexp.MustCompile(`(?:name|called)\s+(\w+)`),
	}

	descriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:create|make|add|new)\s+(?:goal|task)?\s+(?:to|for)?\s+(.+)`),
		regexp.MustCompile(`(?:goal|task):\s*(.+)`),
		regexp.MustCompile(`(?:optimize|improve|fix|enhance)\s+(.+)`),
	}

	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:research|study|learn about|investigate)\s+(.+)`),
		regexp.MustCompile(`(?:search|find|look for)\s+(?:about|for)?\s*(.+)`),
	}

	metricPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:optimize|improve|speed up|make faster)\s+(.+)`),
	}

	numberPattern = regexp.MustCompile(`(\d+)`)

	trailingPunct = regexp.MustCompile(`[.!?]+$`)
)

// heuristicValue runs the pattern templates for a parameter against the
// lowercased utterance. The boolean reports whether any template matched.
func heuristicValue(param string, lower string) (string, bool) {
	switch param {
	case "name":
		if v, ok := firstMatch(namePatterns, lower); ok {
			return capitalize(v), true
		}
	case "description", "goal", "goal_description":
		if v, ok := firstMatch(descriptionPatterns, lower); ok {
			if cleaned := cleanCapture(v); cleaned != "" {
				return cleaned, true
			}
		}
	case "topic", "query":
		if v, ok := firstMatch(topicPatterns, lower); ok {
			if cleaned := cleanCapture(v); cleaned != "" {
				return cleaned, true
			}
		}
	case "target_metric":
		if v, ok := firstMatch(metricPatterns, lower); ok {
			if cleaned := cleanCapture(v); cleaned != "" {
				return cleaned, true
			}
		}
	case "limit":
		if m := numberPattern.FindStringSubmatch(lower); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func firstMatch(patterns []*regexp.Regexp, s string) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// cleanCapture strips trailing punctuation and leading/trailing
// stopwords from a captured phrase.
func cleanCapture(s string) string {
	s = trailingPunct.ReplaceAllString(strings.TrimSpace(s), "")

	words := strings.Fields(s)
	for len(words) > 0 && intent.IsStopword(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && intent.IsStopword(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return ""
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
