package relay

import (
	"encoding/json"
	"regexp"
	"strings"
)

const maxSuggestions = 5

var (
	// lineMarker only matches numbering at the start of a line, so "I'm 25. You?" stays whole.
	lineMarker = regexp.MustCompile(`(?m)^[ \t]*\d{1,2}[.)][ \t]+`)
	// inlineMarker is used for single-line answers ("1. a 2. b 3. c").
	inlineMarker = regexp.MustCompile(`(?:^|\s)\d{1,2}[.)]\s+`)
)

type suggestionsPayload struct {
	Suggestions []string `json:"suggestions"`
}

// parseSuggestions reads a structured answer and falls back to splitting
// a numbered list when the provider ignored the schema.
func parseSuggestions(text string) []string {
	var payload suggestionsPayload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && len(payload.Suggestions) > 0 {
		return clean(payload.Suggestions)
	}
	var list []string
	if err := json.Unmarshal([]byte(text), &list); err == nil && len(list) > 0 {
		return clean(list)
	}
	return splitNumbered(text)
}

func splitNumbered(text string) []string {
	text = strings.TrimSpace(text)
	marker := inlineMarker
	if strings.Contains(text, "\n") {
		marker = lineMarker
	}
	if !marker.MatchString(text) {
		return clean(strings.Split(text, "\n"))
	}
	parts := marker.Split(text, -1)
	// Anything before the first marker is preamble ("Here are some replies:").
	return clean(parts[1:])
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, `"`)
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
