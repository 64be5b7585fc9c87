package summarizer

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"docsummary/internal/domain"
)

// ParseReply decodes a model reply shaped as a SummaryResult JSON object.
// ok is false when the reply is not such an object.
func ParseReply(reply string) (result domain.SummaryResult, ok bool) {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") {
		return domain.SummaryResult{}, false
	}

	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return domain.SummaryResult{}, false
	}

	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}

	return result, true
}

// Fallback builds a result from an unstructured reply. Counts describe the
// original content, not the reply.
func Fallback(reply string, content string) domain.SummaryResult {
	return domain.SummaryResult{
		Summary:        reply,
		KeyPoints:      []string{},
		WordCount:      len(strings.Fields(content)),
		OriginalLength: utf8.RuneCountInString(content),
	}
}
