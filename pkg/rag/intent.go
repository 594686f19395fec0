package rag

import (
	"regexp"
	"strings"
)

const (
	IntentSpecificQuery  = "specific_query"
	IntentGeneralSummary = "general_summary"
	IntentFollowUp       = "follow_up"
)

var followUpWords = regexp.MustCompile(`\b(this|that|it)\b`)

// IdentifyIntent classifies a chat query.
func IdentifyIntent(query string) string {
	q := strings.ToLower(query)
	if strings.Contains(q, "summary") || strings.Contains(q, "summarize") || strings.Contains(q, "tell me about") {
		return IntentGeneralSummary
	}
	if followUpWords.MatchString(q) {
		return IntentFollowUp
	}
	return IntentSpecificQuery
}
