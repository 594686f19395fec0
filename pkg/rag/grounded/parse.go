package grounded

import (
	"regexp"
	"strings"
)

type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidencePartial  Confidence = "Partial"
	ConfidenceNotFound Confidence = "Not Found"
)

type Response struct {
	Answer     string     `json:"answer"`
	Citations  string     `json:"citations"`
	Confidence Confidence `json:"confidence"`
}

// Default is what unparseable output degrades to.
func Default() Response {
	return Response{Answer: RefusalSentence, Citations: "None", Confidence: ConfidenceNotFound}
}

var bullet = regexp.MustCompile(`^[-•]\s*`)

func confidenceOf(s string) (Confidence, bool) {
	switch {
	case strings.Contains(s, "High"):
		return ConfidenceHigh, true
	case strings.Contains(s, "Partial"):
		return ConfidencePartial, true
	case strings.Contains(s, "Not Found"):
		return ConfidenceNotFound, true
	}
	return "", false
}

// Parse reads the Answer / Citations / Confidence Level sections. Labels may be
// bare or bulleted with "-" or "•"; lines without a label continue the current
// section.
func Parse(text string) Response {
	var (
		answer, citations []string
		confidence        = ConfidenceNotFound
		section           string
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		clean := bullet.ReplaceAllString(trimmed, "")
		lower := strings.ToLower(clean)

		switch {
		case strings.HasPrefix(lower, "answer:"):
			section = "answer"
			answer = appendNonEmpty(nil, clean[len("answer:"):])
			continue
		case strings.HasPrefix(lower, "citations:"):
			section = "citations"
			citations = appendNonEmpty(nil, clean[len("citations:"):])
			continue
		case strings.HasPrefix(lower, "confidence level:"):
			section = "confidence"
			if c, ok := confidenceOf(clean[len("confidence level:"):]); ok {
				confidence = c
			}
			continue
		}

		switch section {
		case "answer":
			answer = append(answer, trimmed)
		case "citations":
			citations = append(citations, trimmed)
		case "confidence":
			if c, ok := confidenceOf(trimmed); ok {
				confidence = c
			}
		}
	}

	out := Default()
	out.Confidence = confidence
	if a := strings.TrimSpace(strings.Join(answer, "\n")); a != "" {
		out.Answer = a
	}
	if c := strings.TrimSpace(strings.Join(citations, "\n")); c != "" {
		out.Citations = c
	}
	return out
}

func appendNonEmpty(dst []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		return append(dst, s)
	}
	return dst
}
