package ai

import (
	"context"
	"fmt"

	"doccoder-be/pkg/llm"

	"golang.org/x/sync/errgroup"
)

type GrammarError struct {
	Type        string `json:"type"`
	Position    int    `json:"position"`
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
	Severity    string `json:"severity"`
}

type ComplianceIssue struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
	Severity   string `json:"severity"`
}

type ReviewResult struct {
	GrammarErrors    []GrammarError    `json:"grammarErrors"`
	ComplianceIssues []ComplianceIssue `json:"complianceIssues"`
	OverallScore     int               `json:"overallScore"`
	Recommendations  []string          `json:"recommendations"`
}

func (s *Service) grammarErrors(ctx context.Context, alias, text, lang string) []GrammarError {
	prompt := fmt.Sprintf(`Review the following %s text for grammar, spelling, punctuation, and style errors.
For each error found, provide:
1. Error type (grammar/spelling/punctuation/style)
2. The incorrect text
3. The correction
4. Brief explanation
5. Severity (low/medium/high)

Format as JSON array with objects containing: type, original, suggestion, explanation, severity

Text: "%s"

Errors (JSON):`, lang, s.truncate(text))

	raw, err := s.generate(ctx, alias, "grammar_review", prompt, llm.WithTemperature(0.2))
	if err != nil {
		return []GrammarError{}
	}
	errs := ParseJSON(raw, []GrammarError{})
	for i := range errs {
		errs[i].Position = i
	}
	return errs
}

func (s *Service) complianceIssues(ctx context.Context, alias, text, lang, culture string) []ComplianceIssue {
	scope := ""
	if culture != "" {
		scope = fmt.Sprintf(" (%s context)", culture)
	}
	prompt := fmt.Sprintf(`Review the following text for cultural sensitivity, legal compliance, and potential issues in %s%s.

Check for:
1. Culturally insensitive language
2. Potentially offensive terms
3. Legal or regulatory concerns
4. Brand safety issues

For each issue found, provide:
1. Issue type (cultural/legal/sensitive/brand)
2. The problematic text
3. Description of the issue
4. Suggested replacement
5. Severity (low/medium/high)

Format as JSON array with objects containing: type, text, issue, suggestion, severity

Text: "%s"

Issues (JSON):`, lang, scope, s.truncate(text))

	raw, err := s.generate(ctx, alias, "compliance_review", prompt, llm.WithTemperature(0.2))
	if err != nil {
		return []ComplianceIssue{}
	}
	return ParseJSON(raw, []ComplianceIssue{})
}

// Review checks grammar and compliance concurrently and scores the result.
func (s *Service) Review(ctx context.Context, alias, text, lang, culture string) ReviewResult {
	var (
		grammar    []GrammarError
		compliance []ComplianceIssue
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grammar = s.grammarErrors(gctx, alias, text, lang)
		return nil
	})
	g.Go(func() error {
		compliance = s.complianceIssues(gctx, alias, text, lang, culture)
		return nil
	})
	_ = g.Wait()

	return ReviewResult{
		GrammarErrors:    grammar,
		ComplianceIssues: compliance,
		OverallScore:     QualityScore(grammar, compliance),
		Recommendations:  Recommendations(grammar, compliance),
	}
}

// QualityScore starts at 100 and deducts per finding by severity, clamped to 0..100.
func QualityScore(grammar []GrammarError, compliance []ComplianceIssue) int {
	score := 100
	for _, e := range grammar {
		switch e.Severity {
		case "high":
			score -= 5
		case "medium":
			score -= 3
		default:
			score -= 1
		}
	}
	for _, c := range compliance {
		switch c.Severity {
		case "high":
			score -= 10
		case "medium":
			score -= 5
		default:
			score -= 2
		}
	}
	return max(0, min(100, score))
}

func Recommendations(grammar []GrammarError, compliance []ComplianceIssue) []string {
	var highG, mediumG, highC, cultural int
	for _, e := range grammar {
		switch e.Severity {
		case "high":
			highG++
		case "medium":
			mediumG++
		}
	}
	for _, c := range compliance {
		if c.Severity == "high" {
			highC++
		}
		if c.Type == "cultural" {
			cultural++
		}
	}

	var out []string
	if highG > 0 {
		out = append(out, fmt.Sprintf("Fix %d critical grammar error(s) before publishing", highG))
	}
	if mediumG > 0 {
		out = append(out, fmt.Sprintf("Review %d grammar issue(s) for better clarity", mediumG))
	}
	if highC > 0 {
		out = append(out, fmt.Sprintf("Address %d critical compliance issue(s)", highC))
	}
	if cultural > 0 {
		out = append(out, fmt.Sprintf("Review %d cultural sensitivity concern(s)", cultural))
	}
	if len(out) == 0 {
		out = append(out, "Translation looks good! Minor style improvements could enhance readability.")
	}
	return out
}
