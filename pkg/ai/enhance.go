package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"doccoder-be/pkg/llm"

	"golang.org/x/sync/errgroup"
)

type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneCasual   Tone = "casual"
	ToneLegal    Tone = "legal"
	ToneAcademic Tone = "academic"
)

type RewriteStyle string

const (
	StyleProfessional RewriteStyle = "professional"
	StyleSimple       RewriteStyle = "simple"
	StyleCreative     RewriteStyle = "creative"
)

var toneDescriptions = map[string]string{
	"formal":   "formal and professional",
	"casual":   "casual and conversational",
	"legal":    "legal and precise with proper terminology",
	"academic": "academic and scholarly",
}

var styleDescriptions = map[RewriteStyle]string{
	StyleProfessional: "professional and formal business language",
	StyleSimple:       "simple, easy-to-understand language suitable for general audiences",
	StyleCreative:     "creative and engaging language with vivid descriptions",
}

const (
	ExplainFailed   = "Linguistic synchronization analysis interrupted."
	SummaryFailed   = "Document synthesis failed."
	KeyPointsFailed = "Metadata extraction interrupted."
	RewriteFailed   = "Content adaptation failed."
)

var numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)

func (s *Service) Explain(ctx context.Context, alias, text, targetLang string, tone Tone) string {
	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Explain the following text strictly using the provided context.
Do NOT use outside knowledge. If the text is unclear, say "Information insufficient".
Tone: %s
Target Language Context: %s

Text: "%s"

Explanation:`, tone, targetLang, s.truncate(text))

	out, err := s.generate(ctx, alias, "explain", prompt, llm.WithTemperature(0.3))
	if err != nil || out == "" {
		return ExplainFailed
	}
	return out
}

func (s *Service) Summarize(ctx context.Context, alias, text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = 200
	}
	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Summarize the following document in approximately %d words.
STRICT GROUNDING: Use ONLY the provided text. Do NOT add outside facts or assumptions.

"%s"

Summary:`, maxWords, s.truncate(text))

	out, err := s.generate(ctx, alias, "summarize", prompt, llm.WithTemperature(0.3))
	if err != nil || out == "" {
		return SummaryFailed
	}
	return out
}

func (s *Service) KeyPoints(ctx context.Context, alias, text string, maxPoints int) []string {
	if maxPoints <= 0 {
		maxPoints = 5
	}
	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Extract up to %d key points from the following text.
GROUNDING RULE: Use ONLY information from the text.
Format: Numbered list.

"%s"

Key Points:`, maxPoints, s.truncate(text))

	out, err := s.generate(ctx, alias, "key_points", prompt, llm.WithTemperature(0.2))
	if err != nil {
		return []string{KeyPointsFailed}
	}

	var points []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(numberedPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			points = append(points, line)
		}
	}
	if len(points) == 0 {
		return []string{KeyPointsFailed}
	}
	return points
}

func (s *Service) Rewrite(ctx context.Context, alias, text string, style RewriteStyle, targetLang string) string {
	desc, ok := styleDescriptions[style]
	if !ok {
		style, desc = StyleProfessional, styleDescriptions[StyleProfessional]
	}
	temp := 0.4
	if style == StyleCreative {
		temp = 0.8
	}

	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Rewrite the following text in %s for translation to %s.
STRICT GROUNDING: Maintain the original meaning without adding outside info.

"%s"

Rewritten Text:`, desc, targetLang, s.truncate(text))

	out, err := s.generate(ctx, alias, "rewrite", prompt, llm.WithTemperature(temp))
	if err != nil || out == "" {
		return RewriteFailed
	}
	return out
}

// ApplyTone adjusts an existing translation. On failure the translation is
// returned unchanged.
func (s *Service) ApplyTone(ctx context.Context, alias, original, translated string, tone Tone, targetLang string) string {
	desc, ok := toneDescriptions[string(tone)]
	if !ok {
		desc = toneDescriptions[string(ToneFormal)]
	}

	prompt := fmt.Sprintf(`You are the Doccoder AI Assistant. Adjust the following %s translation to be %s.
Keep the meaning intact but adjust the tone and word choice:

Original: "%s"
Current Translation: "%s"

Adjusted Translation:`, targetLang, desc, s.truncate(original), s.truncate(translated))

	out, err := s.generate(ctx, alias, "tone", prompt, llm.WithTemperature(0.3))
	if err != nil || out == "" {
		return translated
	}
	return out
}

type Enhancement struct {
	OriginalText   string   `json:"originalText"`
	TranslatedText string   `json:"translatedText"`
	Explanation    string   `json:"explanation,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	KeyPoints      []string `json:"keyPoints,omitempty"`
	Tone           Tone     `json:"tone,omitempty"`
}

// Enhance runs explain, summarize and key points concurrently, then applies tone.
func (s *Service) Enhance(ctx context.Context, alias, original, translated string, tone Tone, targetLang string) Enhancement {
	if tone == "" {
		tone = ToneFormal
	}
	if targetLang == "" {
		targetLang = "Spanish"
	}

	res := Enhancement{OriginalText: original, TranslatedText: translated, Tone: tone}

	// the calls recover their own failures, so the group never errors
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Explanation = s.Explain(gctx, alias, original, targetLang, tone)
		return nil
	})
	g.Go(func() error {
		res.Summary = s.Summarize(gctx, alias, original, 150)
		return nil
	})
	g.Go(func() error {
		res.KeyPoints = s.KeyPoints(gctx, alias, original, 3)
		return nil
	})
	_ = g.Wait()

	res.TranslatedText = s.ApplyTone(ctx, alias, original, translated, tone, targetLang)
	return res
}
