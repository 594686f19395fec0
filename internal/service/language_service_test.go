package service

import (
	"context"
	"sync"
	"testing"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aliasRecorder notes which model alias each call resolved.
type aliasRecorder struct {
	mu      sync.Mutex
	aliases []string
}

func (a *aliasRecorder) service(p llm.LLMProvider) *ai.Service {
	return ai.NewService(func(alias string) (llm.LLMProvider, error) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.aliases = append(a.aliases, alias)
		return p, nil
	}, logger.NewNopLogger())
}

func (a *aliasRecorder) seen() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	uniq := map[string]bool{}
	var out []string
	for _, s := range a.aliases {
		if !uniq[s] {
			uniq[s] = true
			out = append(out, s)
		}
	}
	return out
}

func newTestLanguageService(p *fakeLLM) (ILanguageService, *aliasRecorder) {
	rec := &aliasRecorder{}
	return NewLanguageService(rec.service(p), language.Default(), "openai/gpt-4-mini"), rec
}

func TestLanguageValidation(t *testing.T) {
	svc, _ := newTestLanguageService(&fakeLLM{})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"enhance needs original", func() error {
			_, err := svc.Enhance(ctx, &dto.EnhanceTranslationRequest{TranslatedText: "hola"})
			return err
		}},
		{"enhance needs translation", func() error {
			_, err := svc.Enhance(ctx, &dto.EnhanceTranslationRequest{OriginalText: "hello"})
			return err
		}},
		{"enhance rejects unknown tone", func() error {
			_, err := svc.Enhance(ctx, &dto.EnhanceTranslationRequest{OriginalText: "hello", TranslatedText: "hola", Tone: "angry"})
			return err
		}},
		{"review needs text", func() error {
			_, err := svc.Review(ctx, &dto.ReviewRequest{Language: "es"})
			return err
		}},
		{"compare needs original", func() error {
			_, err := svc.Compare(ctx, &dto.CompareRequest{Translated: "hola"})
			return err
		}},
		{"compare needs translation", func() error {
			_, err := svc.Compare(ctx, &dto.CompareRequest{Original: "hello"})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *serverutils.ValidationError
			assert.ErrorAs(t, tt.call(), &verr)
		})
	}
}

func TestLanguageEnhance(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"Explain the following text":      "It greets the reader.",
		"Summarize the following":         "A greeting.",
		"Extract up to 3 key points":      "1. greeting\n2. warmth",
		"to be casual and conversational": "¡Hola!",
	}}
	svc, rec := newTestLanguageService(p)

	res, err := svc.Enhance(context.Background(), &dto.EnhanceTranslationRequest{
		OriginalText:   "Hello there",
		TranslatedText: "Hola",
		Tone:           "casual",
		TargetLanguage: "es",
		Model:          "anthropic/claude",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello there", res.OriginalText)
	assert.Equal(t, "¡Hola!", res.TranslatedText)
	assert.Equal(t, ai.ToneCasual, res.Tone)
	assert.Equal(t, "It greets the reader.", res.Explanation)
	assert.Equal(t, "A greeting.", res.Summary)
	assert.Equal(t, []string{"greeting", "warmth"}, res.KeyPoints)
	assert.Equal(t, 1, p.count("Adjust the following Spanish translation"))
	assert.Equal(t, []string{"anthropic/claude"}, rec.seen())
}

func TestLanguageReviewLanguageMapping(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     string
	}{
		{name: "code", language: "es", want: "Review the following Spanish text"},
		{name: "default", language: "", want: "Review the following English (United States) text"},
		{name: "free-form name passes through", language: "Klingon", want: "Review the following Klingon text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeLLM{replies: map[string]string{
				"for grammar, spelling":    `[{"type": "spelling", "original": "teh", "suggestion": "the", "severity": "medium"}]`,
				"for cultural sensitivity": `[{"type": "cultural", "text": "x", "issue": "y", "severity": "low"}]`,
			}}
			svc, rec := newTestLanguageService(p)

			res, err := svc.Review(context.Background(), &dto.ReviewRequest{Text: "teh text", Language: tt.language})
			require.NoError(t, err)

			assert.Equal(t, 1, p.count(tt.want))
			require.Len(t, res.GrammarErrors, 1)
			assert.Equal(t, 0, res.GrammarErrors[0].Position)
			assert.Len(t, res.ComplianceIssues, 1)
			assert.Equal(t, 95, res.OverallScore)
			assert.Equal(t, []string{
				"Review 1 grammar issue(s) for better clarity",
				"Review 1 cultural sensitivity concern(s)",
			}, res.Recommendations)
			assert.Equal(t, []string{"openai/gpt-4-mini"}, rec.seen())
		})
	}
}

func TestLanguageCompare(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"Identify any significant changes": "- tone is warmer\n• emphasis moved",
		"alternative Spanish translations": "uno, dos , tres",
	}}
	svc, _ := newTestLanguageService(p)

	res, err := svc.Compare(context.Background(), &dto.CompareRequest{
		Original:   "Quarterly revenue grew.",
		Translated: "Los ingresos crecieron.",
		Language:   "es",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tone is warmer", "emphasis moved"}, res.ChangedMeanings)
	require.Len(t, res.Synonyms, 2)
	assert.Equal(t, "Quarterly", res.Synonyms[0].Original)
	assert.Equal(t, []string{"uno", "dos", "tres"}, res.Synonyms[0].Alternatives)
	assert.Len(t, res.Segments, 1)
	assert.GreaterOrEqual(t, res.OverallSimilarity, 0.0)
	assert.LessOrEqual(t, res.OverallSimilarity, 1.0)
}
