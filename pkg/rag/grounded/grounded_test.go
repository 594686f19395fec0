package grounded

import (
	"context"
	"errors"
	"strings"
	"testing"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BulletStyles(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain labels", "Answer: The fee is 20 dollars.\nCitations: Page 3\nConfidence Level: High"},
		{"dash bullets", "- Answer: The fee is 20 dollars.\n- Citations: Page 3\n- Confidence Level: High"},
		{"dot bullets", "• Answer: The fee is 20 dollars.\n• Citations: Page 3\n• Confidence Level: High"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.text)
			assert.Equal(t, "The fee is 20 dollars.", res.Answer)
			assert.Equal(t, "Page 3", res.Citations)
			assert.Equal(t, ConfidenceHigh, res.Confidence)
		})
	}
}

func TestParse_MultilineSections(t *testing.T) {
	text := `- Answer:
  The policy covers two cases.
  Both need a receipt.
- Citations:
  Page 1, Section 2
- Confidence Level:
  • Partial`

	res := Parse(text)

	assert.Equal(t, "The policy covers two cases.\nBoth need a receipt.", res.Answer)
	assert.Equal(t, "Page 1, Section 2", res.Citations)
	assert.Equal(t, ConfidencePartial, res.Confidence)
}

func TestParse_Defaults(t *testing.T) {
	res := Parse("random words without labels")
	assert.Equal(t, Default(), res)

	res = Parse("ANSWER: yes")
	assert.Equal(t, "yes", res.Answer)
	assert.Equal(t, "None", res.Citations)
	assert.Equal(t, ConfidenceNotFound, res.Confidence)
}

func TestGuard(t *testing.T) {
	reply, blocked := Guard("  Hello ", "some context")
	assert.True(t, blocked)
	assert.Equal(t, GreetingReply, reply)

	reply, blocked = Guard("What is the fee?", "   ")
	assert.True(t, blocked)
	assert.Equal(t, NoContextReply, reply)

	_, blocked = Guard("What is the fee?", "The fee is 20 dollars.")
	assert.False(t, blocked)
}

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt(ModeStrict, "es"), "- Mode: STRICT.")
	assert.Contains(t, SystemPrompt(ModeExplainer, "es"), "- Mode: EXPLAINER.")
	assert.Contains(t, SystemPrompt(ModeSummary, "es"), "- Mode: SUMMARY.")
	assert.Contains(t, SystemPrompt("", ""), "- Language: en")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(SystemPrompt(ModeStrict, "fr")), "REMEMBER: If it is not in the document, it does not exist."))
}

type stubProvider struct {
	reply   string
	err     error
	history []llm.Message
	options llm.Options
}

func (s *stubProvider) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	s.history = history
	s.options = llm.Apply(llm.Options{}, opts...)
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newEngine(p llm.LLMProvider, ready bool, resolveErr error) *Engine {
	return NewEngine(func(string) (llm.LLMProvider, error) {
		if resolveErr != nil {
			return nil, resolveErr
		}
		return p, nil
	}, func() bool { return ready }, logger.NewNopLogger())
}

const evidence = "[PAGE_3] The registration fee for all participants is 20 dollars, payable on arrival."

func TestEngine_Answer(t *testing.T) {
	p := &stubProvider{reply: "Answer: 20 dollars.\nCitations: Page 3\nConfidence Level: High"}
	e := newEngine(p, true, nil)

	res := e.Answer(context.Background(), "openai/gpt-5", "What is the fee?", evidence, Options{
		Mode:     ModeExplainer,
		Language: "en",
		Messages: []llm.Message{{Role: "user", Content: "hi"}, {Role: "model", Content: "hello"}},
	})

	assert.Equal(t, Response{Answer: "20 dollars.", Citations: "Page 3", Confidence: ConfidenceHigh}, res)
	require.Len(t, p.history, 3)
	assert.Equal(t, "user", p.history[0].Role)
	assert.Equal(t, "assistant", p.history[1].Role)
	assert.Contains(t, p.history[2].Content, "Retrieved Document Evidence:\n"+evidence)
	assert.Contains(t, p.history[2].Content, "User Question:\nWhat is the fee?")
	assert.Equal(t, 0.2, p.options.Temperature)
	assert.Contains(t, p.options.System, "- Mode: EXPLAINER.")
}

func TestEngine_HistoryRoles(t *testing.T) {
	p := &stubProvider{reply: "Answer: ok"}
	e := newEngine(p, true, nil)

	e.Answer(context.Background(), "", "q", evidence, Options{Messages: []llm.Message{
		{Role: "system", Content: "be nice"},
		{Role: "assistant", Content: "sure"},
		{Role: "model", Content: "earlier"},
		{Role: "", Content: "blank"},
	}})

	require.Len(t, p.history, 5)
	roles := make([]string, 0, len(p.history))
	for _, m := range p.history {
		roles = append(roles, m.Role)
	}
	assert.Equal(t, []string{"user", "assistant", "assistant", "user", "user"}, roles)
}

func TestEngine_ShortCircuits(t *testing.T) {
	p := &stubProvider{reply: "Answer: unused"}

	res := newEngine(p, false, nil).Answer(context.Background(), "", "q", evidence, Options{})
	assert.Equal(t, NotConfiguredReply, res.Answer)
	assert.Equal(t, ConfidenceNotFound, res.Confidence)

	res = newEngine(p, true, nil).Answer(context.Background(), "", "q", "too short", Options{})
	assert.Equal(t, NotReadyReply, res.Answer)
	assert.Nil(t, p.history)
}

func TestEngine_ProviderErrorsDegrade(t *testing.T) {
	res := newEngine(&stubProvider{err: errors.New("timeout")}, true, nil).
		Answer(context.Background(), "", "q", evidence, Options{})
	assert.Equal(t, Default(), res)

	res = newEngine(nil, true, llm.ErrProviderKey).
		Answer(context.Background(), "", "q", evidence, Options{})
	assert.Equal(t, Default(), res)
}
