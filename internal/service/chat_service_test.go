package service

import (
	"context"
	"testing"

	"doccoder-be/internal/dto"
	"doccoder-be/internal/pkg/logger"
	"doccoder-be/internal/pkg/serverutils"
	"doccoder-be/pkg/ai"
	"doccoder-be/pkg/language"
	"doccoder-be/pkg/llm"
	"doccoder-be/pkg/rag"
	"doccoder-be/pkg/rag/grounded"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService(p llm.LLMProvider, aiService *ai.Service) IChatService {
	resolve := func(string) (llm.LLMProvider, error) { return p, nil }
	return NewChatService(
		nil,
		rag.NewRetriever(nil, nil, logger.NewNopLogger()),
		grounded.NewEngine(resolve, nil, logger.NewNopLogger()),
		aiService,
		nil,
		language.Default(),
		"openai/gpt-4-mini",
		logger.NewNopLogger(),
	)
}

func TestChatAnswersFromContext(t *testing.T) {
	p := &fakeLLM{replies: map[string]string{
		"": "- Answer: The total is 42.\n- Citations: Page 1\n- Confidence Level: High",
	}}
	svc := newTestChatService(p, newFakeAI(p))

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Query:   "What is the total?",
		Context: "Invoice 2024-117 issued to Acme Corp. Line items follow. Invoice total: 42",
		Mode:    "STRICT",
	})
	require.NoError(t, err)

	assert.Equal(t, "The total is 42.", res.Answer)
	assert.Equal(t, "High", res.Confidence)
	require.NotNil(t, res.Retrieval)
	assert.Equal(t, "document", res.Retrieval.SourceName)
}

func TestChatWithoutContext(t *testing.T) {
	p := &fakeLLM{}
	svc := newTestChatService(p, newFakeAI(p))

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Query: "What is the total?"})
	require.NoError(t, err)

	assert.Equal(t, string(grounded.ConfidenceNotFound), res.Confidence)
	assert.Empty(t, p.prompts)
}

func TestChatTranslate(t *testing.T) {
	msgs := []dto.ChatMessage{{Role: "user", Content: "good morning"}}

	t.Run("unsupported language", func(t *testing.T) {
		svc := newTestChatService(&fakeLLM{}, newFakeAI(&fakeLLM{}))
		_, err := svc.ChatTranslate(context.Background(), uuid.Nil, &dto.ChatTranslateRequest{
			Messages:       msgs,
			TargetLanguage: "tlh",
		})
		require.Error(t, err)
		assert.Equal(t, serverutils.CodeUnsupportedLanguage, appCode(t, err))
	})

	t.Run("key failure", func(t *testing.T) {
		svc := newTestChatService(&fakeLLM{}, keyFailureAI())
		_, err := svc.ChatTranslate(context.Background(), uuid.Nil, &dto.ChatTranslateRequest{
			Messages:       msgs,
			TargetLanguage: "es",
		})
		require.Error(t, err)
		assert.Equal(t, serverutils.CodeAuthFault, appCode(t, err))
	})

	t.Run("reply", func(t *testing.T) {
		p := &fakeLLM{replies: map[string]string{"good morning": "buenos días"}}
		svc := newTestChatService(p, newFakeAI(p))
		res, err := svc.ChatTranslate(context.Background(), uuid.Nil, &dto.ChatTranslateRequest{
			Messages:       msgs,
			TargetLanguage: "es",
		})
		require.NoError(t, err)
		assert.Equal(t, &dto.ChatTranslateResponse{Role: "assistant", Content: "buenos días"}, res)
	})
}
