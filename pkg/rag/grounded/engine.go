package grounded

import (
	"context"
	"time"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/llm"
)

const (
	NotConfiguredReply = "Document intelligence is not configured yet. Please provide a valid API key in the system environment."
	NotReadyReply      = "The document is not ready yet."
	minContextLen      = 50
	defaultAlias       = "openai/gpt-4-mini"
)

type Options struct {
	Language string
	Mode     Mode
	Messages []llm.Message
}

// Engine answers questions strictly from supplied context.
type Engine struct {
	resolve func(alias string) (llm.LLMProvider, error)
	ready   func() bool
	logger  logger.ILogger
}

func NewEngine(resolve func(alias string) (llm.LLMProvider, error), ready func() bool, log logger.ILogger) *Engine {
	return &Engine{resolve: resolve, ready: ready, logger: log}
}

func notFound(answer string) Response {
	return Response{Answer: answer, Citations: "None", Confidence: ConfidenceNotFound}
}

func (e *Engine) Answer(ctx context.Context, alias, query, docContext string, opts Options) Response {
	if e.ready != nil && !e.ready() {
		return notFound(NotConfiguredReply)
	}
	if len([]rune(docContext)) < minContextLen {
		return notFound(NotReadyReply)
	}

	if alias == "" {
		alias = defaultAlias
	}
	details := map[string]interface{}{
		"model":          alias,
		"mode":           string(opts.Mode),
		"context_length": len(docContext),
		"history_length": len(opts.Messages),
	}

	p, err := e.resolve(alias)
	if err != nil {
		details["error"] = err.Error()
		e.logger.Error("RAG", "grounded model unavailable", details)
		return Default()
	}

	history := make([]llm.Message, 0, len(opts.Messages)+1)
	for _, m := range opts.Messages {
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "assistant"
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	history = append(history, llm.Message{Role: "user", Content: UserTurn(docContext, query)})

	start := time.Now()
	text, err := p.Chat(ctx, history,
		llm.WithSystem(SystemPrompt(opts.Mode, opts.Language)),
		llm.WithTemperature(0.2))
	details["duration_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		details["error"] = err.Error()
		e.logger.Error("RAG", "grounded generation failed", details)
		return Default()
	}

	res := Parse(text)
	details["confidence"] = string(res.Confidence)
	e.logger.Info("RAG", "grounded response generated", details)
	return res
}
