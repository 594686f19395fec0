package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/llm"
)

var (
	// ErrEmptyGeneration is returned by calls whose output is required.
	ErrEmptyGeneration = errors.New("model returned no content")
	// ErrVisionUnsupported means the resolved provider cannot read images.
	ErrVisionUnsupported = errors.New("model does not support image input")
)

const (
	DefaultMaxInput = 20000
	logModule       = "AI"
)

// Resolver maps a model alias onto a ready provider.
type Resolver func(alias string) (llm.LLMProvider, error)

type Service struct {
	resolve  Resolver
	logger   logger.ILogger
	maxInput int
}

func NewService(resolve Resolver, log logger.ILogger) *Service {
	return &Service{resolve: resolve, logger: log, maxInput: DefaultMaxInput}
}

// WithMaxInput returns a copy that truncates input to n runes.
func (s *Service) WithMaxInput(n int) *Service {
	cp := *s
	cp.maxInput = n
	return &cp
}

func (s *Service) truncate(text string) string {
	if s.maxInput <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= s.maxInput {
		return text
	}
	return string(r[:s.maxInput])
}

// generate runs one prompt. task names the call in logs.
func (s *Service) generate(ctx context.Context, alias, task, prompt string, opts ...llm.Option) (string, error) {
	p, err := s.resolve(alias)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := p.Generate(ctx, prompt, opts...)
	details := map[string]interface{}{
		"task":        task,
		"model":       alias,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		details["error"] = err.Error()
		s.logger.Warn(logModule, "model call failed", details)
		return "", err
	}
	s.logger.Debug(logModule, "model call finished", details)
	return strings.TrimSpace(out), nil
}

// snippet quotes the start of text for log lines.
func snippet(text string) string {
	r := []rune(text)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return text
}
