package ai

import (
	"context"
	"errors"
	"strings"
	"sync"

	"doccoder-be/internal/pkg/logger"
	"doccoder-be/pkg/llm"
)

// fakeProvider answers with the first reply whose key occurs in the prompt.
type fakeProvider struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   []fakeCall
}

type fakeCall struct {
	prompt  string
	options llm.Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	prompt := ""
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return f.Generate(ctx, prompt, opts...)
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{prompt: prompt, options: llm.Apply(llm.Options{}, opts...)})
	if f.err != nil {
		return "", f.err
	}
	for k, v := range f.replies {
		if strings.Contains(prompt, k) {
			return v, nil
		}
	}
	return "", nil
}

func (f *fakeProvider) lastOptions() llm.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1].options
}

type fakeVision struct {
	fakeProvider
	image []byte
}

func (f *fakeVision) DescribeImage(_ context.Context, _, _ string, data []byte, _ ...llm.Option) (string, error) {
	f.image = data
	return "scanned text", nil
}

func newTestService(p llm.LLMProvider) *Service {
	return NewService(func(string) (llm.LLMProvider, error) { return p, nil }, logger.NewNopLogger())
}

func failingService() *Service {
	return newTestService(&fakeProvider{err: errors.New("upstream down")})
}
