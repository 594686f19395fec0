package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"doccoder-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// XAIBaseURL points the OpenAI-compatible client at xAI.
const XAIBaseURL = "https://api.x.ai/v1"

type OpenAIProvider struct {
	Client    *goopenai.Client
	ModelName string
}

var _ llm.VisionProvider = &OpenAIProvider{}

// NewOpenAIProvider builds a client for apiKey. baseURL may be empty for api.openai.com.
func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{
		Client:    goopenai.NewClientWithConfig(cfg),
		ModelName: modelName,
	}
}

func mapRole(role string) string {
	switch role {
	case "system":
		return goopenai.ChatMessageRoleSystem
	case "assistant", "model":
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}

func (p *OpenAIProvider) request(options llm.Options, messages []goopenai.ChatCompletionMessage) goopenai.ChatCompletionRequest {
	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}
	if options.System != "" {
		messages = append([]goopenai.ChatCompletionMessage{{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: options.System,
		}}, messages...)
	}
	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}
	return req
}

func (p *OpenAIProvider) complete(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := p.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7}, opts...)

	messages := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, goopenai.ChatCompletionMessage{Role: mapRole(m.Role), Content: m.Content})
	}
	return p.complete(ctx, p.request(options, messages))
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// DescribeImage sends the image as a base64 data URL.
func (p *OpenAIProvider) DescribeImage(ctx context.Context, prompt, mimeType string, data []byte, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0}, opts...)

	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	messages := []goopenai.ChatCompletionMessage{{
		Role: goopenai.ChatMessageRoleUser,
		MultiContent: []goopenai.ChatMessagePart{
			{Type: goopenai.ChatMessagePartTypeText, Text: prompt},
			{
				Type: goopenai.ChatMessagePartTypeImageURL,
				ImageURL: &goopenai.ChatMessageImageURL{
					URL:    dataURL,
					Detail: goopenai.ImageURLDetailAuto,
				},
			},
		},
	}}
	return p.complete(ctx, p.request(options, messages))
}
