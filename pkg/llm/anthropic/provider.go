package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"doccoder-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 4096

type AnthropicProvider struct {
	Client    *sdk.Client
	ModelName string
}

var _ llm.VisionProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, modelName string) *AnthropicProvider {
	cl := sdk.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{Client: &cl, ModelName: modelName}
}

func (p *AnthropicProvider) params(options llm.Options, messages []sdk.MessageParam) sdk.MessageNewParams {
	model := p.ModelName
	if options.Model != "" {
		model = options.Model
	}
	maxTokens := defaultMaxTokens
	if options.MaxTokens > 0 {
		maxTokens = options.MaxTokens
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(model),
		MaxTokens:   int64(maxTokens),
		Messages:    messages,
		Temperature: sdk.Float(options.Temperature),
	}
	if options.System != "" {
		params.System = []sdk.TextBlockParam{{Text: options.System}}
	}
	return params
}

func (p *AnthropicProvider) complete(ctx context.Context, params sdk.MessageNewParams) (string, error) {
	msg, err := p.Client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, cb := range msg.Content {
		if tb, ok := cb.AsAny().(sdk.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	return b.String(), nil
}

// Chat lifts system messages out of the history into the system parameter.
func (p *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7}, opts...)

	var (
		system   []string
		messages []sdk.MessageParam
	)
	if options.System != "" {
		system = append(system, options.System)
	}
	for _, m := range history {
		switch m.Role {
		case "system":
			system = append(system, m.Content)
		case "assistant", "model":
			messages = append(messages, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			messages = append(messages, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		}
	}
	options.System = strings.Join(system, "\n\n")

	return p.complete(ctx, p.params(options, messages))
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (p *AnthropicProvider) DescribeImage(ctx context.Context, prompt, mimeType string, data []byte, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0}, opts...)
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}

	messages := []sdk.MessageParam{sdk.NewUserMessage(
		sdk.NewImageBlockBase64(mimeType, base64.StdEncoding.EncodeToString(data)),
		sdk.NewTextBlock(prompt),
	)}
	return p.complete(ctx, p.params(options, messages))
}
