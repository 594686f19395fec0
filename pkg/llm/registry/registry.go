package registry

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"doccoder-be/pkg/llm"
	"doccoder-be/pkg/llm/factory"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Providers. Ollama runs locally and needs no key.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderXAI       = "xai"
	ProviderOllama    = "ollama"
)

type ModelConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type providerInfo struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
}

type tableFile struct {
	Default          ModelConfig             `yaml:"default"`
	AnthropicDefault string                  `yaml:"anthropic_default"`
	Aliases          map[string]ModelConfig  `yaml:"aliases"`
	Providers        map[string]providerInfo `yaml:"providers"`
}

var table = mustLoad(modelsYAML)

func mustLoad(data []byte) tableFile {
	var t tableFile
	if err := yaml.Unmarshal(data, &t); err != nil {
		panic(fmt.Sprintf("registry: invalid embedded model table: %v", err))
	}
	return t
}

// Resolve maps a UI model alias onto a provider and concrete model id.
func Resolve(alias string) ModelConfig {
	alias = strings.TrimSpace(alias)
	if cfg, ok := table.Aliases[alias]; ok {
		return cfg
	}
	if model, ok := strings.CutPrefix(alias, ProviderOllama+"/"); ok && model != "" {
		return ModelConfig{Provider: ProviderOllama, Model: model}
	}
	lower := strings.ToLower(alias)
	if strings.Contains(lower, "anthropic") || strings.Contains(lower, "claude") {
		return ModelConfig{Provider: ProviderAnthropic, Model: table.AnthropicDefault}
	}
	return table.Default
}

// KeySource returns the current API key for a provider.
type KeySource func(provider string) string

// Registry hands out provider clients for model aliases. Keys are read and
// validated on every call so a rotated key takes effect without a restart.
type Registry struct {
	keys      KeySource
	ollamaURL string
	clients   *cache.Cache
}

type Option func(*Registry)

func WithOllamaURL(url string) Option {
	return func(r *Registry) { r.ollamaURL = url }
}

func New(keys KeySource, opts ...Option) *Registry {
	r := &Registry{
		keys:    keys,
		clients: cache.New(30*time.Minute, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ValidateKey checks that the provider's key is present and not a placeholder.
// The error text is shown to clients verbatim.
func (r *Registry) ValidateKey(provider string) error {
	_, err := r.key(provider)
	return err
}

func (r *Registry) key(provider string) (string, error) {
	if provider == ProviderOllama {
		return "", nil
	}
	info, ok := table.Providers[provider]
	if !ok {
		return "", fmt.Errorf("unknown provider %q: %w", provider, llm.ErrProviderKey)
	}

	key := ""
	if r.keys != nil {
		key = strings.TrimSpace(r.keys(provider))
	}
	if key == "" {
		return "", &KeyError{Message: fmt.Sprintf("%s API key missing.", info.Name)}
	}
	if strings.Contains(key, "your-") || strings.Contains(key, "YOUR_") || len(key) < 15 {
		return "", &KeyError{Message: fmt.Sprintf("The %s API key appears to be a placeholder or is incorrectly formatted.", info.Name)}
	}
	return key, nil
}

// Ready reports whether provider has a usable key.
func (r *Registry) Ready(provider string) bool {
	return r.ValidateKey(provider) == nil
}

// Readiness reports Ready for every keyed provider.
func (r *Registry) Readiness() map[string]bool {
	out := make(map[string]bool, len(table.Providers))
	for p := range table.Providers {
		out[p] = r.Ready(p)
	}
	return out
}

// Provider resolves alias and returns a client bound to the resolved model.
func (r *Registry) Provider(alias string) (llm.LLMProvider, error) {
	cfg := Resolve(alias)
	key, err := r.key(cfg.Provider)
	if err != nil {
		return nil, err
	}

	cacheKey := cfg.Provider + ":" + fingerprint(key)
	var client llm.LLMProvider
	if cached, ok := r.clients.Get(cacheKey); ok {
		client = cached.(llm.LLMProvider)
	} else {
		baseURL := ""
		if cfg.Provider == ProviderOllama {
			baseURL = r.ollamaURL
		}
		client, err = factory.NewLLMProvider(cfg.Provider, cfg.Model, key, baseURL)
		if err != nil {
			return nil, err
		}
		r.clients.SetDefault(cacheKey, client)
	}

	return bind(client, cfg.Model), nil
}

func fingerprint(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// KeyError is a key validation failure.
type KeyError struct {
	Message string
}

func (e *KeyError) Error() string { return e.Message }

func (e *KeyError) Unwrap() error { return llm.ErrProviderKey }

// bound pins the model on a shared client.
type bound struct {
	client llm.LLMProvider
	model  string
}

func (b bound) opts(opts []llm.Option) []llm.Option {
	return append([]llm.Option{llm.WithModel(b.model)}, opts...)
}

func (b bound) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return b.client.Chat(ctx, history, b.opts(opts)...)
}

func (b bound) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return b.client.Generate(ctx, prompt, b.opts(opts)...)
}

type boundVision struct {
	bound
	vision llm.VisionProvider
}

func (b boundVision) DescribeImage(ctx context.Context, prompt, mimeType string, data []byte, opts ...llm.Option) (string, error) {
	return b.vision.DescribeImage(ctx, prompt, mimeType, data, b.opts(opts)...)
}

func bind(client llm.LLMProvider, model string) llm.LLMProvider {
	b := bound{client: client, model: model}
	if v, ok := client.(llm.VisionProvider); ok {
		return boundVision{bound: b, vision: v}
	}
	return b
}
