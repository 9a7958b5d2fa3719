package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/MegaGrindStone/quickthought/internal/relay"
	"github.com/MegaGrindStone/quickthought/internal/services"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type llmConfig interface {
	session(ctx context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error)
	override(model, apiKey string)
}

// BaseLLMConfig contains the common fields for all LLM configurations.
type BaseLLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

type config struct {
	Port         string    `yaml:"port"`
	SystemPrompt string    `yaml:"systemPrompt"`
	LLM          llmConfig `yaml:"llm"`
}

// envConfig holds the settings that can be overridden from the environment.
type envConfig struct {
	Port         string `env:"QUICKTHOUGHT_PORT"`
	SystemPrompt string `env:"QUICKTHOUGHT_SYSTEM_PROMPT"`
	Model        string `env:"QUICKTHOUGHT_MODEL"`
	APIKey       string `env:"QUICKTHOUGHT_API_KEY"`
}

type geminiConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string `yaml:"apiKey"`
}

type ollamaConfig struct {
	BaseLLMConfig `yaml:",inline"`
	Host          string `yaml:"host"`
}

type anthropicConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string `yaml:"apiKey"`
	MaxTokens     int    `yaml:"maxTokens"`
	Endpoint      string `yaml:"endpoint"`
}

type openAIConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string                 `yaml:"apiKey"`
	BaseURL       string                 `yaml:"baseURL"`
	Parameters    services.LLMParameters `yaml:"parameters"`
}

type openRouterConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string `yaml:"apiKey"`
	Endpoint      string `yaml:"endpoint"`
}

const defaultPort = "8080"

func defaultConfig() config {
	return config{
		Port:         defaultPort,
		SystemPrompt: services.DefaultSystemPrompt,
		LLM: &geminiConfig{
			BaseLLMConfig: BaseLLMConfig{
				Provider: "gemini",
				Model:    services.DefaultGeminiModel,
			},
		},
	}
}

// loadConfig reads the YAML config at path on top of the defaults, then applies the environment
// overrides. A missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return config{}, fmt.Errorf("error opening config file: %w", err)
	default:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return config{}, fmt.Errorf("error decoding config file: %w", err)
		}
	}

	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return config{}, fmt.Errorf("error parsing environment: %w", err)
	}
	if ec.Port != "" {
		cfg.Port = ec.Port
	}
	if ec.SystemPrompt != "" {
		cfg.SystemPrompt = ec.SystemPrompt
	}
	cfg.LLM.override(ec.Model, ec.APIKey)

	return cfg, nil
}

func (c *config) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig struct {
		Port         string         `yaml:"port"`
		SystemPrompt string         `yaml:"systemPrompt"`
		LLM          map[string]any `yaml:"llm"`
	}

	if err := value.Decode(&rawConfig); err != nil {
		return err
	}

	if rawConfig.Port != "" {
		c.Port = rawConfig.Port
	}
	if rawConfig.SystemPrompt != "" {
		c.SystemPrompt = rawConfig.SystemPrompt
	}

	if rawConfig.LLM == nil {
		return nil
	}

	llmProvider, ok := rawConfig.LLM["provider"].(string)
	if !ok {
		return fmt.Errorf("llm provider is required")
	}

	llmRawYAML, err := yaml.Marshal(rawConfig.LLM)
	if err != nil {
		return err
	}

	var llm llmConfig
	switch llmProvider {
	case "gemini":
		llm = &geminiConfig{}
	case "ollama":
		llm = &ollamaConfig{}
	case "anthropic":
		llm = &anthropicConfig{}
	case "openai":
		llm = &openAIConfig{}
	case "openrouter":
		llm = &openRouterConfig{}
	default:
		return fmt.Errorf("unknown llm provider: %s", llmProvider)
	}

	if err := yaml.Unmarshal(llmRawYAML, llm); err != nil {
		return err
	}

	c.LLM = llm

	return nil
}

func (g *geminiConfig) override(model, apiKey string) {
	if model != "" {
		g.Model = model
	}
	if apiKey != "" {
		g.APIKey = apiKey
	}
}

func (g *geminiConfig) session(ctx context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error) {
	// The key is not validated here: a missing key surfaces as a failed request.
	apiKey := g.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	return services.NewGemini(ctx, apiKey, g.Model, systemPrompt, logger), nil
}

func (o *ollamaConfig) override(model, _ string) {
	if model != "" {
		o.Model = model
	}
}

func (o *ollamaConfig) session(_ context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	host := o.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	if host == "" {
		host = "http://localhost:11434"
	}
	return services.NewOllama(host, o.Model, systemPrompt, logger), nil
}

func (a *anthropicConfig) override(model, apiKey string) {
	if model != "" {
		a.Model = model
	}
	if apiKey != "" {
		a.APIKey = apiKey
	}
}

func (a *anthropicConfig) session(_ context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error) {
	if a.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if a.MaxTokens == 0 {
		return nil, fmt.Errorf("maxTokens is required")
	}

	apiKey := a.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return services.NewAnthropic(apiKey, a.Model, systemPrompt, a.MaxTokens, a.Endpoint, logger), nil
}

func (o *openAIConfig) override(model, apiKey string) {
	if model != "" {
		o.Model = model
	}
	if apiKey != "" {
		o.APIKey = apiKey
	}
}

func (o *openAIConfig) session(_ context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return services.NewOpenAI(apiKey, o.BaseURL, o.Model, systemPrompt, o.Parameters, logger), nil
}

func (o *openRouterConfig) override(model, apiKey string) {
	if model != "" {
		o.Model = model
	}
	if apiKey != "" {
		o.APIKey = apiKey
	}
}

func (o *openRouterConfig) session(_ context.Context, systemPrompt string, logger *slog.Logger) (relay.Session, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	return services.NewOpenRouter(apiKey, o.Model, systemPrompt, o.Endpoint, logger), nil
}
