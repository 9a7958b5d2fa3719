package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/MegaGrindStone/quickthought/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		check   func(t *testing.T, cfg config)
		wantErr string
	}{
		{
			name: "Missing file uses defaults",
			check: func(t *testing.T, cfg config) {
				assert.Equal(t, defaultPort, cfg.Port)
				assert.Equal(t, services.DefaultSystemPrompt, cfg.SystemPrompt)
				g, ok := cfg.LLM.(*geminiConfig)
				require.True(t, ok)
				assert.Equal(t, services.DefaultGeminiModel, g.Model)
			},
		},
		{
			name: "Gemini with key",
			yaml: `
port: "9000"
llm:
  provider: gemini
  model: gemini-2.5-flash
  apiKey: abc
`,
			check: func(t *testing.T, cfg config) {
				assert.Equal(t, "9000", cfg.Port)
				assert.Equal(t, services.DefaultSystemPrompt, cfg.SystemPrompt)
				g, ok := cfg.LLM.(*geminiConfig)
				require.True(t, ok)
				assert.Equal(t, "gemini-2.5-flash", g.Model)
				assert.Equal(t, "abc", g.APIKey)
			},
		},
		{
			name: "Ollama",
			yaml: `
systemPrompt: Answer in one word.
llm:
  provider: ollama
  model: llama3
  host: http://ollama:11434
`,
			check: func(t *testing.T, cfg config) {
				assert.Equal(t, "Answer in one word.", cfg.SystemPrompt)
				o, ok := cfg.LLM.(*ollamaConfig)
				require.True(t, ok)
				assert.Equal(t, "llama3", o.Model)
				assert.Equal(t, "http://ollama:11434", o.Host)
			},
		},
		{
			name: "Anthropic",
			yaml: `
llm:
  provider: anthropic
  model: claude
  maxTokens: 256
`,
			check: func(t *testing.T, cfg config) {
				a, ok := cfg.LLM.(*anthropicConfig)
				require.True(t, ok)
				assert.Equal(t, 256, a.MaxTokens)
			},
		},
		{
			name: "OpenAI with parameters",
			yaml: `
llm:
  provider: openai
  model: gpt
  baseURL: http://localhost:1234/v1
  parameters:
    temperature: 0.2
    stop: ["\n"]
`,
			check: func(t *testing.T, cfg config) {
				o, ok := cfg.LLM.(*openAIConfig)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:1234/v1", o.BaseURL)
				require.NotNil(t, o.Parameters.Temperature)
				assert.InDelta(t, 0.2, *o.Parameters.Temperature, 0.0001)
				assert.Equal(t, []string{"\n"}, o.Parameters.Stop)
			},
		},
		{
			name: "Environment overrides",
			yaml: `
llm:
  provider: openrouter
  model: some/model
`,
			env: map[string]string{
				"QUICKTHOUGHT_PORT":          "7000",
				"QUICKTHOUGHT_MODEL":         "other/model",
				"QUICKTHOUGHT_API_KEY":       "from-env",
				"QUICKTHOUGHT_SYSTEM_PROMPT": "Be terse.",
			},
			check: func(t *testing.T, cfg config) {
				assert.Equal(t, "7000", cfg.Port)
				assert.Equal(t, "Be terse.", cfg.SystemPrompt)
				o, ok := cfg.LLM.(*openRouterConfig)
				require.True(t, ok)
				assert.Equal(t, "other/model", o.Model)
				assert.Equal(t, "from-env", o.APIKey)
			},
		},
		{
			name:    "Unknown provider",
			yaml:    "llm:\n  provider: mystery\n",
			wantErr: "unknown llm provider",
		},
		{
			name:    "Missing provider",
			yaml:    "llm:\n  model: x\n",
			wantErr: "llm provider is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{
				"QUICKTHOUGHT_PORT", "QUICKTHOUGHT_MODEL", "QUICKTHOUGHT_API_KEY", "QUICKTHOUGHT_SYSTEM_PROMPT",
			} {
				t.Setenv(k, tt.env[k])
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.yaml != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0600))
			}

			cfg, err := loadConfig(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSessionRequiresModel(t *testing.T) {
	cfg := &anthropicConfig{MaxTokens: 10}
	_, err := cfg.session(t.Context(), "", testLogger())
	require.Error(t, err)

	cfg.Model = "claude"
	cfg.MaxTokens = 0
	_, err = cfg.session(t.Context(), "", testLogger())
	require.Error(t, err)

	cfg.MaxTokens = 10
	s, err := cfg.session(t.Context(), "", testLogger())
	require.NoError(t, err)
	assert.IsType(t, services.Anthropic{}, s)
}

func TestLogLevel(t *testing.T) {
	_, err := (&rootOptions{logLevel: "loud"}).logger(os.Stderr)
	require.Error(t, err)

	logger, err := (&rootOptions{logLevel: "debug"}).logger(os.Stderr)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
