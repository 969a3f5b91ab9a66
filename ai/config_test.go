package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:11434/v1", cfg.Host)
	assert.Equal(t, 5, cfg.MaxToolRounds)
}

func TestNewConfigAppliesOptions(t *testing.T) {
	cfg := NewConfig(
		WithHost("https://api.mistral.ai"),
		WithAPIKey("secret"),
		WithChatModel("mistral-small-latest"),
		WithEmbeddingModel("mistral-embed"),
		WithMaxToolRounds(3),
	)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.Host)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "mistral-small-latest", cfg.ChatModel)
	assert.Equal(t, "mistral-embed", cfg.EmbeddingModel)
	assert.Equal(t, 3, cfg.MaxToolRounds)
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash first", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"empty host untouched", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: tt.host}
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.Host)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing chat model", func(t *testing.T) {
		cfg := NewConfig(WithChatModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero tool rounds", func(t *testing.T) {
		cfg := NewConfig(WithMaxToolRounds(0))
		assert.Error(t, cfg.Validate())
	})
}

func TestApplyGenerateOptions(t *testing.T) {
	runner := ToolRunner(nil)
	opts := ApplyGenerateOptions(
		WithSystemPrompt("you are helpful"),
		WithJSONOutput(),
		WithImageURL("https://example.com/city.jpg"),
		WithTools(runner, ToolDefinition{Name: "getWeatherByCity"}),
	)

	assert.Equal(t, "you are helpful", opts.SystemPrompt)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "https://example.com/city.jpg", opts.ImageURL)
	require.Len(t, opts.Tools, 1)
	assert.Equal(t, "getWeatherByCity", opts.Tools[0].Name)
}
