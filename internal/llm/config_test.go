package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTimeout, config.CallTimeout())
}

func TestDefaultConfigFor(t *testing.T) {
	openai := DefaultConfigFor(ProviderOpenAI)
	assert.Equal(t, ProviderOpenAI, openai.Provider)
	assert.Equal(t, DefaultOpenAIBaseURL, openai.BaseURL)
	assert.Equal(t, "gpt-4o-mini", openai.GetModel(TierStandard))

	assert.Equal(t, ProviderGemini, DefaultConfigFor("other").Provider)
}

func TestParseProvider(t *testing.T) {
	tests := map[string]Provider{
		"openai":     ProviderOpenAI,
		" OpenAI ":   ProviderOpenAI,
		"openrouter": ProviderOpenAI,
		"gemini":     ProviderGemini,
		"":           ProviderGemini,
		"anthropic":  ProviderGemini,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseProvider(in), in)
	}
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.Timeout, newConfig.Timeout)
}

func TestWithAllModels(t *testing.T) {
	config := DefaultOpenAIConfig()

	same := config.WithAllModels("")
	assert.Equal(t, config.Models, same.Models)

	custom := config.WithAllModels("llama-3.1-70b")
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		assert.Equal(t, "llama-3.1-70b", custom.GetModel(tier))
	}
	assert.Equal(t, "gpt-4o", config.GetModel(TierAdvanced))
}

func TestCallTimeout(t *testing.T) {
	var nilConfig *Config
	assert.Equal(t, DefaultTimeout, nilConfig.CallTimeout())
	assert.Equal(t, DefaultTimeout, (&Config{}).CallTimeout())
	assert.Equal(t, 5*time.Second, (&Config{Timeout: 5 * time.Second}).CallTimeout())
}
