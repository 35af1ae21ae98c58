package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "tavily", cfg.Search.Provider)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 500, cfg.LLM.MaxNewTokens)
	assert.Equal(t, VariantFactual, cfg.Pipeline.Variant)
	assert.Equal(t, "generated_text", cfg.Pipeline.StructuredField)
	assert.Equal(t, DefaultReferenceAnswer, cfg.Scoring.ReferenceAnswer)
}

func TestValidateMissingSearchCredential(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredential)

	cfg.Search.TavilyAPIKey = "tvly-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateProviderSpecificCredential(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Provider = "brave"
	cfg.Search.TavilyAPIKey = "tvly-test"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredential)

	cfg.Search.BraveAPIKey = "brave-test"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.TavilyAPIKey = "tvly-test"

	cfg.Search.Provider = "altavista"
	assert.Error(t, cfg.Validate())

	cfg.Search.Provider = "tavily"
	cfg.LLM.Provider = "markov"
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TAVILY_API_KEY", "from-env")
	t.Setenv("HUGGINGFACEHUB_API_KEY", "hf-env")
	t.Setenv("PIPELINE_VARIANT", VariantConcise)

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "from-env", cfg.Search.TavilyAPIKey)
	assert.Equal(t, "hf-env", cfg.LLM.HuggingFaceKey)
	assert.Equal(t, VariantConcise, cfg.Pipeline.Variant)
}

func TestResolveVariant(t *testing.T) {
	cfg := DefaultConfig()

	v, err := cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Equal(t, FilterStrict, v.FilterPolicy)
	assert.Equal(t, "HuggingFaceH4/zephyr-7b-beta", v.Model)
	assert.Equal(t, DefaultCorruptionPatterns, v.CorruptionPatterns)

	cfg.Pipeline.Variant = VariantConcise
	v, err = cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Equal(t, FilterNonBlank, v.FilterPolicy)
	assert.Equal(t, "tiiuae/falcon-7b-instruct", v.Model)
	assert.Empty(t, v.CorruptionPatterns)
}

func TestResolveVariantOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Model = "mistralai/Mistral-7B-Instruct-v0.3"
	cfg.Pipeline.FilterPolicy = FilterNonBlank
	cfg.Pipeline.CorruptionPatterns = []string{"<unk>"}
	cfg.Pipeline.PromptTemplate = "Answer {{.query}} from {{.research_data}}"

	v, err := cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Equal(t, "mistralai/Mistral-7B-Instruct-v0.3", v.Model)
	assert.Equal(t, FilterNonBlank, v.FilterPolicy)
	assert.Equal(t, []string{"<unk>"}, v.CorruptionPatterns)
	assert.Equal(t, "Answer {{.query}} from {{.research_data}}", v.PromptTemplate)

	// overrides must not leak into the shared table
	assert.Equal(t, DefaultCorruptionPatterns, Variants[VariantFactual].CorruptionPatterns)
}

func TestResolveVariantErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.Variant = "poetic"
	_, err := cfg.ResolveVariant()
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Pipeline.FilterPolicy = "lenient"
	_, err = cfg.ResolveVariant()
	assert.Error(t, err)
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Search.Provider = "serpapi"
	cfg.Search.SerpAPIKey = "secret"
	cfg.Pipeline.Variant = VariantStructured
	require.NoError(t, SaveConfig(cfg, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "serpapi", loaded.Search.Provider)
	assert.Equal(t, VariantStructured, loaded.Pipeline.Variant)
	assert.Empty(t, loaded.Search.SerpAPIKey)
	assert.Equal(t, "secret", cfg.Search.SerpAPIKey, "caller's config must keep its key")
}

func TestLoadConfigKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"search":{"provider":"brave","max_results":3}}`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "brave", cfg.Search.Provider)
	assert.Equal(t, 3, cfg.Search.MaxResults)
	assert.Equal(t, 500, cfg.LLM.MaxNewTokens)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RESEARCH_AGENT_TEST_KEY=dotenv-value\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("RESEARCH_AGENT_TEST_KEY") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "dotenv-value", os.Getenv("RESEARCH_AGENT_TEST_KEY"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("RESEARCH_AGENT_CONFIG", "")
	assert.Equal(t, defaultConfigPath, GetConfigPath())

	t.Setenv("RESEARCH_AGENT_CONFIG", "/etc/research.json")
	assert.Equal(t, "/etc/research.json", GetConfigPath())
}
