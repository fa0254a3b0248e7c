package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"api_key": "test-key",
		"qdrant_url": "http://qdrant:6333",
		"qdrant_collection": "resume-test",
		"search_limit": 20,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "http://qdrant:6333", cfg.QdrantURL)
	assert.Equal(t, "resume-test", cfg.QdrantCollection)
	assert.Equal(t, 20, cfg.SearchLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("QDRANT_URL", "http://env-qdrant:6333")
	t.Setenv("RESUME_SEARCH_LIMIT", "7")

	cfg := FromEnv()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "http://env-qdrant:6333", cfg.QdrantURL)
	assert.Equal(t, 7, cfg.SearchLimit)
}

func TestFromEnv_IgnoresBadSearchLimit(t *testing.T) {
	t.Setenv("RESUME_SEARCH_LIMIT", "many")

	cfg := FromEnv()

	assert.Equal(t, 0, cfg.SearchLimit)
}

func TestValidate_RequiresAPIKey(t *testing.T) {
	cfg := Defaults()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestValidate_RequiresQdrantURL(t *testing.T) {
	cfg := Config{APIKey: "key"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Qdrant URL")
}

func TestValidate_RejectsNegativeSearchLimit(t *testing.T) {
	cfg := Config{APIKey: "key", QdrantURL: "http://localhost:6333", SearchLimit: -1}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search_limit")
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{APIKey: "key"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.NoError(t, merged.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{APIKey: "key", SearchLimit: 5}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "key", merged.APIKey)
	assert.Equal(t, 5, merged.SearchLimit)
	assert.Equal(t, "http://localhost:6333", merged.QdrantURL)
	assert.Equal(t, "resume", merged.QdrantCollection)
	assert.Equal(t, ":8080", merged.Addr)
	assert.Equal(t, 10*time.Second, merged.ShutdownGrace())
}

func TestMergeWithDefaults_FileValuesWin(t *testing.T) {
	cfg := Config{QdrantURL: "http://file-qdrant:6333"}
	defaults := Defaults()
	defaults.APIKey = "env-key"

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "http://file-qdrant:6333", merged.QdrantURL)
	assert.Equal(t, "env-key", merged.APIKey)
}
