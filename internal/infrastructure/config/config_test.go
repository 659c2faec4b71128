package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "openai", cfg.Embedder.Provider)
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
	assert.Equal(t, 6334, cfg.Qdrant.Port)
	assert.Equal(t, 30, cfg.Fetcher.TimeoutSeconds)
}

func TestLoad_MissingConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_MergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	configDir := filepath.Join(dir, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := `llm:
  provider: openai
  model: gpt-4o-mini
sqlite:
  path: /tmp/custom.db
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, DefaultConfigFile), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "/tmp/custom.db", cfg.SQLite.Path)
	// Unspecified sections keep defaults.
	assert.Equal(t, "localhost", cfg.Qdrant.Host)
}

func TestWriteDefaultThenLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteDefault(dir))
	assert.True(t, Exists(dir))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.LLM.Provider)

	// Writing twice is refused.
	assert.Error(t, WriteDefault(dir))
}

func TestSanitizeStoryID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Phàm Nhân Tu Tiên", "phm_nhn_tu_tin"},
		{"My-Great Novel", "my_great_novel"},
		{"  weird -- name!! ", "weird_name"},
		{"___", "story"},
		{"", "story"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeStoryID(tt.input), "input %q", tt.input)
	}
}

func TestSQLitePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/base", DefaultConfigDir, "novelstate.db"), cfg.SQLitePath("/base"))

	cfg.SQLite.Path = "/custom/path.db"
	assert.Equal(t, "/custom/path.db", cfg.SQLitePath("/base"))
}

func TestStoriesRegistry_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	stories, err := LoadStories(dir)
	require.NoError(t, err)
	assert.Empty(t, stories.Stories)

	stories.Add("pham_nhan", StoryEntry{Title: "Phàm Nhân Tu Tiên", SourceURL: "https://example.com/pham-nhan", Chapters: 2446})
	stories.Add("dau_pha", StoryEntry{Title: "Đấu Phá Thương Khung"})
	require.NoError(t, stories.Save(dir))

	loaded, err := LoadStories(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"dau_pha", "pham_nhan"}, loaded.IDs())

	entry, err := loaded.Get("pham_nhan")
	require.NoError(t, err)
	assert.Equal(t, 2446, entry.Chapters)

	_, err = loaded.Get("unknown")
	require.Error(t, err)

	loaded.Remove("dau_pha")
	assert.Equal(t, []string{"pham_nhan"}, loaded.IDs())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oai-key")
	t.Setenv("QDRANT_API_KEY", "qd-key")

	cfg := Default()
	cfg.applyEnvOverrides()

	assert.Equal(t, "gem-key", cfg.LLM.APIKey, "gemini provider takes the gemini key")
	assert.Equal(t, "oai-key", cfg.Embedder.APIKey)
	assert.Equal(t, "qd-key", cfg.Qdrant.APIKey)

	// Explicit config wins over the environment.
	cfg2 := Default()
	cfg2.LLM.APIKey = "explicit"
	cfg2.applyEnvOverrides()
	assert.Equal(t, "explicit", cfg2.LLM.APIKey)
}
