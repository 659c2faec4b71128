package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// StoriesConfig holds dynamic story definitions (read/write).
type StoriesConfig struct {
	Stories map[string]StoryEntry `yaml:"stories,omitempty"`
}

// StoryEntry holds the registry record for one tracked story.
type StoryEntry struct {
	Title     string `yaml:"title"`
	SourceURL string `yaml:"source_url,omitempty"`
	Chapters  int    `yaml:"chapters,omitempty"`
}

// LoadStories loads the story registry from the .novelstate directory.
func LoadStories(basePath string) (*StoriesConfig, error) {
	storiesFile := filepath.Join(basePath, DefaultConfigDir, DefaultStoriesFile)

	data, err := os.ReadFile(storiesFile)
	if os.IsNotExist(err) {
		return &StoriesConfig{Stories: make(map[string]StoryEntry)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stories file: %w", err)
	}

	var cfg StoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing stories file: %w", err)
	}

	if cfg.Stories == nil {
		cfg.Stories = make(map[string]StoryEntry)
	}

	return &cfg, nil
}

// Save writes the story registry to the stories file.
func (s *StoriesConfig) Save(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	storiesFile := filepath.Join(configDir, DefaultStoriesFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling stories config: %w", err)
	}

	if err := os.WriteFile(storiesFile, data, 0600); err != nil {
		return fmt.Errorf("writing stories file: %w", err)
	}

	return nil
}

// Add registers a story under the given ID.
func (s *StoriesConfig) Add(id string, entry StoryEntry) {
	if s.Stories == nil {
		s.Stories = make(map[string]StoryEntry)
	}
	s.Stories[id] = entry
}

// Remove deletes a story from the registry.
func (s *StoriesConfig) Remove(id string) {
	if s.Stories != nil {
		delete(s.Stories, id)
	}
}

// Get returns the registry entry for a story ID.
func (s *StoriesConfig) Get(id string) (*StoryEntry, error) {
	if len(s.Stories) == 0 {
		return nil, errors.New("no stories registered (run 'novelstate stories add' first)")
	}

	entry, ok := s.Stories[id]
	if !ok {
		return nil, fmt.Errorf("story %q not found (known: %s)", id, strings.Join(s.IDs(), ", "))
	}
	return &entry, nil
}

// IDs returns all registered story IDs, sorted.
func (s *StoriesConfig) IDs() []string {
	ids := make([]string, 0, len(s.Stories))
	for id := range s.Stories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
