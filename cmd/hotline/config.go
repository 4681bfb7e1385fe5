package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"
)

// FileConfig is the on-disk YAML shape of the hotline configuration.
type FileConfig struct {
	// DialogueURL is the websocket endpoint of the dialogue service.
	DialogueURL string `yaml:"dialogue_url"`
	// Voice selects the operator voice offered by the dialogue service.
	Voice string `yaml:"voice"`
	// Instructions overrides the default operating persona when set.
	Instructions string `yaml:"instructions"`

	// DataDir holds the lesson and call record databases.
	DataDir string `yaml:"data_dir"`

	// AudioBackend selects the device backend: "miniaudio" (default) or
	// "portaudio".
	AudioBackend string `yaml:"audio_backend"`

	// DebounceMillis tunes the caller transcript quiet window.
	DebounceMillis int `yaml:"debounce_millis"`
	// LessonCapacity bounds the retained lesson set.
	LessonCapacity int `yaml:"lesson_capacity"`

	Critic CriticConfig `yaml:"critic"`
}

// CriticConfig configures the post-call evaluation.
type CriticConfig struct {
	// Disabled turns the critique loop off entirely.
	Disabled bool `yaml:"disabled"`
	// Model names the chat model used for evaluation.
	Model string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the API key.
	// Defaults to OPENAI_API_KEY.
	APIKeyEnv string `yaml:"api_key_env"`
	// BaseURL overrides the API endpoint, for self-hosted gateways.
	BaseURL string `yaml:"base_url"`
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "hotline", "config.yaml")
	}
	return "hotline.yaml"
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "hotline")
	}
	return ".hotline"
}

// LoadConfig reads the YAML configuration. A missing file is not an error;
// defaults apply and flags can fill in the rest.
func LoadConfig(path string) (FileConfig, error) {
	config := FileConfig{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		config.fillDefaults()
		return config, nil
	} else if err != nil {
		return config, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}

	config.fillDefaults()
	return config, nil
}

func (c *FileConfig) fillDefaults() {
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.AudioBackend == "" {
		c.AudioBackend = "miniaudio"
	}
	if c.Critic.APIKeyEnv == "" {
		c.Critic.APIKeyEnv = "OPENAI_API_KEY"
	}
}

// DebounceWindow converts the configured quiet window to a duration, zero
// when unset so the session default applies.
func (c FileConfig) DebounceWindow() time.Duration {
	if c.DebounceMillis <= 0 {
		return 0
	}
	return time.Duration(c.DebounceMillis) * time.Millisecond
}
