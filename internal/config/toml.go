// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test      TestConfig      `toml:"test"`
	Speech    SpeechConfig    `toml:"speech"`
	Generator GeneratorConfig `toml:"generator"`
	Log       LogConfig       `toml:"log"`
}

// TestConfig maps reading test defaults.
type TestConfig struct {
	Passage   *string `toml:"passage"`
	TimeLimit *int    `toml:"time-limit"`
}

// SpeechConfig maps the external recognizer settings.
type SpeechConfig struct {
	Command *string `toml:"command"`
	Lang    *string `toml:"language"`
}

// GeneratorConfig maps practice passage generation settings.
type GeneratorConfig struct {
	WordList    *string `toml:"wordlist"`
	Words       *int    `toml:"words"`
	SentenceLen *int    `toml:"sentence"`
}

// LogConfig maps runtime log settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
