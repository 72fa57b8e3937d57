// Package settings loads the application-wide daemon configuration: where
// profiles live, which one starts active, log verbosity, the dispatch
// latency threshold, and the diagnostics bind address. Unlike a Profile
// (hot-reloaded, MIDI-device scoped) these settings are read once at
// startup, in the teacher's path-probing/default-bootstrap style.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the daemon-wide configuration document.
type Settings struct {
	ProfilesDir      string        `yaml:"profilesDir"`
	DefaultProfile   string        `yaml:"defaultProfile"`
	LogLevel         string        `yaml:"logLevel"`
	LatencyThreshold time.Duration `yaml:"latencyThreshold"`
	DiagAddr         string        `yaml:"diagAddr"`
}

// Default returns the out-of-the-box settings used when no config file
// is found yet.
func Default() Settings {
	return Settings{
		ProfilesDir:      "profiles",
		DefaultProfile:   "default.json",
		LogLevel:         "info",
		LatencyThreshold: 5 * time.Millisecond,
		DiagAddr:         "127.0.0.1:6480",
	}
}

// Load searches the usual paths, in order: ./midifluxd.yaml, then
// ~/.config/midifluxd/config.yaml. If neither exists, it bootstraps the
// defaults into the home-directory path and returns them.
func Load() (Settings, string, error) {
	homeDir, _ := os.UserHomeDir()
	paths := []string{
		"./midifluxd.yaml",
		filepath.Join(homeDir, ".config", "midifluxd", "config.yaml"),
	}

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var s Settings
		if err := yaml.Unmarshal(content, &s); err != nil {
			return Settings{}, path, fmt.Errorf("settings: parsing %s: %w", path, err)
		}
		applyDefaults(&s)
		return s, path, nil
	}

	s := Default()
	configPath := paths[1]
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return s, "", fmt.Errorf("settings: creating %s: %w", configDir, err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return s, "", fmt.Errorf("settings: marshaling defaults: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return s, "", fmt.Errorf("settings: writing %s: %w", configPath, err)
	}
	return s, configPath, nil
}

func applyDefaults(s *Settings) {
	d := Default()
	if s.ProfilesDir == "" {
		s.ProfilesDir = d.ProfilesDir
	}
	if s.DefaultProfile == "" {
		s.DefaultProfile = d.DefaultProfile
	}
	if s.LogLevel == "" {
		s.LogLevel = d.LogLevel
	}
	if s.LatencyThreshold == 0 {
		s.LatencyThreshold = d.LatencyThreshold
	}
	if s.DiagAddr == "" {
		s.DiagAddr = d.DiagAddr
	}
}

// ProfilePath resolves the configured default profile against ProfilesDir.
func (s Settings) ProfilePath() string {
	if filepath.IsAbs(s.DefaultProfile) {
		return s.DefaultProfile
	}
	return filepath.Join(s.ProfilesDir, s.DefaultProfile)
}
