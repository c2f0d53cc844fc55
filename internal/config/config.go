/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GameConfig struct {
	// Path is the root of the game script corpus.
	Path string `yaml:"path"`
	// Extension filters which files count as scripts (default ".rpy").
	Extension string `yaml:"extension"`
}

type SynthesisConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	OutputDir  string `yaml:"output_dir"`
	SampleRate int    `yaml:"sample_rate"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type ReviewConfig struct {
	// SQLitePath is the local review database. Empty selects the default
	// location under the user config dir.
	SQLitePath string `yaml:"sqlite_path"`
	// PostgresDSN, when set, enables the shared team review store.
	PostgresDSN string `yaml:"postgres_dsn"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	Game          GameConfig      `yaml:"game"`
	Synthesis     SynthesisConfig `yaml:"synthesis"`
	Review        ReviewConfig    `yaml:"review"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Game:          GameConfig{Path: "", Extension: ".rpy"},
		Synthesis:     SynthesisConfig{BaseURL: "http://localhost:8571", TimeoutMs: 120000, OutputDir: "output/voice", SampleRate: 24000},
		Review:        ReviewConfig{},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides. GAME_PATH is kept without a prefix for
// compatibility with the modding scripts this tool grew out of.
const (
	EnvGamePath       = "GAME_PATH"
	EnvGameExtension  = "RVX_GAME_EXT"
	EnvSynthURL       = "RVX_SYNTH_URL"
	EnvSynthTimeoutMs = "RVX_SYNTH_TIMEOUT_MS"
	EnvSynthOutputDir = "RVX_OUTPUT_DIR"
	EnvReviewSQLite   = "RVX_REVIEW_DB"
	EnvReviewPgDSN    = "RVX_PG_DSN"
	EnvLogLevel       = "RVX_LOG_LEVEL"
	EnvLogFormat      = "RVX_LOG_FORMAT"
	EnvLogSource      = "RVX_LOG_SOURCE"
	EnvLogFile        = "RVX_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "renvox"
	keyringToken   = "synth_token"
)

// TokenStore abstracts the keyring, so we can stub in tests.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

var tokenStore TokenStore = osKeyring{}

type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// SetTokenStore replaces the keyring backend; returns the previous one.
func SetTokenStore(ts TokenStore) TokenStore {
	old := tokenStore
	tokenStore = ts
	return old
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "renvox")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "renvox")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "renvox")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The synthesis token is loaded from the OS keyring and
// returned separately so it never touches the YAML file.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS keyring
// (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Game.Path) != "" {
		dst.Game.Path = strings.TrimSpace(src.Game.Path)
	}
	if strings.TrimSpace(src.Game.Extension) != "" {
		dst.Game.Extension = strings.TrimSpace(src.Game.Extension)
	}
	if src.Synthesis.BaseURL != "" {
		dst.Synthesis.BaseURL = src.Synthesis.BaseURL
	}
	if src.Synthesis.TimeoutMs != 0 {
		dst.Synthesis.TimeoutMs = src.Synthesis.TimeoutMs
	}
	if src.Synthesis.OutputDir != "" {
		dst.Synthesis.OutputDir = src.Synthesis.OutputDir
	}
	if src.Synthesis.SampleRate != 0 {
		dst.Synthesis.SampleRate = src.Synthesis.SampleRate
	}
	if src.Review.SQLitePath != "" {
		dst.Review.SQLitePath = src.Review.SQLitePath
	}
	if src.Review.PostgresDSN != "" {
		dst.Review.PostgresDSN = src.Review.PostgresDSN
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvGamePath)); v != "" {
		cfg.Game.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGameExtension)); v != "" {
		cfg.Game.Extension = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSynthURL)); v != "" {
		cfg.Synthesis.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSynthTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Synthesis.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSynthOutputDir)); v != "" {
		cfg.Synthesis.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReviewSQLite)); v != "" {
		cfg.Review.SQLitePath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReviewPgDSN)); v != "" {
		cfg.Review.PostgresDSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
