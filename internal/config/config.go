// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for ladle.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/ladle/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// Provider identifies a chat backend. Valid values are ProviderCloud and
// ProviderLocal.
type Provider = string

const (
	// ProviderCloud routes chat requests to an OpenAI-compatible HTTP API.
	ProviderCloud = "cloud"
	// ProviderLocal routes chat requests to a local Ollama server.
	ProviderLocal = "local"

	// DefaultCloudBaseURL is the OpenAI API endpoint.
	DefaultCloudBaseURL = "https://api.openai.com/v1"
	// DefaultLMStudioBaseURL is the LM Studio local server endpoint. LM Studio
	// speaks the OpenAI wire format, so it is configured as a cloud provider
	// with an empty API key.
	DefaultLMStudioBaseURL = "http://localhost:1234/v1"
	// DefaultLocalBaseURL is the Ollama server endpoint.
	DefaultLocalBaseURL = "http://localhost:11434"

	// DefaultCloudModel is used when no cloud model has been configured.
	DefaultCloudModel = "gpt-3.5-turbo"

	// DefaultTemperature balances creativity against instruction-following
	// for recipe generation.
	DefaultTemperature = 0.7
	// DefaultMaxTokens bounds a single completion. Recipes with long
	// instruction lists fit comfortably under this.
	DefaultMaxTokens = 2000

	configDirName  = ".ladle"
	configFileName = "config.toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ladle configuration.
type Config struct {
	// Version of the config schema
	Version string `toml:"version" json:"version"`

	// Provider selects the backend that answers chat requests: "cloud" or "local"
	Provider string `toml:"provider" json:"provider"`

	// Cloud (OpenAI-compatible) configuration
	Cloud CloudConfig `toml:"cloud" json:"cloud"`

	// Local (Ollama) configuration
	Local LocalConfig `toml:"local" json:"local"`

	// Generation parameters shared by both providers
	Generation GenerationConfig `toml:"generation" json:"generation"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Recipe box and export configuration
	Recipes RecipesConfig `toml:"recipes" json:"recipes"`
}

// CloudConfig contains settings for the OpenAI-compatible provider.
type CloudConfig struct {
	// APIKey authenticates requests. May be empty for local
	// OpenAI-compatible servers such as LM Studio.
	APIKey string `toml:"api_key" json:"api_key"`
	// BaseURL is the API root, e.g. "https://api.openai.com/v1"
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is the model identifier sent with each request
	Model string `toml:"model" json:"model"`
}

// LocalConfig contains settings for the Ollama provider.
type LocalConfig struct {
	// BaseURL is the Ollama server root, e.g. "http://localhost:11434"
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is the Ollama model name. Empty until the user picks one,
	// at which point the chat UI prompts with the installed models.
	Model string `toml:"model" json:"model"`
}

// GenerationConfig contains sampling parameters for chat completions.
type GenerationConfig struct {
	// Temperature in [0, 2]. Higher values produce more varied recipes.
	Temperature float64 `toml:"temperature" json:"temperature"`
	// MaxTokens caps the length of a single completion
	MaxTokens int `toml:"max_tokens" json:"max_tokens"`
}

// UIConfig contains terminal interface settings.
type UIConfig struct {
	// Theme selects the color palette: "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowTips renders the tips section of recipe cards
	ShowTips bool `toml:"show_tips" json:"show_tips"`
	// CompactMode collapses recipe cards to title and tags only
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// RecipesConfig contains recipe box and export settings.
type RecipesConfig struct {
	// ExportDir is where exported recipe files are written.
	// Empty means the current working directory.
	ExportDir string `toml:"export_dir" json:"export_dir"`
	// MaxSaved caps the number of recipes kept in the recipe box.
	// Zero means unlimited.
	MaxSaved int `toml:"max_saved" json:"max_saved"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version:  "1.0",
		Provider: ProviderCloud,
		Cloud: CloudConfig{
			APIKey:  "",
			BaseURL: DefaultCloudBaseURL,
			Model:   DefaultCloudModel,
		},
		Local: LocalConfig{
			BaseURL: DefaultLocalBaseURL,
			Model:   "",
		},
		Generation: GenerationConfig{
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		UI: UIConfig{
			Theme:       "auto",
			ShowTips:    true,
			CompactMode: false,
		},
		Recipes: RecipesConfig{
			ExportDir: "",
			MaxSaved:  0,
		},
	}
}

// fillDefaults replaces zero values with defaults. Bools are left alone;
// LoadTOML decodes over a Default() so absent keys keep their default.
func (c *Config) fillDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Provider == "" {
		c.Provider = ProviderCloud
	}
	if c.Cloud.BaseURL == "" {
		c.Cloud.BaseURL = DefaultCloudBaseURL
	}
	if c.Cloud.Model == "" {
		c.Cloud.Model = DefaultCloudModel
	}
	if c.Local.BaseURL == "" {
		c.Local.BaseURL = DefaultLocalBaseURL
	}
	if c.Generation.Temperature == 0 {
		c.Generation.Temperature = DefaultTemperature
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = DefaultMaxTokens
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the ladle configuration directory (~/.ladle).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// RecipeBoxPath returns the path to the recipe box database.
func RecipeBoxPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "recipes.db"), nil
}

// ConversationsDir returns the directory where conversations are stored.
func ConversationsDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "conversations"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// ensureSecurePermissions tightens the config file mode to 0600.
// The file can hold an API key, so group/other access is stripped.
func ensureSecurePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o077 != 0 {
		_ = os.Chmod(path, 0o600)
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the config from ~/.ladle/config.toml, falling back to defaults
// when the file does not exist. Environment overrides are applied on top,
// legacy provider names are migrated, and the result is validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.Migrate()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads the config from an explicit TOML file path.
func LoadFromPath(path string) (*Config, error) {
	ensureSecurePermissions(path)

	cfg, err := LoadTOML(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.Migrate()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTOML parses a TOML config file. Keys absent from the file keep their
// default values.
func LoadTOML(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the config to ~/.ladle/config.toml.
func (c *Config) Save() error {
	if _, err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTOML(path)
}

// SaveTOML writes the config to the given path with mode 0600.
// The write is atomic so a crash cannot leave a half-written file.
func (c *Config) SaveTOML(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# ladle configuration file\n")
	buf.WriteString("# Edit freely; omitted keys fall back to built-in defaults.\n\n")

	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0o600, 0o700); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies LADLE_* environment variables on top of the
// loaded configuration.
//
// Supported variables:
//   - LADLE_PROVIDER
//   - LADLE_API_KEY
//   - LADLE_CLOUD_BASE_URL
//   - LADLE_CLOUD_MODEL
//   - LADLE_LOCAL_BASE_URL
//   - LADLE_LOCAL_MODEL
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LADLE_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("LADLE_API_KEY"); v != "" {
		c.Cloud.APIKey = v
	}
	if v := os.Getenv("LADLE_CLOUD_BASE_URL"); v != "" {
		c.Cloud.BaseURL = v
	}
	if v := os.Getenv("LADLE_CLOUD_MODEL"); v != "" {
		c.Cloud.Model = v
	}
	if v := os.Getenv("LADLE_LOCAL_BASE_URL"); v != "" {
		c.Local.BaseURL = v
	}
	if v := os.Getenv("LADLE_LOCAL_MODEL"); v != "" {
		c.Local.Model = v
	}
}

// =============================================================================
// MIGRATION
// =============================================================================

// Migrate normalizes legacy provider names to the current two-provider
// scheme. Older configs named the concrete service instead of the provider
// kind.
func (c *Config) Migrate() {
	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case "openai", "lmstudio", "lm_studio", "lm-studio":
		c.Provider = ProviderCloud
	case "ollama":
		c.Provider = ProviderLocal
	case "":
		// fillDefaults handles the empty case.
	default:
		c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates all validation failures for a config.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks the config for invalid values. It returns a ValidateErrors
// listing every problem found, or nil when the config is valid.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Provider != ProviderCloud && c.Provider != ProviderLocal {
		errs = append(errs, ValidationError{
			Field:   "provider",
			Message: fmt.Sprintf("must be %q or %q, got %q", ProviderCloud, ProviderLocal, c.Provider),
		})
	}

	if msg := validateBaseURL(c.Cloud.BaseURL); msg != "" {
		errs = append(errs, ValidationError{Field: "cloud.base_url", Message: msg})
	}
	if msg := validateBaseURL(c.Local.BaseURL); msg != "" {
		errs = append(errs, ValidationError{Field: "local.base_url", Message: msg})
	}

	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		errs = append(errs, ValidationError{
			Field:   "generation.temperature",
			Message: fmt.Sprintf("must be between 0 and 2, got %g", c.Generation.Temperature),
		})
	}
	if c.Generation.MaxTokens < 1 || c.Generation.MaxTokens > 100000 {
		errs = append(errs, ValidationError{
			Field:   "generation.max_tokens",
			Message: fmt.Sprintf("must be between 1 and 100000, got %d", c.Generation.MaxTokens),
		})
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be dark, light, or auto, got %q", c.UI.Theme),
		})
	}

	if c.Recipes.MaxSaved < 0 {
		errs = append(errs, ValidationError{
			Field:   "recipes.max_saved",
			Message: fmt.Sprintf("must not be negative, got %d", c.Recipes.MaxSaved),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateBaseURL(raw string) string {
	if raw == "" {
		return "must not be empty"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "URL is missing a host"
	}
	return ""
}

// =============================================================================
// DOT-NOTATION ACCESS
// =============================================================================

// Get returns the value at a dot-notation key, e.g. "cloud.base_url".
func (c *Config) Get(key string) (interface{}, error) {
	v := reflect.ValueOf(c).Elem()
	parts := strings.Split(key, ".")

	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
		field := fieldByTOMLName(v, part)
		if !field.IsValid() {
			return nil, fmt.Errorf("unknown config key: %s", key)
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		v = field
	}
	return nil, fmt.Errorf("unknown config key: %s", key)
}

// Set assigns a string value to a dot-notation key, converting it to the
// field's type. The config is not re-validated here; callers should call
// Validate after a batch of sets.
func (c *Config) Set(key, value string) error {
	v := reflect.ValueOf(c).Elem()
	parts := strings.Split(key, ".")

	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return fmt.Errorf("unknown config key: %s", key)
		}
		field := fieldByTOMLName(v, part)
		if !field.IsValid() {
			return fmt.Errorf("unknown config key: %s", key)
		}
		if i == len(parts)-1 {
			return setFieldValue(field, key, value)
		}
		v = field
	}
	return fmt.Errorf("unknown config key: %s", key)
}

// fieldByTOMLName finds a struct field whose toml tag or normalized name
// matches the given key segment.
func fieldByTOMLName(v reflect.Value, name string) reflect.Value {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i)
		}
	}
	// Fall back to case-insensitive field name matching so both
	// "cloud.api_key" and "Cloud.APIKey" resolve.
	normalized := normalizeFieldName(name)
	return v.FieldByNameFunc(func(fieldName string) bool {
		return strings.EqualFold(fieldName, normalized)
	})
}

// normalizeFieldName converts snake_case or kebab-case to CamelCase.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// setFieldValue converts a string to the field's type and assigns it.
func setFieldValue(field reflect.Value, key, value string) error {
	if !field.CanSet() {
		return fmt.Errorf("config key is not settable: %s", key)
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: expected integer, got %q", key, value)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: expected number, got %q", key, value)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: expected true or false, got %q", key, value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: unsupported field type %s", key, field.Kind())
	}
	return nil
}

// GetAllKeys returns every settable dot-notation key, in declaration order.
func (c *Config) GetAllKeys() []string {
	var keys []string
	collectKeys(reflect.ValueOf(c).Elem(), "", &keys)
	return keys
}

func collectKeys(v reflect.Value, prefix string, keys *[]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("toml")
		if tag == "" || tag == "-" {
			continue
		}
		name := tag
		if prefix != "" {
			name = prefix + "." + tag
		}
		if v.Field(i).Kind() == reflect.Struct {
			collectKeys(v.Field(i), name, keys)
			continue
		}
		*keys = append(*keys, name)
	}
}

// =============================================================================
// UTILITY METHODS
// =============================================================================

// Clone returns an independent copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ActiveModel returns the configured model for the active provider.
func (c *Config) ActiveModel() string {
	if c.Provider == ProviderLocal {
		return c.Local.Model
	}
	return c.Cloud.Model
}

// SetActiveModel assigns the model for the active provider.
func (c *Config) SetActiveModel(model string) {
	if c.Provider == ProviderLocal {
		c.Local.Model = model
		return
	}
	c.Cloud.Model = model
}

// ActiveBaseURL returns the base URL for the active provider.
func (c *Config) ActiveBaseURL() string {
	if c.Provider == ProviderLocal {
		return c.Local.BaseURL
	}
	return c.Cloud.BaseURL
}

// String renders the config as TOML with the API key redacted.
func (c *Config) String() string {
	clone := c.Clone()
	if clone.Cloud.APIKey != "" {
		clone.Cloud.APIKey = "[REDACTED]"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(clone); err != nil {
		return fmt.Sprintf("Config(version=%s, provider=%s)", c.Version, c.Provider)
	}
	return buf.String()
}

// =============================================================================
// GLOBAL CONFIGURATION
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide config, loading it on first access.
// Load failures fall back to defaults so callers always get a usable config.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})

	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// ReloadGlobal re-reads the config from disk and replaces the global.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
	return nil
}

// SetGlobal replaces the global config. Intended for flag overrides and tests.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global config so the next Global() call
// reloads from scratch.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
