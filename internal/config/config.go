// Package config provides configuration management for the PDF translation
// pipeline: remote model credentials, the supported-language allow-list, and
// fail-fast validation at startup.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pdf-translator/internal/logger"
	"pdf-translator/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "pdf-translator-config.json"
	// EnvGeminiAPIKey is the environment variable name for the Gemini API key
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	// EnvOpenAIAPIKey is the environment variable name for the OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for the OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// DefaultGeminiModel is the default Gemini model
	DefaultGeminiModel = "gemini-1.5-pro"
	// DefaultOpenAIModel is the default OpenAI model
	DefaultOpenAIModel = "gpt-4o"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultConcurrency is the default number of pages translated in parallel
	DefaultConcurrency = 3
	// DefaultMaxRetries is the default retry count for remote model calls
	DefaultMaxRetries = 2
)

// Manager manages application configuration
type Manager struct {
	configPath string
	config     *types.Config
	languages  map[string]string // ISO code -> display name
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's home directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, types.NewPipelineError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "pdf-translator", DefaultConfigFileName)
	}

	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
		languages:  defaultLanguages(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		Provider:      types.ProviderGemini,
		GeminiModel:   DefaultGeminiModel,
		OpenAIModel:   DefaultOpenAIModel,
		OpenAIBaseURL: DefaultOpenAIBaseURL,
		Concurrency:   DefaultConcurrency,
		MaxRetries:    DefaultMaxRetries,
	}
}

// Load loads configuration from the config file. A missing file is not an
// error; defaults are used. Environment variables fill in credentials the
// file does not set.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return types.NewPipelineError(types.ErrConfig, "failed to read config file", err)
		}
		logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
		} else {
			m.config = config
		}
	}

	m.applyDefaults()
	m.applyEnv()

	if m.config.LanguagesFile != "" {
		if err := m.loadLanguagesFile(m.config.LanguagesFile); err != nil {
			return err
		}
	}

	logger.Info("configuration loaded",
		logger.String("provider", string(m.config.Provider)),
		logger.Int("languages", len(m.languages)))
	return nil
}

// applyDefaults fills in zero-valued fields.
func (m *Manager) applyDefaults() {
	if m.config.Provider == "" {
		m.config.Provider = types.ProviderGemini
	}
	if m.config.GeminiModel == "" {
		m.config.GeminiModel = DefaultGeminiModel
	}
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultOpenAIModel
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultOpenAIBaseURL
	}
	if m.config.Concurrency <= 0 {
		m.config.Concurrency = DefaultConcurrency
	}
	if m.config.MaxRetries < 0 {
		m.config.MaxRetries = DefaultMaxRetries
	}
}

// applyEnv fills in credentials from the environment when the config file
// leaves them empty.
func (m *Manager) applyEnv() {
	if m.config.GeminiAPIKey == "" {
		m.config.GeminiAPIKey = os.Getenv(EnvGeminiAPIKey)
	}
	if m.config.OpenAIAPIKey == "" {
		m.config.OpenAIAPIKey = os.Getenv(EnvOpenAIAPIKey)
	}
	if url := os.Getenv(EnvOpenAIBaseURL); url != "" && m.config.OpenAIBaseURL == DefaultOpenAIBaseURL {
		m.config.OpenAIBaseURL = url
	}
}

// Validate performs the fail-fast startup check: the selected provider must
// have a credential. Called once before any request is accepted.
func (m *Manager) Validate() error {
	switch m.config.Provider {
	case types.ProviderGemini:
		if m.config.GeminiAPIKey == "" {
			return types.NewPipelineErrorWithDetails(types.ErrConfig,
				"missing API credential", EnvGeminiAPIKey+" not set and no key in config file", nil)
		}
	case types.ProviderOpenAI:
		if m.config.OpenAIAPIKey == "" {
			return types.NewPipelineErrorWithDetails(types.ErrConfig,
				"missing API credential", EnvOpenAIAPIKey+" not set and no key in config file", nil)
		}
	default:
		return types.NewPipelineErrorWithDetails(types.ErrConfig,
			"unknown provider", string(m.config.Provider), nil)
	}
	return nil
}

// Save saves the current configuration to the config file.
func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return types.NewPipelineError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return types.NewPipelineError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return types.NewPipelineError(types.ErrConfig, "failed to write config file", err)
	}
	return nil
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// loadLanguagesFile replaces the built-in allow-list with the contents of a
// languages.json file mapping ISO codes to display names.
func (m *Manager) loadLanguagesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.NewPipelineError(types.ErrConfig, "failed to read languages file", err)
	}

	langs := map[string]string{}
	if err := json.Unmarshal(data, &langs); err != nil {
		return types.NewPipelineError(types.ErrConfig, "invalid languages file", err)
	}
	if len(langs) == 0 {
		return types.NewPipelineErrorWithDetails(types.ErrConfig, "invalid languages file", "empty language list", nil)
	}

	m.languages = langs
	return nil
}
