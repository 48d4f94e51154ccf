package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"pdf-translator/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManager(t *testing.T) {
	t.Run("with custom path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.json")
		m, err := NewManager(path)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if m.GetConfigPath() != path {
			t.Errorf("expected config path %s, got %s", path, m.GetConfigPath())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if m.GetConfigPath() == "" {
			t.Error("expected non-empty config path")
		}
	})
}

func TestManager_Load(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		m := newTestManager(t)
		t.Setenv(EnvGeminiAPIKey, "")
		t.Setenv(EnvOpenAIAPIKey, "")
		t.Setenv(EnvOpenAIBaseURL, "")

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		cfg := m.GetConfig()
		if cfg.Provider != types.ProviderGemini {
			t.Errorf("expected default provider %s, got %s", types.ProviderGemini, cfg.Provider)
		}
		if cfg.GeminiModel != DefaultGeminiModel {
			t.Errorf("expected default model %s, got %s", DefaultGeminiModel, cfg.GeminiModel)
		}
		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, cfg.Concurrency)
		}
		if cfg.MaxRetries != DefaultMaxRetries {
			t.Errorf("expected default retries %d, got %d", DefaultMaxRetries, cfg.MaxRetries)
		}
	})

	t.Run("invalid json falls back to defaults", func(t *testing.T) {
		m := newTestManager(t)
		if err := os.WriteFile(m.GetConfigPath(), []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if m.GetConfig().Provider != types.ProviderGemini {
			t.Errorf("expected defaults after invalid file, got %+v", m.GetConfig())
		}
	})

	t.Run("env fills in missing credential", func(t *testing.T) {
		m := newTestManager(t)
		t.Setenv(EnvGeminiAPIKey, "env-key")

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if m.GetConfig().GeminiAPIKey != "env-key" {
			t.Errorf("expected credential from environment, got %q", m.GetConfig().GeminiAPIKey)
		}
	})

	t.Run("file credential wins over env", func(t *testing.T) {
		m := newTestManager(t)
		t.Setenv(EnvGeminiAPIKey, "env-key")

		data, _ := json.Marshal(types.Config{GeminiAPIKey: "file-key"})
		if err := os.WriteFile(m.GetConfigPath(), data, 0644); err != nil {
			t.Fatal(err)
		}

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if m.GetConfig().GeminiAPIKey != "file-key" {
			t.Errorf("expected file credential, got %q", m.GetConfig().GeminiAPIKey)
		}
	})
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr bool
	}{
		{"gemini with key", types.Config{Provider: types.ProviderGemini, GeminiAPIKey: "k"}, false},
		{"gemini without key", types.Config{Provider: types.ProviderGemini}, true},
		{"openai with key", types.Config{Provider: types.ProviderOpenAI, OpenAIAPIKey: "k"}, false},
		{"openai without key", types.Config{Provider: types.ProviderOpenAI}, true},
		{"unknown provider", types.Config{Provider: "other", GeminiAPIKey: "k"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			cfg := tt.config
			m.SetConfig(&cfg)

			err := m.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if code, ok := types.CodeOf(err); !ok || code != types.ErrConfig {
					t.Errorf("expected %s, got %v", types.ErrConfig, err)
				}
			} else if err != nil {
				t.Fatalf("Validate failed: %v", err)
			}
		})
	}
}

func TestManager_SaveLoad(t *testing.T) {
	m := newTestManager(t)
	t.Setenv(EnvGeminiAPIKey, "")
	t.Setenv(EnvOpenAIAPIKey, "")
	t.Setenv(EnvOpenAIBaseURL, "")

	m.SetConfig(&types.Config{
		Provider:     types.ProviderOpenAI,
		OpenAIAPIKey: "saved-key",
		OpenAIModel:  "gpt-4o-mini",
		Concurrency:  5,
	})

	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := NewManager(m.GetConfigPath())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cfg := reloaded.GetConfig()
	if cfg.Provider != types.ProviderOpenAI {
		t.Errorf("expected provider %s, got %s", types.ProviderOpenAI, cfg.Provider)
	}
	if cfg.OpenAIAPIKey != "saved-key" {
		t.Errorf("expected saved credential, got %q", cfg.OpenAIAPIKey)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("expected saved model, got %q", cfg.OpenAIModel)
	}
	if cfg.Concurrency != 5 {
		t.Errorf("expected saved concurrency 5, got %d", cfg.Concurrency)
	}
}

func TestManager_LanguagesFile(t *testing.T) {
	t.Run("valid file replaces allow-list", func(t *testing.T) {
		m := newTestManager(t)

		langPath := filepath.Join(t.TempDir(), "languages.json")
		if err := os.WriteFile(langPath, []byte(`{"eo": "Esperanto"}`), 0644); err != nil {
			t.Fatal(err)
		}
		m.SetConfig(&types.Config{LanguagesFile: langPath})

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if _, ok := m.LanguageName("eo"); !ok {
			t.Error("expected custom language in allow-list")
		}
		if _, ok := m.LanguageName("es"); ok {
			t.Error("expected built-in list to be replaced")
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		m := newTestManager(t)
		langPath := filepath.Join(t.TempDir(), "languages.json")
		if err := os.WriteFile(langPath, []byte(`{}`), 0644); err != nil {
			t.Fatal(err)
		}

		err := m.loadLanguagesFile(langPath)
		if err == nil {
			t.Fatal("expected an error")
		}
		if code, ok := types.CodeOf(err); !ok || code != types.ErrConfig {
			t.Errorf("expected %s, got %v", types.ErrConfig, err)
		}
	})

	t.Run("missing file rejected", func(t *testing.T) {
		m := newTestManager(t)
		if err := m.loadLanguagesFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Fatal("expected an error")
		}
	})
}
