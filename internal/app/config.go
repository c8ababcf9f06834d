package app

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackendURL            string `yaml:"backend_url"`
	Language              string `yaml:"language"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	LogFile               string `yaml:"log_file"`
}

func DefaultConfig() Config {
	return Config{
		BackendURL:            "http://127.0.0.1:8000",
		Language:              string(LanguageEnglish),
		RequestTimeoutSeconds: 120,
	}
}

// LoadConfig reads the YAML config at path, falling back to defaults when the
// file does not exist. Unset fields are normalized to their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = "http://127.0.0.1:8000"
	}
	if _, ok := ParseLanguage(cfg.Language); !ok {
		cfg.Language = string(LanguageEnglish)
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 120
	}
	return cfg, nil
}

func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "pdfchat", "config.yml")
}
