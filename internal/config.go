package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type PackerConfig struct {
	Binary string   `yaml:"binary"`
	Args   []string `yaml:"args,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

type Config struct {
	Server          ServerConfig              `yaml:"server"`
	CacheDir        string                    `yaml:"cache_dir"`
	TempDir         string                    `yaml:"temp_dir"`
	GitHubToken     string                    `yaml:"github_token,omitempty"`
	Packer          PackerConfig              `yaml:"packer"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Server:    ServerConfig{Addr: ":8080"},
		CacheDir:  filepath.Join(home, ".repochat", "cache"),
		TempDir:   filepath.Join(os.TempDir(), "repochat"),
		Packer:    PackerConfig{Binary: "repomix"},
		Providers: make(map[string]ProviderConfig),
	}
}

// LoadConfig reads path, falling back to defaults when it does not
// exist, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("REPOCHAT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("REPOCHAT_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("REPOCHAT_TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv("REPOCHAT_PACKER"); v != "" {
		c.Packer.Binary = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" && c.GitHubToken == "" {
		c.GitHubToken = v
	}
	if v := os.Getenv("REPOCHAT_PROVIDER"); v != "" {
		c.DefaultProvider = v
	}

	envKeys := map[string]string{
		"openai":     "OPENAI_API_KEY",
		"anthropic":  "ANTHROPIC_API_KEY",
		"openrouter": "OPENROUTER_API_KEY",
	}
	for name, envKey := range envKeys {
		v := os.Getenv(envKey)
		if v == "" {
			continue
		}
		p := c.Providers[name]
		if p.APIKey == "" {
			p.APIKey = v
			c.Providers[name] = p
		}
	}
}

// ProviderFor returns the fantasy configuration for name, or for the
// configured default when name is empty.
func (c *Config) ProviderFor(name string) (FantasyConfig, error) {
	if name == "" {
		name = c.DefaultProvider
	}
	if name == "" {
		return FantasyConfig{}, ErrNoProvider
	}

	p, ok := c.Providers[name]
	if !ok {
		return FantasyConfig{}, fmt.Errorf("provider %q not found", name)
	}

	return FantasyConfig{
		Provider: name,
		APIKey:   p.APIKey,
		BaseURL:  p.BaseURL,
		Model:    p.Model,
	}, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}
