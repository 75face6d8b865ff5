package notemirror

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/notemirror/notemirror/pkg/core"
)

// Duration is a time.Duration that parses "5s"-style strings from both
// YAML and environment values.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the file/environment configuration for the mirror.
// Environment variables override file values.
type Config struct {
	BaseURL   string              `yaml:"base_url" env:"NOTEMIRROR_BASE_URL"`
	Token     string              `yaml:"token" env:"NOTEMIRROR_TOKEN"`
	DataDir   string              `yaml:"data_dir" env:"NOTEMIRROR_DATA_DIR"`
	PageLimit int                 `yaml:"page_limit" env:"NOTEMIRROR_PAGE_LIMIT"`
	MaxPages  int                 `yaml:"max_pages" env:"NOTEMIRROR_MAX_PAGES"`
	Timeout   Duration            `yaml:"timeout" env:"NOTEMIRROR_TIMEOUT"`
	Origins   map[string][]string `yaml:"origins"`
}

// LoadConfig reads the YAML config at path (missing file is fine) and
// overlays environment variables.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

// OriginPatterns converts the raw origins section into per-kind patterns,
// rejecting unknown kinds.
func (c Config) OriginPatterns() (map[core.Kind][]string, error) {
	if len(c.Origins) == 0 {
		return nil, nil
	}
	patterns := make(map[core.Kind][]string, len(c.Origins))
	for name, globs := range c.Origins {
		kind := core.Kind(name)
		if !kind.Valid() {
			return nil, fmt.Errorf("config: unknown kind %q in origins", name)
		}
		patterns[kind] = globs
	}
	return patterns, nil
}
