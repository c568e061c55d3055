package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	v "github.com/neurodesk/layout/pkg/validator"
	"gopkg.in/yaml.v3"
)

// Config is the project configuration, loaded from layout.yaml.
type Config struct {
	Templates struct {
		// Dirs are base directories searched in order.
		Dirs []string `yaml:"dirs,omitempty"`
		// Extensions are candidate file extensions tried per directory.
		Extensions []string `yaml:"extensions,omitempty"`
		// URL switches to a remote template source rooted at this base URL.
		URL string `yaml:"url,omitempty"`
		// CacheDir holds the remote source's revalidating cache.
		CacheDir string `yaml:"cache_dir,omitempty"`
	} `yaml:"templates"`

	// Syntax selects the template body front-end: markup or script.
	Syntax string `yaml:"syntax,omitempty"`
	// Strict makes undefined variables an error in the markup front-end.
	Strict bool `yaml:"strict,omitempty"`
	// MaxDepth bounds the inheritance chain; 0 uses the engine default.
	MaxDepth int `yaml:"max_depth,omitempty"`
	// MaxSteps bounds Starlark execution per body; 0 means unlimited.
	MaxSteps uint64 `yaml:"max_steps,omitempty"`

	Serve struct {
		Addr     string `yaml:"addr,omitempty"`
		Markdown bool   `yaml:"markdown,omitempty"`
	} `yaml:"serve,omitempty"`
}

func defaultConfig() *Config {
	cfg := &Config{Syntax: "markup"}
	cfg.Templates.Dirs = []string{"."}
	cfg.Serve.Addr = ":8080"
	return cfg
}

// loadConfig reads and validates the project configuration. A missing
// file yields the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	fh, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("opening config: %v", err)
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return v.All(
		v.MatchesAllowed(c.Syntax, []string{"markup", "script"}, "syntax"),
		v.Map(c.Templates.Dirs, func(dir string, description string) error {
			return v.All(
				v.NotEmpty(dir, description),
				v.HasNoMarkup(dir, description),
			)
		}, "templates.dirs"),
		v.NoDuplicates(c.Templates.Extensions, "templates.extensions"),
		v.Map(c.Templates.Extensions, func(ext string, description string) error {
			if !strings.HasPrefix(ext, ".") {
				return fmt.Errorf("%s must start with a dot, got %q", description, ext)
			}
			return nil
		}, "templates.extensions"),
		func() error {
			if c.MaxDepth < 0 {
				return fmt.Errorf("max_depth must not be negative")
			}
			return nil
		}(),
		func() error {
			if c.Templates.URL != "" && c.Templates.CacheDir == "" {
				return fmt.Errorf("templates.cache_dir is required with templates.url")
			}
			return nil
		}(),
	)
}
