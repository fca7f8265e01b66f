package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

type options struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
}

// Option customizes Load
type Option func(*options)

// WithLookPath replaces exec.LookPath for the credential helper check
func WithLookPath(fn func(string) (string, error)) Option {
	return func(o *options) { o.lookPath = fn }
}

// WithGetenv replaces os.Getenv for the password fallback
func WithGetenv(fn func(string) string) Option {
	return func(o *options) { o.getenv = fn }
}

// Load reads, validates and normalizes a configuration file
func Load(configFile string, opts ...Option) (*Config, error) {
	o := options{
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(&o)
	}

	name := filepath.Base(configFile)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, missing(name)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(name, data)
	if err != nil {
		return nil, err
	}

	if cfg.Password == "" {
		cfg.Password = o.getenv(PasswordEnv)
	}

	if cfg.NeedsCredentialHelper() {
		if _, err := o.lookPath(CredentialHelper); err != nil {
			return nil, noHelper()
		}
	}

	return cfg, nil
}

// Parse validates and decodes a configuration document. name is only used
// in diagnostics.
func Parse(name string, data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, malformed(name, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, malformed(name, err)
	}

	if field, ok := validateRequired(&cfg); !ok {
		return nil, incomplete(name, field)
	}

	cfg.Path = NormalizePath(cfg.Path)

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Pre == nil {
		cfg.Pre = []string{}
	}
	if cfg.Post == nil {
		cfg.Post = []string{}
	}

	return &cfg, nil
}
