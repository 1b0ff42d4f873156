package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mensura/catalog"
	"github.com/katalvlaran/mensura/converter"
	"github.com/katalvlaran/mensura/core"
)

// Config is the optional mensura.yaml file. Flags override it.
//
//	catalog: ./units.yaml
//	builtin: true
//	strict: false
//	log_level: info
//	server:
//	  addr: ":8080"
//	  watch: true
type Config struct {
	Catalog  string       `yaml:"catalog"`
	Builtin  *bool        `yaml:"builtin"`
	Strict   bool         `yaml:"strict"`
	LogLevel string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Server   ServerConfig `yaml:"server"`
}

// ServerConfig holds the serve command settings.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

var configValidate = validator.New()

// defaultConfig is used when no config file is given.
func defaultConfig() Config {
	builtin := true

	return Config{
		Builtin:  &builtin,
		LogLevel: "info",
		Server:   ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads path over the defaults. An empty path returns the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Builtin == nil {
		builtin := true
		cfg.Builtin = &builtin
	}
	if err := configValidate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// rules assembles the catalog: built-ins (unless disabled) then the file.
func (c Config) rules() ([]core.Rule, error) {
	var base []core.Rule
	if c.Builtin == nil || *c.Builtin {
		base = catalog.Default()
	}
	if c.Catalog == "" {
		if len(base) == 0 {
			return nil, errors.New("no rules: built-in catalog disabled and no catalog file given")
		}
		return base, nil
	}

	extra, err := catalog.Load(c.Catalog)
	if err != nil {
		return nil, err
	}

	return catalog.Merge(base, extra), nil
}

// converterOptions maps config onto converter options.
func (c Config) converterOptions(logger *slog.Logger) []converter.Option {
	opts := []converter.Option{converter.WithLogger(logger)}
	if c.Strict {
		opts = append(opts, converter.WithStrictRedefinition())
	}

	return opts
}

// newLogger builds a text slog logger at the named level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
