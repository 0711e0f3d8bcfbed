// Package config loads blsaddrd settings from defaults, an optional YAML file
// and BLSADDR_* environment variables, in that order of precedence.
//
// Keys map to environment variables by upper-casing and replacing dots with
// underscores: address.prefix is BLSADDR_ADDRESS_PREFIX.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"xdao.co/blsaddr/address"
	"xdao.co/blsaddr/encoder"
	"xdao.co/blsaddr/keys"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "BLSADDR_"

type Config struct {
	Listen string `koanf:"listen"`

	Log struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
	} `koanf:"log"`

	Address struct {
		Prefix    string `koanf:"prefix"`
		Path      string `koanf:"path"`
		Synthetic bool   `koanf:"synthetic"`
		// Hidden is the hex hidden puzzle hash; empty selects the default.
		Hidden string `koanf:"hidden"`
	} `koanf:"address"`

	GRPC struct {
		MaxMsgBytes int `koanf:"maxmsgbytes"`
	} `koanf:"grpc"`
}

func defaults() map[string]any {
	return map[string]any{
		"listen": "127.0.0.1:7788",
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"address": map[string]any{
			"prefix":    address.DefaultPrefix,
			"path":      keys.WalletPath(0).String(),
			"synthetic": true,
			"hidden":    "",
		},
		"grpc": map[string]any{
			"maxmsgbytes": 0,
		},
	}
}

// Load reads defaults, then path (skipped when empty), then the environment.
func Load(path string) (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return cfg, fmt.Errorf("config: load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("config: load file %s: %w", path, err)
		}
	}
	transform := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		return cfg, fmt.Errorf("config: load env: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Listen) == "" {
		return errors.New("config: listen address is required")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if c.GRPC.MaxMsgBytes < 0 {
		return errors.New("config: grpc.maxmsgbytes must not be negative")
	}
	if _, err := c.EncoderOptions(); err != nil {
		return err
	}
	return nil
}

// EncoderOptions converts the address section into encoder defaults.
func (c Config) EncoderOptions() (encoder.Options, error) {
	var opts encoder.Options
	if c.Address.Prefix == "" {
		return opts, errors.New("config: address.prefix is required")
	}
	if _, err := address.Encode(nil, c.Address.Prefix); err != nil {
		return opts, fmt.Errorf("config: address.prefix: %w", err)
	}
	opts.Prefix = c.Address.Prefix

	path, err := keys.ParsePath(c.Address.Path)
	if err != nil {
		return opts, fmt.Errorf("config: address.path: %w", err)
	}
	opts.Path = path

	opts.Mode = encoder.ModePublicKey
	if c.Address.Synthetic {
		opts.Mode = encoder.ModeSynthetic
	}

	if c.Address.Hidden != "" {
		h, err := hex.DecodeString(strings.TrimPrefix(c.Address.Hidden, "0x"))
		if err != nil || len(h) != keys.HiddenPuzzleHashSize {
			return opts, fmt.Errorf("config: address.hidden must be %d hex bytes", keys.HiddenPuzzleHashSize)
		}
		opts.HiddenPuzzleHash = h
	}
	return opts, nil
}

// NewLogger builds a logger from the log section. Call Validate first.
func (c Config) NewLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	if lvl, err := log.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return logger
}
