// Package config loads shape-httpd settings from a TOML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the runtime settings of the server process.
type Config struct {
	Addr               string
	ServerName         string
	ReadBufferSize     int
	MaxLineLength      int
	MaxHeaderBytes     int
	MaxBodySize        int64
	MaxConnections     int
	DrainTimeout       time.Duration
	CloseDelimitedBody bool
	LogLevel           string
	LogFormat          string
	MetricsAddr        string
}

// Default returns the settings used when no file overrides them.
func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		ServerName:     "shape-httpd",
		ReadBufferSize: 1024,
		MaxLineLength:  8192,
		MaxHeaderBytes: 64 << 10,
		MaxBodySize:    1 << 20,
		DrainTimeout:   5 * time.Second,
		LogLevel:       "info",
		LogFormat:      "console",
	}
}

// config.toml key mapping
type fileConfig struct {
	Addr               string `toml:"addr"`
	ServerName         string `toml:"server_name"`
	ReadBufferSize     int    `toml:"read_buffer_size"`
	MaxLineLength      int    `toml:"max_line_length"`
	MaxHeaderBytes     int    `toml:"max_header_bytes"`
	MaxBodySize        int64  `toml:"max_body_size"`
	MaxConnections     int    `toml:"max_connections"`
	DrainTimeout       string `toml:"drain_timeout"`
	CloseDelimitedBody bool   `toml:"close_delimited_body"`
	LogLevel           string `toml:"log_level"`
	LogFormat          string `toml:"log_format"`
	MetricsAddr        string `toml:"metrics_addr"`
}

// Load decodes the TOML file at path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("server_name") {
		cfg.ServerName = strings.TrimSpace(raw.ServerName)
	}
	if meta.IsDefined("read_buffer_size") {
		cfg.ReadBufferSize = raw.ReadBufferSize
	}
	if meta.IsDefined("max_line_length") {
		cfg.MaxLineLength = raw.MaxLineLength
	}
	if meta.IsDefined("max_header_bytes") {
		cfg.MaxHeaderBytes = raw.MaxHeaderBytes
	}
	if meta.IsDefined("max_body_size") {
		cfg.MaxBodySize = raw.MaxBodySize
	}
	if meta.IsDefined("max_connections") {
		cfg.MaxConnections = raw.MaxConnections
	}
	if meta.IsDefined("drain_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.DrainTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("load config: drain_timeout: %w", err)
		}
		cfg.DrainTimeout = d
	}
	if meta.IsDefined("close_delimited_body") {
		cfg.CloseDelimitedBody = raw.CloseDelimitedBody
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("addr is required")
	case c.ReadBufferSize <= 0:
		return fmt.Errorf("read_buffer_size must be positive, got %d", c.ReadBufferSize)
	case c.MaxLineLength < 0:
		return fmt.Errorf("max_line_length must not be negative, got %d", c.MaxLineLength)
	case c.MaxHeaderBytes < 0:
		return fmt.Errorf("max_header_bytes must not be negative, got %d", c.MaxHeaderBytes)
	case c.MaxBodySize < 0:
		return fmt.Errorf("max_body_size must not be negative, got %d", c.MaxBodySize)
	case c.MaxConnections < 0:
		return fmt.Errorf("max_connections must not be negative, got %d", c.MaxConnections)
	case c.DrainTimeout < 0:
		return fmt.Errorf("drain_timeout must not be negative, got %s", c.DrainTimeout)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unsupported log_format %q (expected console or json)", c.LogFormat)
	}
	return nil
}
