package main

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/spetersoncode/imagemcp/prompt"
)

// Transports.
const (
	TransportSSE   = "sse"
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Gemini
	APIKey     string `env:"GEMINI_API_KEY"`
	ImageModel string `env:"GEMINI_IMAGE_MODEL" env-default:"gemini-2.5-flash-image-preview"`
	TextModel  string `env:"GEMINI_TEXT_MODEL" env-default:"gemini-2.0-flash"`

	// Server
	Transport string `env:"IMAGE_MCP_TRANSPORT" env-default:"sse"`
	Host      string `env:"IMAGE_MCP_HOST" env-default:"0.0.0.0"`
	Port      int    `env:"IMAGE_MCP_PORT" env-default:"9005"`
	LogLevel  string `env:"IMAGE_MCP_LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"IMAGE_MCP_LOG_FORMAT" env-default:"text"`

	// Optional features
	MetricsAddr     string `env:"IMAGE_MCP_METRICS_ADDR"`
	FilenameLabels  bool   `env:"IMAGE_MCP_FILENAME_LABELS" env-default:"false"`
	TransformPrompt string `env:"IMAGE_MCP_TRANSFORM_PROMPT" env-default:"transform"`
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		desc, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("config: %w; %s", err, desc)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportSSE, TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("unknown transport: %s (must be sse, http, or stdio)", c.Transport)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("IMAGE_MCP_PORT out of range: %d", c.Port)
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s (must be text or json)", c.LogFormat)
	}

	if _, ok := prompt.ByName(c.TransformPrompt); !ok {
		return fmt.Errorf("unknown transform prompt: %s (must be transform or edit)", c.TransformPrompt)
	}

	if c.ImageModel == "" || c.TextModel == "" {
		return fmt.Errorf("GEMINI_IMAGE_MODEL and GEMINI_TEXT_MODEL must not be empty")
	}
	return nil
}

// Addr returns the listen address for the network transports.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	return level, nil
}
