package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for Lumi-Gateway
type Config struct {
	Server      ServerConfig  `yaml:"server"`
	Engine      EngineConfig  `yaml:"engine"`
	TTS         TTSConfig     `yaml:"tts"`
	Session     SessionConfig `yaml:"session"`
	Audio       AudioConfig   `yaml:"audio"`
	Logging     LoggingConfig `yaml:"logging"`
	Environment string        `yaml:"environment"`
}

// ServerConfig defines HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// EngineConfig defines the reasoning engine connection settings
type EngineConfig struct {
	URL       string `yaml:"url"`
	AuthToken string `yaml:"auth_token"`
	Timeout   string `yaml:"timeout"`
}

// GetTimeout returns the engine request timeout as a time.Duration
func (c *EngineConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 120 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// TTSConfig defines speech synthesis settings
type TTSConfig struct {
	// Provider selects the synthesis backend: "none", "elevenlabs" or "edge".
	// "elevenlabs" falls back to edge when the ElevenLabs call fails.
	Provider   string           `yaml:"provider"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	Edge       EdgeConfig       `yaml:"edge"`
}

// ElevenLabsConfig defines ElevenLabs API settings
type ElevenLabsConfig struct {
	APIKey    string `yaml:"api_key"`
	VoiceName string `yaml:"voice_name"`
	ModelID   string `yaml:"model_id"`
	Timeout   string `yaml:"timeout"`
}

// GetTimeout returns the ElevenLabs request timeout as a time.Duration
func (c *ElevenLabsConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 40 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 40 * time.Second
	}
	return d
}

// EdgeConfig defines the edge speech service settings
type EdgeConfig struct {
	URL     string `yaml:"url"`
	Voice   string `yaml:"voice"`
	Timeout string `yaml:"timeout"`
}

// GetTimeout returns the edge request timeout as a time.Duration
func (c *EdgeConfig) GetTimeout() time.Duration {
	if c.Timeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// SessionConfig defines conversation history storage settings
type SessionConfig struct {
	// Store selects the session driver: "memory" or "redis".
	Store string      `yaml:"store"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig defines Redis connection settings for the session store
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

// GetTTL returns the session expiry as a time.Duration
func (c *RedisConfig) GetTTL() time.Duration {
	if c.TTL == "" {
		return 24 * time.Hour
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// AudioConfig defines audio blob retention settings
type AudioConfig struct {
	// Retention bounds how long synthesized audio stays retrievable.
	// Empty or zero keeps blobs for the process lifetime.
	Retention string `yaml:"retention"`
}

// GetRetention returns the blob retention as a time.Duration
func (c *AudioConfig) GetRetention() time.Duration {
	if c.Retention == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 0
	}
	return d
}

// LoggingConfig defines logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.TTS.Provider == "" {
		c.TTS.Provider = "none"
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// applyEnv fills secrets from the environment when the file leaves them empty.
func (c *Config) applyEnv() {
	if c.TTS.ElevenLabs.APIKey == "" {
		c.TTS.ElevenLabs.APIKey = os.Getenv("ELEVEN_API_KEY")
	}
	if c.Engine.AuthToken == "" {
		c.Engine.AuthToken = os.Getenv("ENGINE_AUTH_TOKEN")
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Engine.URL == "" {
		return fmt.Errorf("engine url is required")
	}
	switch c.TTS.Provider {
	case "none", "elevenlabs", "edge":
	default:
		return fmt.Errorf("unsupported tts provider: %s", c.TTS.Provider)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Session.Redis.Addr == "" {
			return fmt.Errorf("session redis addr is required")
		}
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	return nil
}
