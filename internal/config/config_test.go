package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	yaml := []byte(`
server:
  port: 8000
  host: localhost
engine:
  url: http://localhost:8100
  timeout: 90s
tts:
  provider: elevenlabs
  elevenlabs:
    voice_name: Lumi
    model_id: eleven_multilingual_v2
session:
  store: memory
environment: test
`)
	f, _ := os.CreateTemp("", "config-*.yaml")
	f.Write(yaml)
	f.Close()
	defer os.Remove(f.Name())

	cfg, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Engine.GetTimeout() != 90*time.Second {
		t.Errorf("Expected engine timeout 90s, got %v", cfg.Engine.GetTimeout())
	}
	if cfg.TTS.Provider != "elevenlabs" {
		t.Errorf("Expected provider elevenlabs, got %s", cfg.TTS.Provider)
	}
}

func TestLoadDefaults(t *testing.T) {
	yaml := []byte(`
engine:
  url: http://localhost:8100
`)
	f, _ := os.CreateTemp("", "config-*.yaml")
	f.Write(yaml)
	f.Close()
	defer os.Remove(f.Name())

	cfg, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("Expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.TTS.Provider != "none" {
		t.Errorf("Expected default provider none, got %s", cfg.TTS.Provider)
	}
	if cfg.Session.Store != "memory" {
		t.Errorf("Expected default store memory, got %s", cfg.Session.Store)
	}
	if cfg.TTS.ElevenLabs.GetTimeout() != 40*time.Second {
		t.Errorf("Expected default eleven timeout 40s, got %v", cfg.TTS.ElevenLabs.GetTimeout())
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8000, Host: "localhost"},
		Engine:  EngineConfig{URL: "http://localhost:8100"},
		TTS:     TTSConfig{Provider: "none"},
		Session: SessionConfig{Store: "memory"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestValidateInvalidPort(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: -1}}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for invalid port")
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8000},
		Engine:  EngineConfig{URL: "http://localhost:8100"},
		TTS:     TTSConfig{Provider: "polly"},
		Session: SessionConfig{Store: "memory"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for unsupported provider")
	}
}

func TestValidateRedisWithoutAddr(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 8000},
		Engine:  EngineConfig{URL: "http://localhost:8100"},
		TTS:     TTSConfig{Provider: "none"},
		Session: SessionConfig{Store: "redis"},
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Expected validation error for redis store without addr")
	}
}
