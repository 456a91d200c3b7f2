package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"voicegen/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv(config.EnvTypecastAPIKey, "  env-key  ")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Provider != config.ProviderTypecast {
		t.Fatalf("unexpected provider: %q", cfg.Provider)
	}
	if cfg.Typecast.APIKey != "env-key" {
		t.Fatalf("expected trimmed key from env, got %q", cfg.Typecast.APIKey)
	}
	if cfg.APIKey() != "env-key" {
		t.Fatalf("APIKey() = %q", cfg.APIKey())
	}
	wantLedger := filepath.Join(tempHome, ".local", "share", "voicegen", "ledger.db")
	if cfg.Ledger.Path != wantLedger {
		t.Fatalf("unexpected ledger path: got %q want %q", cfg.Ledger.Path, wantLedger)
	}
	if !filepath.IsAbs(cfg.Generation.OutDir) || filepath.Base(cfg.Generation.OutDir) != "out_audio" {
		t.Fatalf("unexpected out dir: %q", cfg.Generation.OutDir)
	}
	if cfg.Generation.RequestsPerSecond != 4 {
		t.Fatalf("unexpected requests per second: %v", cfg.Generation.RequestsPerSecond)
	}
	if cfg.Typecast.BaseURL != "https://api.typecast.ai" {
		t.Fatalf("unexpected base url: %q", cfg.Typecast.BaseURL)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(cfg.Ledger.Path)); err != nil || !info.IsDir() {
		t.Fatalf("expected ledger directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "voicegen.toml")

	type payload struct {
		Provider   string `toml:"provider"`
		ElevenLabs struct {
			APIKey string `toml:"api_key"`
		} `toml:"elevenlabs"`
		Generation struct {
			OutDir            string  `toml:"out_dir"`
			RequestsPerSecond float64 `toml:"requests_per_second"`
			FailFast          bool    `toml:"fail_fast"`
		} `toml:"generation"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{Provider: " ElevenLabs "}
	custom.ElevenLabs.APIKey = "xi-key"
	custom.Generation.OutDir = filepath.Join(tempDir, "audio")
	custom.Generation.RequestsPerSecond = -2
	custom.Generation.FailFast = true
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "Debug"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom path to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Provider != config.ProviderElevenLabs {
		t.Fatalf("unexpected provider: %q", cfg.Provider)
	}
	if cfg.APIKey() != "xi-key" {
		t.Fatalf("expected elevenlabs key, got %q", cfg.APIKey())
	}
	if cfg.Generation.OutDir != filepath.Join(tempDir, "audio") {
		t.Fatalf("unexpected out dir: %q", cfg.Generation.OutDir)
	}
	if cfg.Generation.RequestsPerSecond != 0 {
		t.Fatalf("expected negative throttle to clamp to zero, got %v", cfg.Generation.RequestsPerSecond)
	}
	if !cfg.Generation.FailFast {
		t.Fatal("expected fail_fast to be honoured")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "voicegen.toml")
	if err := os.WriteFile(configPath, []byte("provider = \"polly\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "provider") {
		t.Fatalf("expected provider validation error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "voicegen.toml")
	if err := os.WriteFile(configPath, []byte("[typecast]\napi_kee = \"typo\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestRequireCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Typecast.APIKey = ""
	err := cfg.RequireCredentials()
	if err == nil {
		t.Fatal("expected missing key error")
	}
	if !strings.Contains(err.Error(), config.EnvTypecastAPIKey) {
		t.Fatalf("expected env var hint in %q", err)
	}

	cfg.SetAPIKey("  flag-key ")
	if err := cfg.RequireCredentials(); err != nil {
		t.Fatalf("expected key from SetAPIKey to satisfy check: %v", err)
	}
	if cfg.Typecast.APIKey != "flag-key" {
		t.Fatalf("unexpected key: %q", cfg.Typecast.APIKey)
	}

	cfg.Provider = config.ProviderElevenLabs
	if err := cfg.RequireCredentials(); err == nil || !strings.Contains(err.Error(), config.EnvElevenLabsAPIKey) {
		t.Fatalf("expected elevenlabs hint, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv(config.EnvTypecastAPIKey, "")
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Provider != config.ProviderTypecast || !cfg.Ledger.Enabled {
		t.Fatalf("unexpected sample values: %+v", cfg)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/voices")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "voices") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "voicegen.toml")
	if err := os.WriteFile(configPath, []byte("[logging]\nformat = \"jsn\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format validation error, got %v", err)
	}
}
