package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"voicegen/internal/config"
	"voicegen/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	server     *testsupport.TypecastServer
	configPath string
}

const cliManifest = `
defaults:
  model: ssfm-v21
  voice_id: tc_default
lines:
  - key: greeting
    text: "Hello there"
    filename: hello.mp3
sets:
  - name: colors
    subdir: color
    lines:
      - key: red
        text: "Red!"
        filename: red.mp3
  - name: numbers
    lines:
      - key: one
        text: "One"
        filename: one.mp3
`

func setupCLITestEnv(t *testing.T, manifest string, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.EnvTypecastAPIKey, "")
	t.Setenv(config.EnvElevenLabsAPIKey, "")

	server := testsupport.NewTypecastServer(t)
	opts = append([]testsupport.ConfigOption{
		testsupport.WithTypecastServer(server.URL),
		testsupport.WithManifest(manifest),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(homeDir, ".config", "voicegen", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, server: server, configPath: configPath}
}

func (env *cliTestEnv) outPath(parts ...string) string {
	return filepath.Join(append([]string{env.cfg.Generation.OutDir}, parts...)...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
