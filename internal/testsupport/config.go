package testsupport

import (
	"path/filepath"
	"testing"

	"voicegen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Throttling is disabled and a placeholder API key is set.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Typecast.APIKey = "test"
	cfgVal.Typecast.RetryAttempts = 1
	cfgVal.Generation.Manifest = filepath.Join(base, "voice_sets.yaml")
	cfgVal.Generation.OutDir = filepath.Join(base, "out")
	cfgVal.Generation.RequestsPerSecond = 0
	cfgVal.Ledger.Path = filepath.Join(base, "state", "ledger.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithTypecastServer points the Typecast client at baseURL.
func WithTypecastServer(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Typecast.BaseURL = baseURL
	}
}

// WithoutLedger disables the generation ledger.
func WithoutLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithManifest writes content to the configured manifest path.
func WithManifest(content string) ConfigOption {
	return func(b *configBuilder) {
		WriteText(b.t, b.cfg.Generation.Manifest, content)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Generation.Manifest)
}
