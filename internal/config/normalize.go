package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeProvider()
	c.normalizeTypecast()
	c.normalizeElevenLabs()
	if err := c.normalizeGeneration(); err != nil {
		return err
	}
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeProvider() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = defaultProvider
	}
}

func (c *Config) normalizeTypecast() {
	c.Typecast.APIKey = strings.TrimSpace(c.Typecast.APIKey)
	if c.Typecast.APIKey == "" {
		if value, ok := os.LookupEnv(EnvTypecastAPIKey); ok {
			c.Typecast.APIKey = strings.TrimSpace(value)
		}
	}
	c.Typecast.BaseURL = strings.TrimRight(strings.TrimSpace(c.Typecast.BaseURL), "/")
	if c.Typecast.BaseURL == "" {
		c.Typecast.BaseURL = defaultTypecastBaseURL
	}
	if c.Typecast.TimeoutSeconds <= 0 {
		c.Typecast.TimeoutSeconds = defaultTypecastTimeoutSeconds
	}
	if c.Typecast.RetryAttempts <= 0 {
		c.Typecast.RetryAttempts = 1
	}
}

func (c *Config) normalizeElevenLabs() {
	c.ElevenLabs.APIKey = strings.TrimSpace(c.ElevenLabs.APIKey)
	if c.ElevenLabs.APIKey == "" {
		if value, ok := os.LookupEnv(EnvElevenLabsAPIKey); ok {
			c.ElevenLabs.APIKey = strings.TrimSpace(value)
		}
	}
	if c.ElevenLabs.TimeoutSeconds <= 0 {
		c.ElevenLabs.TimeoutSeconds = defaultElevenLabsTimeoutSeconds
	}
}

func (c *Config) normalizeGeneration() error {
	var err error
	if strings.TrimSpace(c.Generation.Manifest) == "" {
		c.Generation.Manifest = defaultManifestPath
	}
	if c.Generation.Manifest, err = expandPath(strings.TrimSpace(c.Generation.Manifest)); err != nil {
		return fmt.Errorf("generation.manifest: %w", err)
	}
	if strings.TrimSpace(c.Generation.OutDir) == "" {
		c.Generation.OutDir = defaultOutDir
	}
	if c.Generation.OutDir, err = expandPath(strings.TrimSpace(c.Generation.OutDir)); err != nil {
		return fmt.Errorf("generation.out_dir: %w", err)
	}
	if c.Generation.RequestsPerSecond < 0 {
		c.Generation.RequestsPerSecond = 0
	}
	return nil
}

func (c *Config) normalizeLedger() error {
	var err error
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	if c.Ledger.Path, err = expandPath(strings.TrimSpace(c.Ledger.Path)); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
