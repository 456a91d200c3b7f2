package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. Credentials are checked
// separately by RequireCredentials because dry runs never call the vendor.
func (c *Config) Validate() error {
	if err := c.validateProvider(); err != nil {
		return err
	}
	if err := c.validateTypecast(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireCredentials reports a descriptive error when the selected provider
// has no API key.
func (c *Config) RequireCredentials() error {
	if c.APIKey() != "" {
		return nil
	}
	envName := EnvTypecastAPIKey
	section := "typecast"
	if c.Provider == ProviderElevenLabs {
		envName = EnvElevenLabsAPIKey
		section = "elevenlabs"
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/voicegen/config.toml"
	}
	return fmt.Errorf("%s.api_key is required. Set %s, pass --api-key, or edit %s (create with 'voicegen config init')", section, envName, defaultPath)
}

func (c *Config) validateProvider() error {
	switch c.Provider {
	case ProviderTypecast, ProviderElevenLabs:
		return nil
	default:
		return fmt.Errorf("provider must be %q or %q, got %q", ProviderTypecast, ProviderElevenLabs, c.Provider)
	}
}

func (c *Config) validateTypecast() error {
	parsed, err := url.Parse(c.Typecast.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("typecast.base_url must be an absolute URL, got %q", c.Typecast.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}
