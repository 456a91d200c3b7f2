package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"voicegen/internal/config"
	"voicegen/internal/logging"
)

type commandContext struct {
	configFlag   *string
	providerFlag *string
	apiKeyFlag   *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, providerFlag, apiKeyFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		providerFlag: providerFlag,
		apiKeyFlag:   apiKeyFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, _, _, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

// loadConfig reads the configuration and applies the --provider and
// --api-key overrides. It also returns the resolved path and whether the
// file existed.
func (c *commandContext) loadConfig() (*config.Config, string, bool, error) {
	cfg, resolved, exists, err := config.Load(flagValue(c.configFlag))
	if err != nil {
		return nil, resolved, exists, err
	}
	if provider := flagValue(c.providerFlag); provider != "" {
		cfg.Provider = strings.ToLower(provider)
		if err := cfg.Validate(); err != nil {
			return nil, resolved, exists, err
		}
	}
	cfg.SetAPIKey(flagValue(c.apiKeyFlag))
	return cfg, resolved, exists, nil
}

// logger builds a logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
