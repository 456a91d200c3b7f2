package config

const (
	ProviderTypecast   = "typecast"
	ProviderElevenLabs = "elevenlabs"

	EnvTypecastAPIKey   = "TYPECAST_API_KEY"
	EnvElevenLabsAPIKey = "ELEVENLABS_API_KEY"
)

const (
	defaultProvider                 = ProviderTypecast
	defaultTypecastBaseURL          = "https://api.typecast.ai"
	defaultTypecastTimeoutSeconds   = 60
	defaultTypecastRetryAttempts    = 3
	defaultElevenLabsTimeoutSeconds = 60
	defaultManifestPath             = "voice_sets.yaml"
	defaultOutDir                   = "out_audio"
	defaultRequestsPerSecond        = 4.0
	defaultLedgerEnabled            = true
	defaultLedgerPath               = "~/.local/share/voicegen/ledger.db"
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Provider: defaultProvider,
		Typecast: Typecast{
			BaseURL:        defaultTypecastBaseURL,
			TimeoutSeconds: defaultTypecastTimeoutSeconds,
			RetryAttempts:  defaultTypecastRetryAttempts,
		},
		ElevenLabs: ElevenLabs{
			TimeoutSeconds: defaultElevenLabsTimeoutSeconds,
		},
		Generation: Generation{
			Manifest:          defaultManifestPath,
			OutDir:            defaultOutDir,
			RequestsPerSecond: defaultRequestsPerSecond,
		},
		Ledger: Ledger{
			Enabled: defaultLedgerEnabled,
			Path:    defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
