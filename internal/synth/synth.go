// Package synth defines the boundary between the batch runner and the
// text-to-speech vendors.
//
// Runner code depends only on the Synthesizer interface; New picks the
// concrete provider named in configuration and adapts its vendor-specific
// request and catalogue types.
package synth

import (
	"context"
	"fmt"
	"log/slog"

	"voicegen/internal/config"
	"voicegen/internal/services"
	"voicegen/internal/services/elevenlabs"
	"voicegen/internal/services/typecast"
)

// Prompt carries optional emotion controls.
type Prompt struct {
	EmotionPreset    string
	EmotionIntensity *float64
}

// Output carries optional loudness, pitch and tempo controls.
type Output struct {
	Volume     *int
	AudioPitch *int
	AudioTempo *float64
}

// Request is one synthesis call with fully merged parameters.
type Request struct {
	Text     string
	Model    string
	VoiceID  string
	Language string // ISO 639-3
	Format   string // mp3 or wav
	Seed     *int
	Prompt   Prompt
	Output   Output
}

// Result is the audio produced for a Request.
type Result struct {
	Audio       []byte
	ContentType string
	Format      string
}

// Voice is a provider-neutral catalogue entry.
type Voice struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Model    string   `json:"model,omitempty"`
	Language string   `json:"language,omitempty"`
	Emotions []string `json:"emotions,omitempty"`
}

// Synthesizer turns text into audio and exposes the vendor voice catalogue.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	ListVoices(ctx context.Context, model string) ([]Voice, error)
}

// New returns the provider selected by cfg.Provider.
func New(cfg *config.Config, logger *slog.Logger) (Synthesizer, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "synth", "new", "config required", nil)
	}
	switch cfg.Provider {
	case config.ProviderTypecast, "":
		client := typecast.NewClient(typecast.Config{
			APIKey:         cfg.Typecast.APIKey,
			BaseURL:        cfg.Typecast.BaseURL,
			TimeoutSeconds: cfg.Typecast.TimeoutSeconds,
		}, typecast.WithRetryMaxAttempts(cfg.Typecast.RetryAttempts))
		return NewTypecast(client), nil
	case config.ProviderElevenLabs:
		client := elevenlabs.NewClient(elevenlabs.Config{
			APIKey:         cfg.ElevenLabs.APIKey,
			TimeoutSeconds: cfg.ElevenLabs.TimeoutSeconds,
		})
		return NewElevenLabs(client, logger), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "synth", "new",
			fmt.Sprintf("unknown provider %q", cfg.Provider), nil)
	}
}
