// Package elevenlabs adapts the ElevenLabs SDK to the voicegen provider
// boundary.
package elevenlabs

import (
	"context"
	"strings"
	"time"

	sdk "github.com/haguro/elevenlabs-go"

	"voicegen/internal/services"
)

const (
	component      = "elevenlabs"
	defaultTimeout = 60 * time.Second
)

// Config captures ElevenLabs credentials and request timeout.
type Config struct {
	APIKey         string
	TimeoutSeconds int
}

// Voice is a catalogue entry.
type Voice struct {
	VoiceID string
	Name    string
}

type backend interface {
	textToSpeech(voiceID, modelID, text string) ([]byte, error)
	voices() ([]Voice, error)
}

type sdkBackend struct {
	client *sdk.Client
}

func (b sdkBackend) textToSpeech(voiceID, modelID, text string) ([]byte, error) {
	return b.client.TextToSpeech(voiceID, sdk.TextToSpeechRequest{
		Text:    text,
		ModelID: modelID,
	})
}

func (b sdkBackend) voices() ([]Voice, error) {
	raw, err := b.client.GetVoices()
	if err != nil {
		return nil, err
	}
	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, Voice{VoiceID: v.VoiceId, Name: v.Name})
	}
	return voices, nil
}

// Client issues ElevenLabs requests. The SDK binds a context at construction,
// so a fresh SDK client is built per call.
type Client struct {
	cfg     Config
	factory func(ctx context.Context, apiKey string, timeout time.Duration) backend
}

// NewClient constructs an ElevenLabs client.
func NewClient(cfg Config) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return &Client{
		cfg: cfg,
		factory: func(ctx context.Context, apiKey string, timeout time.Duration) backend {
			return sdkBackend{client: sdk.NewClient(ctx, apiKey, timeout)}
		},
	}
}

func (c *Client) timeout() time.Duration {
	if c.cfg.TimeoutSeconds > 0 {
		return time.Duration(c.cfg.TimeoutSeconds) * time.Second
	}
	return defaultTimeout
}

// TextToSpeech synthesizes text with the given voice and model and returns
// the MP3 bytes produced by the API.
func (c *Client) TextToSpeech(ctx context.Context, voiceID, modelID, text string) ([]byte, error) {
	const op = "text-to-speech"
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "api key required", nil)
	}
	if strings.TrimSpace(text) == "" || voiceID == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "voice id and text required", nil)
	}
	audio, err := c.factory(ctx, c.cfg.APIKey, c.timeout()).textToSpeech(voiceID, modelID, text)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op, "voice "+voiceID, err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrExternalService, component, op, "empty audio response", nil)
	}
	return audio, nil
}

// ListVoices returns the account's voice catalogue.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	const op = "list voices"
	if c.cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "api key required", nil)
	}
	voices, err := c.factory(ctx, c.cfg.APIKey, c.timeout()).voices()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op, "", err)
	}
	return voices, nil
}
