package synth

import (
	"context"
	"log/slog"

	"voicegen/internal/logging"
	"voicegen/internal/services"
	"voicegen/internal/services/elevenlabs"
)

// ElevenLabs adapts the ElevenLabs SDK client. The API only returns MP3 for
// the default output format, so WAV requests are rejected up front.
type ElevenLabs struct {
	client *elevenlabs.Client
	logger *slog.Logger
}

// NewElevenLabs wraps client.
func NewElevenLabs(client *elevenlabs.Client, logger *slog.Logger) *ElevenLabs {
	return &ElevenLabs{client: client, logger: logging.NewComponentLogger(logger, "elevenlabs")}
}

// Synthesize implements Synthesizer. Prompt, output and seed controls have no
// equivalent in the request and are ignored.
func (e *ElevenLabs) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if req.Format != "" && req.Format != "mp3" {
		return nil, services.Wrap(services.ErrConfiguration, "elevenlabs", "text-to-speech",
			"only mp3 output is supported, got "+req.Format, nil)
	}
	audio, err := e.client.TextToSpeech(ctx, req.VoiceID, req.Model, req.Text)
	if err != nil {
		return nil, err
	}
	return &Result{Audio: audio, ContentType: "audio/mpeg", Format: "mp3"}, nil
}

// ListVoices implements Synthesizer. The catalogue is account-wide, so model
// filters are ignored.
func (e *ElevenLabs) ListVoices(ctx context.Context, model string) ([]Voice, error) {
	if model != "" {
		e.logger.Debug("model filter not supported by provider; listing all voices", logging.String("model", model))
	}
	raw, err := e.client.ListVoices(ctx)
	if err != nil {
		return nil, err
	}
	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name})
	}
	return voices, nil
}
