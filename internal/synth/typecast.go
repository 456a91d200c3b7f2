package synth

import (
	"context"

	"voicegen/internal/services/typecast"
)

// Typecast adapts the Typecast REST client.
type Typecast struct {
	client *typecast.Client
}

// NewTypecast wraps client.
func NewTypecast(client *typecast.Client) *Typecast {
	return &Typecast{client: client}
}

// Synthesize implements Synthesizer.
func (t *Typecast) Synthesize(ctx context.Context, req Request) (*Result, error) {
	payload := typecast.SpeechRequest{
		VoiceID:  req.VoiceID,
		Text:     req.Text,
		Model:    req.Model,
		Language: req.Language,
		Seed:     req.Seed,
		Output: &typecast.Output{
			Volume:      req.Output.Volume,
			AudioPitch:  req.Output.AudioPitch,
			AudioTempo:  req.Output.AudioTempo,
			AudioFormat: req.Format,
		},
	}
	if req.Prompt.EmotionPreset != "" || req.Prompt.EmotionIntensity != nil {
		payload.Prompt = &typecast.Prompt{
			EmotionPreset:    req.Prompt.EmotionPreset,
			EmotionIntensity: req.Prompt.EmotionIntensity,
		}
	}
	speech, err := t.client.TextToSpeech(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &Result{Audio: speech.Audio, ContentType: speech.ContentType, Format: req.Format}, nil
}

// ListVoices implements Synthesizer.
func (t *Typecast) ListVoices(ctx context.Context, model string) ([]Voice, error) {
	raw, err := t.client.ListVoices(ctx, model)
	if err != nil {
		return nil, err
	}
	voices := make([]Voice, 0, len(raw))
	for _, v := range raw {
		voices = append(voices, Voice{
			ID:       v.VoiceID,
			Name:     v.VoiceName,
			Model:    v.Model,
			Language: v.Language,
			Emotions: v.Emotions,
		})
	}
	return voices, nil
}
