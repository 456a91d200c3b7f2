package manifest

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ISO3 normalizes a BCP-47 style tag ("en", "en-US", "ko_KR") or an ISO
// 639-3 code ("eng") to the ISO 639-3 code the vendor expects.
func ISO3(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language is empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("unknown language %q: %w", code, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("unknown language %q", code)
	}
	iso3 := base.ISO3()
	if iso3 == "" || iso3 == "und" {
		return "", fmt.Errorf("unknown language %q", code)
	}
	return iso3, nil
}

func validateParams(p *Params) error {
	p.OutputFormat = strings.ToLower(strings.TrimSpace(p.OutputFormat))
	switch p.OutputFormat {
	case "mp3", "wav":
	default:
		return fmt.Errorf("output_format must be mp3 or wav, got %q", p.OutputFormat)
	}

	iso3, err := ISO3(p.Language)
	if err != nil {
		return err
	}
	p.Language = iso3

	if v := p.Prompt.EmotionIntensity; v != nil && (*v < 0 || *v > 2) {
		return fmt.Errorf("prompt.emotion_intensity must be within [0, 2], got %v", *v)
	}
	if v := p.Output.Volume; v != nil && (*v < 0 || *v > 200) {
		return fmt.Errorf("output.volume must be within [0, 200], got %d", *v)
	}
	if v := p.Output.AudioPitch; v != nil && (*v < -12 || *v > 12) {
		return fmt.Errorf("output.audio_pitch must be within [-12, 12], got %d", *v)
	}
	if v := p.Output.AudioTempo; v != nil && (*v < 0.5 || *v > 2) {
		return fmt.Errorf("output.audio_tempo must be within [0.5, 2.0], got %v", *v)
	}
	return nil
}
