package runner

import (
	"context"
	"strings"

	"voicegen/internal/synth"
)

// ListVoices issues exactly one catalogue query. Entries that report a
// different model are dropped so providers that ignore the filter still
// honour it.
func ListVoices(ctx context.Context, s synth.Synthesizer, model string) ([]synth.Voice, error) {
	model = strings.TrimSpace(model)
	voices, err := s.ListVoices(ctx, model)
	if err != nil {
		return nil, err
	}
	if model == "" {
		return voices, nil
	}
	filtered := voices[:0]
	for _, v := range voices {
		if v.Model == "" || strings.EqualFold(v.Model, model) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}
