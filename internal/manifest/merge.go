package manifest

const (
	builtinLanguage     = "eng"
	builtinOutputFormat = "mp3"
)

func builtinParams() Params {
	return Params{Language: builtinLanguage, OutputFormat: builtinOutputFormat}
}

// merge overlays the set fields of override onto base.
func merge(base, override Params) Params {
	out := base
	if override.Model != "" {
		out.Model = override.Model
	}
	if override.VoiceID != "" {
		out.VoiceID = override.VoiceID
	}
	if override.Language != "" {
		out.Language = override.Language
	}
	if override.OutputFormat != "" {
		out.OutputFormat = override.OutputFormat
	}
	if override.Seed != nil {
		out.Seed = override.Seed
	}
	if override.Prompt.EmotionPreset != nil {
		out.Prompt.EmotionPreset = override.Prompt.EmotionPreset
	}
	if override.Prompt.EmotionIntensity != nil {
		out.Prompt.EmotionIntensity = override.Prompt.EmotionIntensity
	}
	if override.Output.Volume != nil {
		out.Output.Volume = override.Output.Volume
	}
	if override.Output.AudioPitch != nil {
		out.Output.AudioPitch = override.Output.AudioPitch
	}
	if override.Output.AudioTempo != nil {
		out.Output.AudioTempo = override.Output.AudioTempo
	}
	return out
}
