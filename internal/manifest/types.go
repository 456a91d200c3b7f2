package manifest

// LockFileName is held in the output directory while a run writes to it, so
// no line may use it as a filename.
const LockFileName = ".voicegen.lock"

// Prompt holds optional emotion controls.
type Prompt struct {
	EmotionPreset    *string  `yaml:"emotion_preset"`
	EmotionIntensity *float64 `yaml:"emotion_intensity"`
}

// Output holds optional audio controls.
type Output struct {
	Volume     *int     `yaml:"volume"`
	AudioPitch *int     `yaml:"audio_pitch"`
	AudioTempo *float64 `yaml:"audio_tempo"`
}

// Params are the mergeable synthesis parameters. Empty strings and nil
// pointers mean "inherit".
type Params struct {
	Model        string `yaml:"model"`
	VoiceID      string `yaml:"voice_id"`
	Language     string `yaml:"language"`
	OutputFormat string `yaml:"output_format"`
	Seed         *int   `yaml:"seed"`
	Prompt       Prompt `yaml:"prompt"`
	Output       Output `yaml:"output"`
}

// Line is one voice-line entry.
type Line struct {
	Key      string `yaml:"key"`
	Text     string `yaml:"text"`
	Filename string `yaml:"filename"`
	Params   `yaml:",inline"`
}

// Set is a named group of lines sharing defaults and an output sub-directory.
type Set struct {
	Name     string `yaml:"name"`
	Subdir   string `yaml:"subdir"`
	Defaults Params `yaml:"defaults"`
	Lines    []Line `yaml:"lines"`
}

// Manifest is a parsed manifest document.
type Manifest struct {
	Defaults Params `yaml:"defaults"`
	Lines    []Line `yaml:"lines"`
	Sets     []Set  `yaml:"sets"`

	// Source names the file the manifest was read from, for error messages.
	Source string `yaml:"-"`
}

// Job is one fully resolved unit of work.
type Job struct {
	Set          string
	Key          string
	Text         string
	Filename     string
	RelPath      string
	Path         string
	Model        string
	VoiceID      string
	Language     string
	OutputFormat string
	Seed         *int
	Prompt       Prompt
	Output       Output
}

// Label identifies the job in logs and reports as "set/key", or just the key
// for ungrouped lines.
func (j Job) Label() string {
	if j.Set == "" {
		return j.Key
	}
	return j.Set + "/" + j.Key
}

// JobOptions narrows job resolution.
type JobOptions struct {
	// Only restricts resolution to the named sets. Ungrouped lines are
	// excluded whenever Only is non-empty.
	Only []string
}
