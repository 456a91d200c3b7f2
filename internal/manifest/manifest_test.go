package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicegen/internal/services"
)

const sample = `
defaults:
  model: ssfm-v21
  voice_id: tc_default
  language: en
  prompt:
    emotion_preset: normal
    emotion_intensity: 1.0
  output:
    volume: 100
lines:
  - key: greeting
    text: "Hello there"
    filename: hello.mp3
sets:
  - name: colors
    subdir: color
    defaults:
      language: ko-KR
      output_format: wav
      prompt:
        emotion_preset: happy
    lines:
      - key: red
        text: "Red!"
      - key: blue
        text: "Blue!"
        voice_id: tc_override
        output:
          audio_tempo: 1.5
  - name: numbers
    lines:
      - key: one
        text: "One"
`

func TestParseAndResolveJobs(t *testing.T) {
	m, err := Parse([]byte(sample), "voice_sets.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"colors", "numbers"}, m.SetNames())

	out := t.TempDir()
	jobs, err := m.Jobs(out, JobOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	greeting := jobs[0]
	assert.Equal(t, "greeting", greeting.Label())
	assert.Equal(t, filepath.Join(out, "hello.mp3"), greeting.Path)
	assert.Equal(t, "eng", greeting.Language)
	assert.Equal(t, "mp3", greeting.OutputFormat)

	red := jobs[1]
	assert.Equal(t, "colors/red", red.Label())
	assert.Equal(t, "tc_default", red.VoiceID)
	assert.Equal(t, "kor", red.Language)
	assert.Equal(t, "wav", red.OutputFormat)
	require.NotNil(t, red.Prompt.EmotionPreset)
	assert.Equal(t, "happy", *red.Prompt.EmotionPreset)
	require.NotNil(t, red.Prompt.EmotionIntensity)
	assert.Equal(t, 1.0, *red.Prompt.EmotionIntensity)
	assert.Equal(t, filepath.Join(out, "color", DeriveFilename("colors", "red", "Red!", "wav")), red.Path)

	blue := jobs[2]
	assert.Equal(t, "tc_override", blue.VoiceID, "line override wins")
	require.NotNil(t, blue.Output.AudioTempo)
	assert.Equal(t, 1.5, *blue.Output.AudioTempo)
	require.NotNil(t, blue.Output.Volume, "output block merges key by key")
	assert.Equal(t, 100, *blue.Output.Volume)

	one := jobs[3]
	assert.Equal(t, "tc_default", one.VoiceID, "override does not leak to other lines")
	assert.Equal(t, "eng", one.Language)
	assert.Equal(t, filepath.Join(out, one.Filename), one.Path)
}

func TestDeriveFilenameIsStable(t *testing.T) {
	name := DeriveFilename("Colors", "Red Alert", "Red!", "mp3")
	assert.Equal(t, name, DeriveFilename("Colors", "Red Alert", "Red!", "mp3"))
	assert.Regexp(t, `^colors-red-alert-[0-9a-f]{8}\.mp3$`, name)
	assert.NotEqual(t, name, DeriveFilename("Colors", "Red Alert", "Red!!", "mp3"))
	assert.Regexp(t, `^intro-[0-9a-f]{8}\.wav$`, DeriveFilename("", "intro", "x", "wav"))
}

func TestJobsOnlyFilter(t *testing.T) {
	m, err := Parse([]byte(sample), "")
	require.NoError(t, err)

	jobs, err := m.Jobs("out", JobOptions{Only: []string{"numbers"}})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "numbers/one", jobs[0].Label())

	_, err = m.Jobs("out", JobOptions{Only: []string{"shapes"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)
	assert.Contains(t, err.Error(), "colors, numbers")
}

func TestMissingModelIsConfigError(t *testing.T) {
	doc := `
defaults:
  voice_id: tc_1
lines:
  - key: a
    text: "A"
`
	_, err := Parse([]byte(doc), "m.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)
	assert.Contains(t, err.Error(), "missing model/voice_id")
	assert.Contains(t, err.Error(), "m.yaml")
}

func TestLineSuppliesModelAndVoice(t *testing.T) {
	doc := `
lines:
  - key: a
    text: "A"
    model: ssfm-v21
    voice_id: tc_1
`
	m, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	jobs, err := m.Jobs("out", JobOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "ssfm-v21", jobs[0].Model)
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	cases := map[string]string{
		"empty":            ``,
		"not a mapping":    `- a`,
		"unknown key":      "defaults: {model: m, voice_id: v}\nextra: 1\nlines: [{key: a, text: A}]",
		"unknown line key": "defaults: {model: m, voice_id: v}\nlines: [{key: a, text: A, colour: red}]",
		"no lines":         "defaults: {model: m, voice_id: v}",
		"blank text":       "defaults: {model: m, voice_id: v}\nlines: [{key: a, text: '  '}]",
		"missing key":      "defaults: {model: m, voice_id: v}\nlines: [{text: A}]",
		"unnamed set":      "defaults: {model: m, voice_id: v}\nsets: [{lines: [{key: a, text: A}]}]",
		"duplicate set":    "defaults: {model: m, voice_id: v}\nsets: [{name: s, lines: [{key: a, text: A}]}, {name: s, lines: [{key: b, text: B}]}]",
		"empty set":        "defaults: {model: m, voice_id: v}\nsets: [{name: s}]",
		"bad format":       "defaults: {model: m, voice_id: v, output_format: ogg}\nlines: [{key: a, text: A}]",
		"bad language":     "defaults: {model: m, voice_id: v, language: '123!'}\nlines: [{key: a, text: A}]",
		"bad intensity":    "defaults: {model: m, voice_id: v, prompt: {emotion_intensity: 3}}\nlines: [{key: a, text: A}]",
		"bad volume":       "defaults: {model: m, voice_id: v, output: {volume: 500}}\nlines: [{key: a, text: A}]",
		"bad pitch":        "defaults: {model: m, voice_id: v, output: {audio_pitch: -13}}\nlines: [{key: a, text: A}]",
		"bad tempo":        "defaults: {model: m, voice_id: v, output: {audio_tempo: 0.1}}\nlines: [{key: a, text: A}]",
		"path filename":    "defaults: {model: m, voice_id: v}\nlines: [{key: a, text: A, filename: ../a.mp3}]",
		"lock filename":    "defaults: {model: m, voice_id: v}\nlines: [{key: a, text: A, filename: .voicegen.lock}]",
		"lock in set":      "defaults: {model: m, voice_id: v}\nsets: [{name: s, lines: [{key: a, text: A, filename: .VoiceGen.lock}]}]",
		"escaping subdir":  "defaults: {model: m, voice_id: v}\nsets: [{name: s, subdir: ../up, lines: [{key: a, text: A}]}]",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "")
			require.Error(t, err)
			assert.ErrorIs(t, err, services.ErrConfiguration)
		})
	}
}

func TestJobsRejectsDuplicatePaths(t *testing.T) {
	doc := `
defaults: {model: m, voice_id: v}
lines:
  - {key: a, text: A, filename: same.mp3}
  - {key: b, text: B, filename: same.mp3}
`
	m, err := Parse([]byte(doc), "")
	require.NoError(t, err)
	_, err = m.Jobs("out", JobOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)
	assert.Contains(t, err.Error(), "a and b both write same.mp3")
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice_sets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Source)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, services.ErrConfiguration)
}

func TestISO3(t *testing.T) {
	for in, want := range map[string]string{
		"en":    "eng",
		"en-US": "eng",
		"eng":   "eng",
		"ko-kr": "kor",
		"ja":    "jpn",
		"zh-CN": "zho",
		"de":    "deu",
	} {
		got, err := ISO3(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ISO3("")
	assert.Error(t, err)
}

func TestLockFileNameIsReserved(t *testing.T) {
	_, err := Parse([]byte("defaults: {model: m, voice_id: v}\nlines: [{key: a, text: A, filename: "+LockFileName+"}]"), "voice_sets.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrConfiguration)
	assert.Contains(t, err.Error(), "reserved for the run lock")
}
