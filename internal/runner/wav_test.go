package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"voicegen/internal/synth"
)

type wavSynth struct {
	clip []byte
}

func (w wavSynth) Synthesize(context.Context, synth.Request) (*synth.Result, error) {
	return &synth.Result{Audio: w.clip, Format: "wav"}, nil
}

func (w wavSynth) ListVoices(context.Context, string) ([]synth.Voice, error) { return nil, nil }

func oneSecondClip(t *testing.T) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	format := &goaudio.Format{SampleRate: 8000, NumChannels: 1}
	enc := wav.NewEncoder(f, format.SampleRate, 16, format.NumChannels, 1)
	if err := enc.Write(&goaudio.IntBuffer{Format: format, Data: make([]int, 8000), SourceBitDepth: 16}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestRunProbesWAVDuration(t *testing.T) {
	out := t.TempDir()
	doc := "defaults: {model: m, voice_id: v, output_format: wav}\nlines: [{key: intro, text: Hi}]"
	clip := oneSecondClip(t)

	summary, err := New(wavSynth{clip: clip}).Run(context.Background(), loadJobs(t, doc, out), Options{OutDir: out})
	if err != nil {
		t.Fatal(err)
	}
	res := summary.Results[0]
	if res.Duration.Seconds() < 0.99 || res.Duration.Seconds() > 1.01 {
		t.Fatalf("expected ~1s duration, got %v", res.Duration)
	}
	written, _ := os.ReadFile(res.Path)
	if !bytes.Equal(written, clip) {
		t.Fatal("written clip differs from synthesized audio")
	}
}
