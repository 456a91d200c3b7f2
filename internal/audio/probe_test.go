package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTone(t *testing.T, sampleRate, samples int) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	format := &goaudio.Format{SampleRate: sampleRate, NumChannels: 1}
	encoder := wav.NewEncoder(f, format.SampleRate, 16, format.NumChannels, 1)
	data := make([]int, samples)
	for i := range data {
		data[i] = (i % 64) * 256
	}
	require.NoError(t, encoder.Write(&goaudio.IntBuffer{Format: format, Data: data, SourceBitDepth: 16}))
	require.NoError(t, encoder.Close())
	require.NoError(t, f.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return raw
}

func TestWAVDuration(t *testing.T) {
	raw := writeTone(t, 16000, 8000)
	d, err := Duration("wav", raw)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, d.Seconds(), 0.01)
}

func TestWAVDurationRejectsGarbage(t *testing.T) {
	_, err := WAVDuration([]byte("ID3 definitely not riff"))
	assert.Error(t, err)
}

func TestDurationUnsupportedFormat(t *testing.T) {
	_, err := Duration("mp3", []byte("ID3"))
	assert.True(t, errors.Is(err, ErrUnsupported))
}
