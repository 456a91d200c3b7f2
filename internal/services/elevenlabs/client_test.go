package elevenlabs

import (
	"context"
	"errors"
	"testing"
	"time"

	"voicegen/internal/services"
)

type fakeBackend struct {
	audio   []byte
	err     error
	catalog []Voice
	calls   []string
}

func (f *fakeBackend) textToSpeech(voiceID, modelID, text string) ([]byte, error) {
	f.calls = append(f.calls, voiceID+"|"+modelID+"|"+text)
	return f.audio, f.err
}

func (f *fakeBackend) voices() ([]Voice, error) {
	f.calls = append(f.calls, "voices")
	return f.catalog, f.err
}

func newTestClient(cfg Config, fake *fakeBackend) (*Client, *time.Duration) {
	var seen time.Duration
	client := NewClient(cfg)
	client.factory = func(_ context.Context, _ string, timeout time.Duration) backend {
		seen = timeout
		return fake
	}
	return client, &seen
}

func TestTextToSpeechPassesVoiceAndModel(t *testing.T) {
	fake := &fakeBackend{audio: []byte("mp3")}
	client, timeout := newTestClient(Config{APIKey: "k", TimeoutSeconds: 5}, fake)

	audio, err := client.TextToSpeech(context.Background(), "voice-1", "eleven_multilingual_v2", "Hi")
	if err != nil {
		t.Fatalf("TextToSpeech returned error: %v", err)
	}
	if string(audio) != "mp3" {
		t.Fatalf("unexpected audio %q", audio)
	}
	if len(fake.calls) != 1 || fake.calls[0] != "voice-1|eleven_multilingual_v2|Hi" {
		t.Fatalf("unexpected calls %v", fake.calls)
	}
	if *timeout != 5*time.Second {
		t.Fatalf("expected configured timeout, got %v", *timeout)
	}
}

func TestTextToSpeechWrapsErrors(t *testing.T) {
	fake := &fakeBackend{err: errors.New("401 unauthorized")}
	client, _ := newTestClient(Config{APIKey: "k"}, fake)

	_, err := client.TextToSpeech(context.Background(), "v", "m", "Hi")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service marker, got %v", err)
	}

	fake.err = nil
	if _, err := client.TextToSpeech(context.Background(), "v", "m", "Hi"); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected empty audio to fail, got %v", err)
	}
}

func TestRequiresAPIKey(t *testing.T) {
	fake := &fakeBackend{}
	client, _ := newTestClient(Config{}, fake)
	if _, err := client.ListVoices(context.Background()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", fake.calls)
	}
}

func TestListVoices(t *testing.T) {
	fake := &fakeBackend{catalog: []Voice{{VoiceID: "a", Name: "Rachel"}}}
	client, timeout := newTestClient(Config{APIKey: "k"}, fake)
	voices, err := client.ListVoices(context.Background())
	if err != nil {
		t.Fatalf("ListVoices returned error: %v", err)
	}
	if len(voices) != 1 || voices[0].Name != "Rachel" {
		t.Fatalf("unexpected voices %+v", voices)
	}
	if *timeout != defaultTimeout {
		t.Fatalf("expected default timeout, got %v", *timeout)
	}
}
