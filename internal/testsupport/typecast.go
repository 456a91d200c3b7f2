package testsupport

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// TypecastServer is an in-process stand-in for the Typecast REST API.
type TypecastServer struct {
	*httptest.Server

	mu          sync.Mutex
	speech      []map[string]any
	voiceModels []string
	// FailVoices maps voice IDs to the HTTP status returned for them.
	FailVoices map[string]int
	// Voices is served from GET /v1/voices.
	Voices []map[string]any
}

// NewTypecastServer starts a fake API and registers cleanup.
func NewTypecastServer(t testing.TB) *TypecastServer {
	t.Helper()
	fake := &TypecastServer{FailVoices: map[string]int{}}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.handle))
	t.Cleanup(fake.Close)
	return fake
}

func (s *TypecastServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-API-KEY") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"missing api key"}`)
		return
	}
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/v1/text-to-speech":
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.speech = append(s.speech, payload)
		status, fail := s.FailVoices[stringField(payload, "voice_id")]
		s.mu.Unlock()
		if fail {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"message":"voice rejected"}`)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = io.WriteString(w, "ID3:"+stringField(payload, "text"))
	case r.Method == http.MethodGet && r.URL.Path == "/v1/voices":
		s.mu.Lock()
		s.voiceModels = append(s.voiceModels, r.URL.Query().Get("model"))
		voices := s.Voices
		s.mu.Unlock()
		if voices == nil {
			voices = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(voices)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// SpeechRequests returns the decoded text-to-speech payloads received so far.
func (s *TypecastServer) SpeechRequests() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.speech...)
}

// VoiceQueries returns the model filter of each catalogue query received.
func (s *TypecastServer) VoiceQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.voiceModels...)
}

func stringField(payload map[string]any, key string) string {
	value, _ := payload[key].(string)
	return value
}
