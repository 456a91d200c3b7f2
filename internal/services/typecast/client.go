package typecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"voicegen/internal/services"
)

const (
	// DefaultBaseURL is the public Typecast API host.
	DefaultBaseURL = "https://api.typecast.ai"
	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-API-KEY"

	speechPath            = "/v1/text-to-speech"
	voicesPath            = "/v1/voices"
	component             = "typecast"
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3
)

// Config captures the runtime settings required to talk to Typecast.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// Client issues Typecast API requests.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default attempt count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a Typecast client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = DefaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Prompt controls the emotional rendering of a line.
type Prompt struct {
	EmotionPreset    string   `json:"emotion_preset,omitempty"`
	EmotionIntensity *float64 `json:"emotion_intensity,omitempty"`
}

// Output controls loudness, pitch, tempo and container format.
type Output struct {
	Volume      *int     `json:"volume,omitempty"`
	AudioPitch  *int     `json:"audio_pitch,omitempty"`
	AudioTempo  *float64 `json:"audio_tempo,omitempty"`
	AudioFormat string   `json:"audio_format,omitempty"`
}

// SpeechRequest is the JSON body of POST /v1/text-to-speech.
type SpeechRequest struct {
	VoiceID  string  `json:"voice_id"`
	Text     string  `json:"text"`
	Model    string  `json:"model"`
	Language string  `json:"language,omitempty"`
	Prompt   *Prompt `json:"prompt,omitempty"`
	Output   *Output `json:"output,omitempty"`
	Seed     *int    `json:"seed,omitempty"`
}

// Speech is the synthesized audio returned by the API.
type Speech struct {
	Audio       []byte
	ContentType string
}

// Voice describes a catalogue entry from GET /v1/voices.
type Voice struct {
	VoiceID   string   `json:"voice_id"`
	VoiceName string   `json:"voice_name"`
	Model     string   `json:"model"`
	Language  string   `json:"language,omitempty"`
	Emotions  []string `json:"emotions,omitempty"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, summarizeBody(e.Body))
}

// HTTPStatus exposes the status code to services.HTTPStatus.
func (e *httpStatusError) HTTPStatus() int {
	return e.StatusCode
}

// TextToSpeech synthesizes req and returns the audio bytes.
func (c *Client) TextToSpeech(ctx context.Context, req SpeechRequest) (*Speech, error) {
	const op = "text-to-speech"
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "api key required", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "text required", nil)
	}
	if req.VoiceID == "" || req.Model == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "voice_id and model required", nil)
	}
	encoded, err := json.Marshal(req)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op, "encode body", err)
	}

	body, header, err := c.doWithRetry(ctx, http.MethodPost, speechPath, nil, encoded)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op, fmt.Sprintf("voice %s", req.VoiceID), err)
	}
	if len(body) == 0 {
		return nil, services.Wrap(services.ErrExternalService, component, op, "empty audio response", nil)
	}
	contentType := header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		return nil, services.Wrap(services.ErrExternalService, component, op,
			"expected audio, got json: "+summarizeBody(string(body)), nil)
	}
	return &Speech{Audio: body, ContentType: contentType}, nil
}

// ListVoices returns the voice catalogue, optionally filtered by model.
func (c *Client) ListVoices(ctx context.Context, model string) ([]Voice, error) {
	const op = "list voices"
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, component, op, "api key required", nil)
	}
	query := url.Values{}
	if model = strings.TrimSpace(model); model != "" {
		query.Set("model", model)
	}
	body, _, err := c.doWithRetry(ctx, http.MethodGet, voicesPath, query, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op, "", err)
	}
	voices, err := decodeVoices(body)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, component, op,
			"decode response: "+summarizeBody(string(body)), err)
	}
	return voices, nil
}

// decodeVoices accepts either a bare array or an object with a "voices" or
// "result" array.
func decodeVoices(body []byte) ([]Voice, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}
	if trimmed[0] == '[' {
		var voices []Voice
		if err := json.Unmarshal(trimmed, &voices); err != nil {
			return nil, err
		}
		return voices, nil
	}
	var envelope struct {
		Voices []Voice `json:"voices"`
		Result []Voice `json:"result"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Voices) > 0 {
		return envelope.Voices, nil
	}
	return envelope.Result, nil
}

func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, http.Header, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		body, header, err := c.sendOnce(ctx, method, path, query, payload)
		if err == nil {
			return body, header, nil
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			if isTransient(err) {
				err = fmt.Errorf("%w: %w", services.ErrTransient, err)
			}
			if attempt > 1 {
				return nil, nil, fmt.Errorf("failed after %d attempts: %w", attempt, err)
			}
			return nil, nil, err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, nil, err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return nil, nil, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) sendOnce(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, http.Header, error) {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return nil, nil, fmt.Errorf("build url: %w", err)
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.cfg.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", id)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("http error (timeout=%s): %w", c.timeoutDuration(), err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read body (timeout=%s): %w", c.timeoutDuration(), err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, nil, &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
			RetryAfter: retryAfter,
		}
	}
	return body, resp.Header, nil
}

func (c *Client) timeoutDuration() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}

func (c *Client) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || ctx == nil || ctx.Err() != nil {
		return 0, false
	}
	if !isTransient(err) {
		return 0, false
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		return c.capDelay(statusErr.RetryAfter), true
	}
	return c.backoffDelay(attempt), true
}

// isTransient reports whether a later attempt could succeed: 408, 429, 5xx
// and network timeouts.
func isTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusRequestTimeout ||
			statusErr.StatusCode == http.StatusTooManyRequests ||
			statusErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c != nil {
		if c.retryBaseDelay >= 0 {
			base = c.retryBaseDelay
		}
		if c.retryMaxDelay > 0 {
			maxDelay = c.retryMaxDelay
		}
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}

	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := defaultRetryMaxDelay
	if c != nil && c.retryMaxDelay > 0 {
		maxDelay = c.retryMaxDelay
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func summarizeBody(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
