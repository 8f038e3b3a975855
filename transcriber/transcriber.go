package transcriber

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"murmur/encoder"
	"murmur/log"
)

// Transcriber converts a finished recording into text. Implementations must
// tolerate arbitrarily small blobs; absence of speech is signaled by empty
// Result.Text, never by an error.
type Transcriber interface {
	Name() string
	SetLanguage(lang string)
	GetLanguage() string
	// WarmUp pre-establishes the TLS session so the first upload is fast.
	WarmUp()
	Transcribe(ctx context.Context, pcm []byte, duration time.Duration) (Result, error)
}

type Result struct {
	Text      string
	RateLimit string // "remaining/limit" or empty
	Metrics   *NetworkMetrics
}

// APIError is a request the service rejected, classified by HTTP status.
// Raw carries the response body for detail inspection.
type APIError struct {
	Status  int
	Message string
	Raw     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transcription API error %d: %s", e.Status, e.Message)
}

func apiError(provider string, status int, body []byte) *APIError {
	var msg string
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		msg = provider + ": authentication failed (check API key)"
	case status == http.StatusTooManyRequests:
		msg = provider + ": rate limited, try again shortly"
	case status >= 500:
		msg = provider + ": service unavailable"
	default:
		msg = fmt.Sprintf("%s: request rejected (%d)", provider, status)
	}
	return &APIError{Status: status, Message: msg, Raw: string(body)}
}

type baseTranscriber struct {
	client *TracedClient
	apiURL string
	format encoder.Format
	lang   string
}

func (b *baseTranscriber) SetLanguage(lang string) { b.lang = lang }

func (b *baseTranscriber) GetLanguage() string { return b.lang }

func (b *baseTranscriber) WarmUp() { go b.client.Warm() }

// logMetrics writes the per-request diagnostic record: payload sizes, encode
// time, and the network breakdown from the traced client.
func (b *baseTranscriber) logMetrics(provider string, duration time.Duration, rawLen, encLen int, encodeTime time.Duration, m *NetworkMetrics) {
	if m == nil {
		return
	}
	pct := 0.0
	if rawLen > 0 {
		pct = 100 - float64(encLen)/float64(rawLen)*100
	}
	log.TranscriptionMetrics(log.Metrics{
		AudioLengthS:     duration.Seconds(),
		RawSizeKB:        float64(rawLen) / 1024,
		CompressedSizeKB: float64(encLen) / 1024,
		CompressionPct:   pct,
		EncodeTimeMs:     float64(encodeTime.Milliseconds()),
		DNSTimeMs:        float64(m.DNS.Milliseconds()),
		TLSTimeMs:        float64(m.TLS.Milliseconds()),
		TTFBMs:           float64(m.TTFB.Milliseconds()),
		TotalTimeMs:      float64(m.Total.Milliseconds()),
	}, string(b.format), provider, m.ConnReused, m.TLSProtocol)
}

func firstNonEmpty(h http.Header, keys ...string) string {
	for _, k := range keys {
		if v := h.Get(k); v != "" {
			return v
		}
	}
	return "?"
}

// New picks a provider from the environment.
func New(format encoder.Format) (Transcriber, error) {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		return NewGroq(key, format), nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAI(key, format), nil
	}
	return nil, fmt.Errorf("set GROQ_API_KEY or OPENAI_API_KEY environment variable")
}
