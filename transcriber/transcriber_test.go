package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"murmur/encoder"
)

func TestNetworkMetricsSum(t *testing.T) {
	m := &NetworkMetrics{
		DNS:        10 * time.Millisecond,
		ConnWait:   5 * time.Millisecond,
		TCP:        20 * time.Millisecond,
		TLS:        30 * time.Millisecond,
		ReqHeaders: 1 * time.Millisecond,
		ReqBody:    40 * time.Millisecond,
		TTFB:       200 * time.Millisecond,
		Download:   4 * time.Millisecond,
	}
	want := 310 * time.Millisecond
	if got := m.Sum(); got != want {
		t.Errorf("Sum() = %v, want %v", got, want)
	}
}

func groqForServer(t *testing.T, handler http.HandlerFunc) *Groq {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGroq("test-key", encoder.FormatWAV)
	g.apiURL = srv.URL
	return g
}

func TestGroqTranscribe(t *testing.T) {
	g := groqForServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("missing auth header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-large-v3-turbo" {
			t.Errorf("model = %q", got)
		}
		w.Header().Set("x-ratelimit-remaining-requests", "41")
		w.Header().Set("x-ratelimit-limit-requests", "50")
		w.Write([]byte(`{"text":"hello world","duration":1.5}`))
	})

	res, err := g.Transcribe(context.Background(), make([]byte, 3200), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "hello world" {
		t.Errorf("text = %q", res.Text)
	}
	if res.RateLimit != "41/50" {
		t.Errorf("rate limit = %q", res.RateLimit)
	}
}

func TestGroqEmptyTextIsNotError(t *testing.T) {
	g := groqForServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"text":""}`))
	})
	res, err := g.Transcribe(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("empty text must not error: %v", err)
	}
	if res.Text != "" {
		t.Errorf("text = %q, want empty", res.Text)
	}
}

func TestGroqAPIErrorClassification(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "authentication failed"},
		{http.StatusTooManyRequests, "rate limited"},
		{http.StatusInternalServerError, "service unavailable"},
		{http.StatusBadRequest, "request rejected"},
	}
	for _, tc := range cases {
		g := groqForServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":"details"}`))
		})
		_, err := g.Transcribe(context.Background(), nil, 0)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: expected APIError, got %v", tc.status, err)
		}
		if apiErr.Status != tc.status {
			t.Errorf("status = %d, want %d", apiErr.Status, tc.status)
		}
		if !strings.Contains(apiErr.Message, tc.want) {
			t.Errorf("message %q does not mention %q", apiErr.Message, tc.want)
		}
		if apiErr.Raw == "" {
			t.Error("raw diagnostic missing")
		}
	}
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	g := NewGroq("test-key", encoder.FormatWAV)
	g.apiURL = "http://127.0.0.1:1" // nothing listens here
	_, err := g.Transcribe(context.Background(), nil, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatal("connection failure must not classify as APIError")
	}
}

func TestOpenAITranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"dictated text"}`))
	}))
	defer srv.Close()
	o := NewOpenAI("k", encoder.FormatFLAC)
	o.apiURL = srv.URL

	res, err := o.Transcribe(context.Background(), make([]byte, 320), time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "dictated text" {
		t.Errorf("text = %q", res.Text)
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := New(encoder.FormatWAV); err == nil {
		t.Fatal("expected error without API keys")
	}
	t.Setenv("GROQ_API_KEY", "x")
	tr, err := New(encoder.FormatWAV)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Name() != "groq" {
		t.Errorf("provider = %q, want groq", tr.Name())
	}
}
