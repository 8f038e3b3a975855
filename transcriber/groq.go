package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"murmur/encoder"
)

type Groq struct {
	baseTranscriber
	apiKey string
}

func NewGroq(apiKey string, format encoder.Format) *Groq {
	apiURL := "https://api.groq.com/openai/v1/audio/transcriptions"
	return &Groq{
		baseTranscriber: baseTranscriber{
			client: NewTracedClient(apiURL),
			apiURL: apiURL,
			format: format,
		},
		apiKey: apiKey,
	}
}

func (g *Groq) Name() string { return "groq" }

type groqResponse struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

func (g *Groq) Transcribe(ctx context.Context, pcm []byte, duration time.Duration) (Result, error) {
	encStart := time.Now()
	audioData, ext, err := encoder.Encode(g.format, pcm)
	if err != nil {
		return Result{}, err
	}
	encodeTime := time.Since(encStart)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "audio."+ext)
	if err != nil {
		return Result{}, err
	}
	if _, err := part.Write(audioData); err != nil {
		return Result{}, err
	}
	writer.WriteField("model", "whisper-large-v3-turbo")
	writer.WriteField("response_format", "json")
	if g.lang != "" {
		writer.WriteField("language", g.lang)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("groq request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, apiError("groq", resp.StatusCode, resp.Body)
	}

	var gResp groqResponse
	if err := json.Unmarshal(resp.Body, &gResp); err != nil {
		return Result{}, fmt.Errorf("groq response parse error: %w", err)
	}

	remaining := firstNonEmpty(resp.Header, "x-ratelimit-remaining-requests")
	limit := firstNonEmpty(resp.Header, "x-ratelimit-limit-requests")

	g.logMetrics("groq", duration, len(pcm), len(audioData), encodeTime, resp.Metrics)

	return Result{
		Text:      gResp.Text,
		RateLimit: remaining + "/" + limit,
		Metrics:   resp.Metrics,
	}, nil
}
