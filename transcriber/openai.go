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

type OpenAI struct {
	baseTranscriber
	apiKey string
}

func NewOpenAI(apiKey string, format encoder.Format) *OpenAI {
	apiURL := "https://api.openai.com/v1/audio/transcriptions"
	return &OpenAI{
		baseTranscriber: baseTranscriber{
			client: NewTracedClient(apiURL),
			apiURL: apiURL,
			format: format,
		},
		apiKey: apiKey,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Transcribe(ctx context.Context, pcm []byte, duration time.Duration) (Result, error) {
	encStart := time.Now()
	audioData, ext, err := encoder.Encode(o.format, pcm)
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
	writer.WriteField("model", "gpt-4o-transcribe")
	writer.WriteField("response_format", "json")
	if o.lang != "" {
		writer.WriteField("language", o.lang)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := o.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, apiError("openai", resp.StatusCode, resp.Body)
	}

	var oResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(resp.Body, &oResp); err != nil {
		return Result{}, fmt.Errorf("openai response parse error: %w", err)
	}

	o.logMetrics("openai", duration, len(pcm), len(audioData), encodeTime, resp.Metrics)

	return Result{
		Text:    oResp.Text,
		Metrics: resp.Metrics,
	}, nil
}
