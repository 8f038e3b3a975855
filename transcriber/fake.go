package transcriber

import (
	"context"
	"time"
)

// FakeTranscriber returns canned results for tests and headless test mode.
type FakeTranscriber struct {
	text      string
	err       error
	rateLimit string
	lang      string

	Calls int
}

func NewFake(text string, err error) *FakeTranscriber {
	return &FakeTranscriber{text: text, err: err}
}

// SetRateLimit makes subsequent results carry the given "remaining/limit"
// header value.
func (f *FakeTranscriber) SetRateLimit(s string) { f.rateLimit = s }

func (f *FakeTranscriber) Name() string { return "fake" }

func (f *FakeTranscriber) WarmUp() {}

func (f *FakeTranscriber) SetLanguage(lang string) { f.lang = lang }

func (f *FakeTranscriber) GetLanguage() string { return f.lang }

func (f *FakeTranscriber) Transcribe(_ context.Context, _ []byte, _ time.Duration) (Result, error) {
	f.Calls++
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{Text: f.text, RateLimit: f.rateLimit, Metrics: &NetworkMetrics{}}, nil
}
