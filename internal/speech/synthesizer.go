// Package speech narrates scripts through the OpenAI text-to-speech API.
package speech

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
)

const (
	ttsModel  = "tts-1"
	ttsVoice  = "alloy"
	ttsFormat = "mp3"

	// Provider input ceiling and the truncation point that leaves headroom
	// for the appended ellipsis marker.
	maxInputChars      = 4000
	truncateInputChars = 3950
	ellipsis           = "..."
)

// Synthesizer converts script text to an mp3 byte stream.
type Synthesizer struct {
	http   *resty.Client
	apiKey string
}

func NewSynthesizer(baseURL, apiKey string) *Synthesizer {
	return &Synthesizer{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(120 * time.Second),
		apiKey: apiKey,
	}
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

// Truncate bounds text to the provider ceiling. Text at or under 4000 chars
// passes unmodified; anything longer is cut to 3950 chars plus an ellipsis.
// Limits count runes, never bytes, so multibyte scripts are not bisected.
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxInputChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:truncateInputChars]) + ellipsis
}

// Synthesize narrates text, truncating oversized input first, and returns the
// raw audio bytes.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(s.apiKey).
		SetBody(speechRequest{
			Model:          ttsModel,
			Voice:          ttsVoice,
			Input:          Truncate(text),
			ResponseFormat: ttsFormat,
		}).
		Post("/v1/audio/speech")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("speech synthesis status %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}
