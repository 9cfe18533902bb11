// Package script turns research findings into a two-host podcast dialogue via
// the OpenAI chat completions API.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	chatModel   = "gpt-4-turbo-preview"
	maxTokens   = 2000
	temperature = 0.7

	// Fixed persona prompt: two named hosts, target length, dialogue-label
	// format. Keywords and research are supplied in the user message.
	systemPrompt = "You are a professional podcast scriptwriter who creates engaging conversations " +
		"between two hosts: Alex (curious and asks great questions) and Sam (knowledgeable and " +
		"explains well). Create a natural, conversational 5-7 minute podcast script based on the " +
		"research provided. Include speaker labels (Alex: and Sam:) for each line of dialogue."
)

// Composer sends prompts to the chat completions endpoint.
type Composer struct {
	http   *resty.Client
	apiKey string
}

func NewComposer(baseURL, apiKey string) *Composer {
	return &Composer{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(120 * time.Second),
		apiKey: apiKey,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Compose returns the first completion choice's text. An empty choice list is
// tolerated and yields an empty script, not an error.
func (c *Composer) Compose(ctx context.Context, keywords, researchSummary string) (string, error) {
	var out chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(chatRequest{
			Model: chatModel,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: fmt.Sprintf("Create a podcast script about: %s\n\nResearch findings:\n%s", keywords, researchSummary)},
			},
			MaxTokens:   maxTokens,
			Temperature: temperature,
		}).
		SetResult(&out).
		Post("/v1/chat/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// HealthPing reports whether the provider is usable (key presence only).
func (c *Composer) HealthPing(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("openai api key not configured")
	}
	return nil
}
