// Package research queries the Exa semantic search API and renders research
// summaries for the script composer.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultNumResults is the top-N used by the generation pipeline.
const DefaultNumResults = 5

// Result is one ranked search hit with highlighted snippets.
type Result struct {
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights"`
}

// Client issues neural-ranked keyword queries against Exa.
type Client struct {
	http   *resty.Client
	apiKey string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(30 * time.Second),
		apiKey: apiKey,
	}
}

type searchRequest struct {
	Query      string         `json:"query"`
	Type       string         `json:"type"`
	NumResults int            `json:"numResults"`
	Contents   searchContents `json:"contents"`
}

type searchContents struct {
	Text       bool `json:"text"`
	Highlights bool `json:"highlights"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search returns the top-N neural-ranked results with highlights. Failures
// propagate; the caller decides whether they are fatal.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetBody(searchRequest{
			Query:      query,
			Type:       "neural",
			NumResults: numResults,
			Contents:   searchContents{Text: true, Highlights: true},
		}).
		SetResult(&out).
		Post("/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("exa search status %d: %s", resp.StatusCode(), resp.String())
	}
	return out.Results, nil
}

// Summary renders results as a numbered research summary: title line followed
// by joined highlights, falling back to a 200-char text prefix.
func Summary(results []Result) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		snippet := strings.Join(r.Highlights, " ")
		if snippet == "" {
			snippet = prefix(r.Text, 200)
		}
		blocks = append(blocks, fmt.Sprintf("%d. %s\n%s", i+1, r.Title, snippet))
	}
	return strings.Join(blocks, "\n\n")
}

// ContentPreview returns the bounded text prefix used by the research API
// response shape.
func (r Result) ContentPreview() string { return prefix(r.Text, 500) }

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// HealthPing reports whether the provider is usable. The original surface
// only checks key presence, so no network round-trip is made.
func (c *Client) HealthPing(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("exa api key not configured")
	}
	return nil
}
