// Package extract asks a Gemini model for receipt fields when no TED symbol
// can be read, and for field updates described in free-text corrections.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("extract: empty model response")

// Generator is the subset of the genai Models service the client needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey   string
	Model    string
	Timeout  time.Duration
	Location *time.Location
}

type Client struct {
	gen     Generator
	model   string
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
}

// New creates a client backed by the Gemini API.
func New(ctx context.Context, cfg Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return NewWithGenerator(gc.Models, cfg), nil
}

func NewWithGenerator(gen Generator, cfg Config) *Client {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Client{
		gen:     gen,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		loc:     loc,
		now:     time.Now,
	}
}

// generate sends parts as a single user turn and returns the cleaned JSON text.
func (c *Client) generate(ctx context.Context, system string, parts ...*genai.Part) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		},
	}

	resp, err := c.gen.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	raw := resp.Text()
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyResponse
	}

	return cleanModelJSON(raw), nil
}

// cleanModelJSON drops Markdown fences and any text around the outermost object.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}

		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	return s
}
