package textgen

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// SDKClient calls generateContent through the Google Gen AI SDK.
type SDKClient struct {
	client *genai.Client
	model  string
}

// NewSDKClient builds an SDKClient against the Gemini API backend.
func NewSDKClient(ctx context.Context, opts Options) (*SDKClient, error) {
	opts = opts.withDefaults()
	if opts.APIKey == "" {
		return nil, ErrNotConfigured
	}

	base, version, err := splitBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    base,
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &SDKClient{client: client, model: opts.Model}, nil
}

// Generate sends prompt as a single user turn.
func (c *SDKClient) Generate(ctx context.Context, prompt string) (Reply, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return Reply{}, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return Reply{}, nil
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 || cand.Content.Parts[0] == nil {
		return Reply{}, nil
	}
	return Reply{Text: cand.Content.Parts[0].Text}, nil
}
