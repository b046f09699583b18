package textgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const generatePath = "/models/{model}:generateContent"

// RESTClient calls generateContent over plain HTTPS. It never retries.
type RESTClient struct {
	client *resty.Client
	model  string
	apiKey string
}

// NewRESTClient builds a RESTClient from opts.
func NewRESTClient(opts Options) *RESTClient {
	opts = opts.withDefaults()
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json")

	return &RESTClient{client: client, model: opts.Model, apiKey: opts.APIKey}
}

// Generate posts prompt and returns the first candidate. A 2xx reply that
// does not decode yields an empty Reply rather than an error.
func (c *RESTClient) Generate(ctx context.Context, prompt string) (Reply, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetQueryParam("key", c.apiKey).
		SetBody(newGenerateRequest(prompt)).
		Post(generatePath)
	if err != nil {
		return Reply{}, fmt.Errorf("generate content: %w", err)
	}
	if resp.IsError() {
		return Reply{}, fmt.Errorf("%w %d", ErrUpstreamStatus, resp.StatusCode())
	}

	var out generateResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return Reply{}, nil
	}
	return out.reply(), nil
}
