package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type envelope struct {
	IsSuccess     bool            `json:"is_success"`
	OfficialEmail string          `json:"official_email"`
	Data          json.RawMessage `json:"data"`
	Message       *string         `json:"message"`
}

type response struct {
	status int
	body   []byte
}

func (r response) envelope() (envelope, error) {
	var env envelope
	if err := json.Unmarshal(r.body, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

type client struct {
	resty *resty.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		resty: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetRetryCount(0),
	}
}

func (c *client) do(ctx context.Context, method, path, body string) (response, error) {
	req := c.resty.R().SetContext(ctx)
	if body != "" {
		req.SetHeader("Content-Type", "application/json").SetBody([]byte(body))
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return response{status: resp.StatusCode(), body: resp.Body()}, nil
}

func compactJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
