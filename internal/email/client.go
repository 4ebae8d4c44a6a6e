package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lumiloops/portal-api/pkg/logger"
	"github.com/valyala/fasthttp"
)

var ErrProviderUnavailable = errors.New("email provider unavailable")

// Message is a fully rendered outbound email.
type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// SendRequest is the provider wire payload.
type SendRequest struct {
	To       string `json:"to"`
	ToName   string `json:"to_name"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
	Text     string `json:"text"`
}

type sendResponse struct {
	ID    string `json:"id"`
	Error string `json:"error,omitempty"`
}

// Sender delivers one rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, toName string, msg Message) error
}

type ClientConfig struct {
	URL      string
	APIKey   string
	From     string
	FromName string
	Timeout  time.Duration
	MaxConns int
}

// Client talks to the transactional-email provider over HTTP.
type Client struct {
	config ClientConfig
	http   *fasthttp.Client
}

func NewClient(config ClientConfig) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("provider url is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxConns == 0 {
		config.MaxConns = 64
	}

	return &Client{
		config: config,
		http: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
	}, nil
}

func (c *Client) Send(ctx context.Context, to, toName string, msg Message) error {
	payload := SendRequest{
		To:       to,
		ToName:   toName,
		From:     c.config.From,
		FromName: c.config.FromName,
		Subject:  msg.Subject,
		HTML:     msg.HTMLBody,
		Text:     msg.TextBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	respBody, statusCode, err := c.doRequest(ctx, "POST", "/api/v1/emails", body)
	if err != nil {
		return err
	}

	if statusCode != fasthttp.StatusOK && statusCode != fasthttp.StatusAccepted {
		var resp sendResponse
		if jsonErr := json.Unmarshal(respBody, &resp); jsonErr == nil && resp.Error != "" {
			return fmt.Errorf("provider rejected send: %s", resp.Error)
		}
		return fmt.Errorf("provider returned status %d", statusCode)
	}

	return nil
}

// Healthy pings the provider health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	_, statusCode, err := c.doRequest(ctx, "GET", "/health", nil)
	if err != nil {
		logger.Warn("email provider health check failed", "error", err)
		return false
	}
	return statusCode == fasthttp.StatusOK
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if c.config.APIKey != "" {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}
	if body != nil {
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	out := make([]byte, len(resp.Body()))
	copy(out, resp.Body())

	return out, resp.StatusCode(), nil
}
