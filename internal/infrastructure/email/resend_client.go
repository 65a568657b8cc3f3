package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxResponseSize limits the response body size to prevent memory exhaustion
const maxResponseSize = 1 * 1024 * 1024

// Config holds settings for the transactional email API
type Config struct {
	// APIKey authenticates against the email API
	APIKey string

	// BaseURL is the email API endpoint, e.g. https://api.resend.com
	BaseURL string

	// FromName and FromEmail form the sender identity
	FromName  string
	FromEmail string

	// TimeoutSeconds bounds each send request
	TimeoutSeconds int
}

// Validate validates the email configuration
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("email: API key is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("email: base URL is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("email: from address is required")
	}
	return nil
}

// Message is a single outbound email
type Message struct {
	To      string
	Subject string
	HTML    string
	ReplyTo string
}

// Client sends transactional email over the Resend HTTP API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an email client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 15
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Send delivers one email. The caller decides whether a failure is fatal;
// notification flows log and continue.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email: recipient is required")
	}

	payload := sendRequest{
		From:    fmt.Sprintf("%s <%s>", c.config.FromName, c.config.FromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("email: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Email send failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("email: send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("email: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr sendResponse
		_ = json.Unmarshal(respBody, &apiErr)
		c.logger.Error("Email API rejected send",
			zap.String("to", msg.To),
			zap.Int("status", resp.StatusCode),
			zap.String("api_message", apiErr.Message))
		return fmt.Errorf("email: API returned status %d", resp.StatusCode)
	}

	var out sendResponse
	_ = json.Unmarshal(respBody, &out)
	c.logger.Debug("Email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("message_id", out.ID))
	return nil
}
