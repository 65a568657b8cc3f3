package push

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

// Config holds Firebase Cloud Messaging settings
type Config struct {
	// ServerKey authenticates against the FCM HTTP API
	ServerKey string

	// Endpoint is the FCM send URL
	Endpoint string

	// TimeoutSeconds bounds each send request
	TimeoutSeconds int
}

// Validate validates the push configuration
func (c *Config) Validate() error {
	if c.ServerKey == "" {
		return fmt.Errorf("push: server key is required")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("push: endpoint is required")
	}
	return nil
}

// Notification is one push message addressed to a set of device tokens
type Notification struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// Result reports delivery per token. InvalidTokens lists tokens FCM no
// longer recognizes; callers prune them from the profile.
type Result struct {
	Delivered     int
	InvalidTokens []string
}

// FCMClient sends push notifications over the FCM HTTP API
type FCMClient struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFCMClient creates a push client with the given configuration
func NewFCMClient(config *Config, logger *zap.Logger) (*FCMClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	timeout := config.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &FCMClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		logger: logger,
	}, nil
}

type fcmRequest struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// invalidTokenErrors are FCM error codes meaning the token should be removed
var invalidTokenErrors = map[string]bool{
	"InvalidRegistration": true,
	"NotRegistered":       true,
	"MismatchSenderId":    true,
}

// Send delivers the notification to every token. Delivery is best-effort:
// per-token failures are collected, not returned as errors.
func (c *FCMClient) Send(ctx context.Context, n Notification) (*Result, error) {
	result := &Result{}
	for _, token := range n.Tokens {
		invalid, err := c.sendOne(ctx, token, n)
		if err != nil {
			c.logger.Warn("Push delivery failed",
				zap.String("title", n.Title),
				zap.Error(err))
			continue
		}
		if invalid {
			result.InvalidTokens = append(result.InvalidTokens, token)
			continue
		}
		result.Delivered++
	}
	return result, nil
}

func (c *FCMClient) sendOne(ctx context.Context, token string, n Notification) (invalid bool, err error) {
	payload := fcmRequest{
		To: token,
		Notification: fcmNotification{
			Title: n.Title,
			Body:  n.Body,
			Sound: "default",
		},
		Data:     n.Data,
		Priority: "high",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("push: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("push: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "key="+c.config.ServerKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("push: send failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return false, fmt.Errorf("push: failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("push: FCM returned status %d", resp.StatusCode)
	}

	var out fcmResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return false, fmt.Errorf("push: malformed FCM response: %w", err)
	}
	for _, r := range out.Results {
		if r.Error != "" {
			if invalidTokenErrors[r.Error] {
				return true, nil
			}
			return false, fmt.Errorf("push: FCM error: %s", r.Error)
		}
	}
	return false, nil
}
