package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	timeout = 10 * time.Second

	// DefaultAPIURL is the public Bot API server
	DefaultAPIURL = "https://api.telegram.org"

	// Telegram rejects messages and captions longer than these
	MaxMessageLength = 4096
	MaxCaptionLength = 1024
)

// apiBaseURL is used by clients without WithAPIURL; tests point it at a local server
var apiBaseURL = DefaultAPIURL

// Client represents a Telegram Bot API client
type Client struct {
	botToken   string
	chatID     string
	apiURL     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithAPIURL sends requests to a different Bot API server, such as a
// self-hosted one
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = strings.TrimSuffix(apiURL, "/")
	}
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, opts ...Option) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	c := &Client{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SendMessage sends an HTML text message to the configured chat
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}
	if len([]rune(text)) > MaxMessageLength {
		return fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	}

	return c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
}

// SendPhoto sends a photo by URL with an HTML caption
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	if photoURL == "" {
		return fmt.Errorf("photo URL is required")
	}
	if len([]rune(caption)) > MaxCaptionLength {
		return fmt.Errorf("caption exceeds %d characters", MaxCaptionLength)
	}

	return c.call(ctx, "sendPhoto", map[string]interface{}{
		"chat_id":    c.chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "HTML",
	})
}

// call posts payload to a Bot API method and checks the "ok" flag
func (c *Client) call(ctx context.Context, method string, payload map[string]interface{}) error {
	base := c.apiURL
	if base == "" {
		base = apiBaseURL
	}
	url := fmt.Sprintf("%s/bot%s/%s", base, c.botToken, method)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}
