package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/campus-events/backend/config"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("extraction model is not configured")

// Client calls an OpenAI-compatible chat completions endpoint with an
// attached document and a structured-output schema.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an extraction client from configuration.
func NewClient(cfg config.ExtractorConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat any           `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends the document to the model and returns the parsed rows.
// A nil error with zero rows means the model found no student records,
// which callers surface separately from a hard failure.
func (c *Client) Extract(ctx context.Context, contentType string, document []byte) ([]StudentRow, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(document)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: extractionInstruction},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
				},
			},
		},
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "student_records",
				"strict": true,
				"schema": json.RawMessage(extractionSchema),
			},
		},
	}
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		c.logger.Warn("model returned error", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, fmt.Errorf("model error: %s", msg)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	var out struct {
		Students []StudentRow `json:"students"`
	}
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("decode extracted rows: %w", err)
	}
	if out.Students == nil {
		out.Students = []StudentRow{}
	}
	return out.Students, nil
}
