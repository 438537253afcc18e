package analyzer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const itemPrompt = `You are an inventory assistant. Look at the photo and return a JSON object
with the fields: name, category, description, tags (array of strings) and
confidence (0-1). Return only the JSON object, nothing else.`

// Config holds the bring-your-own-key settings for the vision endpoint.
type Config struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// OpenAIClient talks to any chat-completions endpoint that accepts
// OpenAI-style image messages.
type OpenAIClient struct {
	config Config
	client *http.Client
}

func NewOpenAIClient(conf Config) *OpenAIClient {
	if conf.Timeout == 0 {
		conf.Timeout = 60 * time.Second
	}
	return &OpenAIClient{
		config: conf,
		client: &http.Client{Timeout: conf.Timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
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

func (c *OpenAIClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*Result, error) {
	if c.config.Endpoint == "" || c.config.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	reqBody := chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: itemPrompt},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "analyzer: marshal request")
	}

	url := strings.TrimRight(c.config.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "analyzer: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(ErrUnreachable, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "analyzer: read response")
	}

	// A non-auth HTTP error is scoped to the single item; ErrUnreachable is
	// reserved for connection-level failures from client.Do above.
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrAuth
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("analyzer: status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, errors.Wrap(err, "analyzer: decode response")
	}
	if chat.Error != nil {
		return nil, errors.Errorf("analyzer: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return nil, errors.New("analyzer: empty response")
	}

	return parseResult(chat.Choices[0].Message.Content)
}

// parseResult tolerates models that wrap the JSON in a markdown fence.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, errors.Wrap(err, "analyzer: malformed model output")
	}
	if result.Name == "" {
		return nil, errors.New("analyzer: model output missing item name")
	}
	return &result, nil
}

var _ Analyzer = (*OpenAIClient)(nil)
