package openaicompat

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"dishlens/internal/dish"
)

const (
	defaultBaseURL = "http://localhost:1234/v1"
	defaultModel   = "gemma-3-12b-it"
)

// Client identifies dishes through any OpenAI-compatible chat completions
// endpoint (LM Studio, Ollama, vLLM, or the hosted API). Images travel as
// base64 data URIs inside a multimodal user message.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a client for the endpoint named by OPENAI_BASE_URL.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{}}
}

// IdentifyDish sends the image with the fixed identification prompt and
// parses the reply into a normalized result. The API key is read from
// OPENAI_API_KEY at call time.
func (c *Client) IdentifyDish(ctx context.Context, imageData []byte) (*dish.Result, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("openaicompat: %w", dish.ErrMissingAPIKey)
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	} else {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.HTTPClient = c.httpClient

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	encoded := base64.StdEncoding.EncodeToString(imageData)
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: dish.Prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: "data:image/jpeg;base64," + encoded,
						},
					},
				},
			},
		},
		MaxTokens: 1024,
	}

	resp, err := openai.NewClientWithConfig(cfg).CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in model response")
	}

	return dish.Parse(resp.Choices[0].Message.Content), nil
}
