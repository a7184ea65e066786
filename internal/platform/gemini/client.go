package gemini

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"dishlens/internal/dish"
)

const modelName = "gemini-1.5-flash"

// Client identifies dishes through the Gemini API. The API key is read from
// the environment on every call, so a key rotated or provisioned after
// startup is picked up without a restart.
type Client struct {
	envKey string
}

// NewClient creates a Gemini client reading its key from GEMINI_API_KEY.
func NewClient() *Client {
	return &Client{envKey: "GEMINI_API_KEY"}
}

// IdentifyDish sends the image with the fixed identification prompt and
// parses the reply into a normalized result.
func (c *Client) IdentifyDish(ctx context.Context, imageData []byte) (*dish.Result, error) {
	apiKey := os.Getenv(c.envKey)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", dish.ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	prompt := []genai.Part{
		genai.ImageData(imageFormat(imageData), imageData),
		genai.Text(dish.Prompt),
	}

	resp, err := client.GenerativeModel(modelName).GenerateContent(ctx, prompt...)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("unexpected response format from gemini")
	}

	return dish.Parse(string(text)), nil
}

// imageFormat sniffs the format tag the Gemini API expects alongside raw
// image bytes. Unrecognized data is labeled jpeg, which covers the formats
// browsers produce.
func imageFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "webp"):
		return "webp"
	case strings.Contains(contentType, "gif"):
		return "gif"
	default:
		return "jpeg"
	}
}
