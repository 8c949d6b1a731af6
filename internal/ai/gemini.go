package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// NewGeminiClient builds a ranking client backed by the Gemini API.
func NewGeminiClient(ctx context.Context, apiKey string, log *zap.Logger, opts ClientOptions) (*Client, func() error, error) {
	if apiKey == "" {
		return nil, nil, fmt.Errorf("gemini API key is required")
	}
	sdk, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newClient(&geminiGenerator{sdk: sdk}, log, opts), sdk.Close, nil
}

// geminiGenerator adapts the Gemini SDK to the generator seam, mapping
// provider capacity errors onto ErrProviderOverload.
type geminiGenerator struct {
	sdk *genai.Client
}

func (g *geminiGenerator) generate(ctx context.Context, model string, parts []Part) (string, error) {
	m := g.sdk.GenerativeModel(model)
	m.SetTemperature(0.1)
	m.ResponseMIMEType = "application/json"

	in := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.FileURI != "" {
			in = append(in, genai.FileData{MIMEType: p.MIMEType, URI: p.FileURI})
			continue
		}
		in = append(in, genai.Text(p.Text))
	}

	resp, err := m.GenerateContent(ctx, in...)
	if err != nil {
		if isOverload(err) {
			return "", fmt.Errorf("%w: %v", ErrProviderOverload, err)
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return extractText(resp)
}

// isOverload classifies transient provider-side capacity failures: rate
// limiting and service unavailability, by HTTP status or gRPC status text.
func isOverload(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code == 503
	}
	msg := err.Error()
	return strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(strings.ToLower(msg), "overloaded")
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var texts []string
	for _, part := range content.Parts {
		if text, ok := part.(genai.Text); ok {
			texts = append(texts, string(text))
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(texts, ""), nil
}
