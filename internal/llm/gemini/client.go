package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-screener/internal/llm"
	"resume-screener/internal/shared/telemetry"
)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models generator
	model  string
}

// NewClient creates a Gemini API client for model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: client.Models, model: model}, nil
}

func (c *Client) Provider() string { return "gemini" }

// Complete generates content for the user message with the system text as instruction.
func (c *Client) Complete(ctx context.Context, in llm.Request) (llm.Response, error) {
	temp := in.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(in.MaxTokens),
	}
	if strings.TrimSpace(in.System) != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: in.System}}}
	}
	if in.JSONOutput {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(in.User), config)
	if err != nil {
		return llm.Response{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return llm.Response{}, llm.ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return llm.Response{}, llm.ErrEmptyResponse
	}

	out := llm.Response{Text: text, Model: c.model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	telemetry.Info("llm.response", map[string]any{"provider": "gemini", "model": c.model})
	return out, nil
}

var _ llm.Client = (*Client)(nil)
