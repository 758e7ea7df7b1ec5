package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"resume-screener/internal/llm"
)

type fakeModels struct {
	model  string
	config *genai.GenerateContentConfig
	user   string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.user = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 8,
			TotalTokenCount:      20,
		},
	}
}

func TestCompletePassesConfig(t *testing.T) {
	fake := &fakeModels{resp: textResponse(` {"skills": ["Go"]} `)}
	c := &Client{models: fake, model: "gemini-2.5-flash"}

	resp, err := c.Complete(context.Background(), llm.Request{
		System:      "Return only valid JSON.",
		User:        "resume text",
		MaxTokens:   800,
		Temperature: 0.3,
		JSONOutput:  true,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Text != `{"skills": ["Go"]}` {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 20 {
		t.Fatalf("unexpected usage %+v", resp.Usage)
	}
	if fake.model != "gemini-2.5-flash" || fake.user != "resume text" {
		t.Fatalf("unexpected call model=%q user=%q", fake.model, fake.user)
	}
	if fake.config.MaxOutputTokens != 800 || fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("unexpected config %+v", fake.config)
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != "Return only valid JSON." {
		t.Fatalf("expected system instruction")
	}
}

func TestCompleteErrors(t *testing.T) {
	c := &Client{models: &fakeModels{err: errors.New("quota exceeded")}, model: "m"}
	if _, err := c.Complete(context.Background(), llm.Request{User: "x"}); err == nil {
		t.Fatalf("expected provider error")
	}

	c = &Client{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: "m"}
	if _, err := c.Complete(context.Background(), llm.Request{User: "x"}); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "gemini-2.5-flash"); err == nil {
		t.Fatalf("expected missing key error")
	}
}
