package gemini

import (
	"context"

	"github.com/google/generative-ai-go/genai"
)

// MockGenerator returns a canned response and records the last request.
type MockGenerator struct {
	Response *genai.GenerateContentResponse
	Error    error
	Last     string
}

func (m *MockGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	for _, p := range parts {
		if t, ok := p.(genai.Text); ok {
			m.Last = string(t)
		}
	}
	return m.Response, m.Error
}

// NewMockClient returns a Client whose model calls are served by gen.
func NewMockClient(gen Generator) *Client {
	return &Client{
		modelName: DefaultModel,
		newModel:  func(string, string) Generator { return gen },
	}
}

// TextResponse builds a single candidate response carrying text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}}},
		},
	}
}
