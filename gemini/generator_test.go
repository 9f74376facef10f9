package gemini_test

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// scriptedGenerator replays canned responses and records every request.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	err       error
	requests  []generateRequest
}

type generateRequest struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

func (g *scriptedGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, generateRequest{Model: model, Contents: append([]*genai.Content(nil), contents...), Config: config})
	if g.err != nil {
		return nil, g.err
	}
	if len(g.responses) == 0 {
		return textResponse("done"), nil
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: string(genai.RoleModel), Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func callResponse(calls ...*genai.FunctionCall) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, len(calls))
	for i, c := range calls {
		parts[i] = &genai.Part{FunctionCall: c}
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: string(genai.RoleModel), Parts: parts},
		}},
	}
}

func call(name string, args map[string]any) *genai.FunctionCall {
	return &genai.FunctionCall{Name: name, Args: args}
}

// functionResponses returns the function responses of the last user turn.
func functionResponses(req generateRequest) []*genai.FunctionResponse {
	last := req.Contents[len(req.Contents)-1]
	var out []*genai.FunctionResponse
	for _, p := range last.Parts {
		if p.FunctionResponse != nil {
			out = append(out, p.FunctionResponse)
		}
	}
	return out
}
