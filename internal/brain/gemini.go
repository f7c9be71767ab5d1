package brain

import (
	"context"
	"encoding/json"

	"google.golang.org/genai"
)

func geminiTools(specs []ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// geminiProvider implements Provider using the Google Gemini API.
type geminiProvider struct {
	client    *genai.Client
	model     string
	maxTokens int32
	tools     []*genai.Tool
}

func newGeminiProvider(ctx context.Context, apiKey, model string, maxTokens int64) (*geminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiProvider{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
		tools:     geminiTools(tankTools),
	}, nil
}

func (g *geminiProvider) Send(ctx context.Context, systemPrompt string, history []Message) (*Response, error) {
	var contents []*genai.Content
	for _, m := range history {
		role := m.Role
		if role == "assistant" {
			role = "model"
		}

		var parts []*genai.Part
		for _, tr := range m.ToolResults {
			resp := map[string]any{"output": tr.Content}
			if tr.IsError {
				resp["error"] = true
			}
			parts = append(parts, genai.NewPartFromFunctionResponse(tr.ID, resp))
		}
		if m.Text != "" && len(m.ToolResults) == 0 {
			parts = append(parts, genai.NewPartFromText(m.Text))
		}
		for _, tc := range m.ToolCalls {
			var args map[string]any
			_ = json.Unmarshal(tc.Input, &args)
			parts = append(parts, genai.NewPartFromFunctionCall(tc.Name, args))
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		MaxOutputTokens:   g.maxTokens,
		Tools:             g.tools,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, err
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return &Response{Text: resp.Text(), Done: true}, nil
	}

	out := &Response{Text: resp.Text()}
	for _, fc := range calls {
		raw, _ := json.Marshal(fc.Args)
		id := fc.ID
		if id == "" {
			id = fc.Name // Gemini matches responses by name
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:    id,
			Name:  fc.Name,
			Input: raw,
		})
	}
	return out, nil
}
