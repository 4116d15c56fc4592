package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiClient implements LLMClient over Google's Gen AI SDK using function
// calling. It keeps the conversation transcript internally, so one client
// serves one conversation.
type GeminiClient struct {
	client  *genai.Client
	model   string
	system  *genai.Content
	tools   []*genai.Tool
	history []*genai.Content
}

// NewGeminiClient creates a Gemini-backed LLM client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Complete starts the conversation with the user prompt and tool set.
func (g *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.System != "" {
		g.system = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	g.tools = convertTools(req.Tools)
	g.history = []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	return g.generate(ctx)
}

// Respond feeds tool results back and returns the model's next turn.
func (g *GeminiClient) Respond(ctx context.Context, results []ToolResult) (*Response, error) {
	parts := make([]*genai.Part, 0, len(results))
	for _, res := range results {
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				ID:       res.ID,
				Name:     res.Name,
				Response: map[string]any{"output": res.Content},
			},
		})
	}
	g.history = append(g.history, genai.NewContentFromParts(parts, genai.RoleUser))

	return g.generate(ctx)
}

// generate runs one model turn over the accumulated history.
func (g *GeminiClient) generate(ctx context.Context) (*Response, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, g.history, &genai.GenerateContentConfig{
		SystemInstruction: g.system,
		Tools:             g.tools,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("Gemini returned no candidates")
	}

	// The model turn joins the transcript so later Respond calls carry it.
	g.history = append(g.history, resp.Candidates[0].Content)

	out := &Response{Text: resp.Text()}
	for i, fc := range resp.FunctionCalls() {
		id := fc.ID
		if id == "" {
			// Gemini omits call IDs; synthesize stable ones so results can
			// still be keyed.
			id = fmt.Sprintf("call_%d_%d", len(g.history), i)
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:    id,
			Name:  fc.Name,
			Input: fc.Args,
		})
	}
	return out, nil
}

// convertTools maps neutral tool definitions to genai declarations.
func convertTools(defs []ToolDefinition) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  schemaFromMap(def.InputSchema),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// schemaFromMap converts a JSON Schema object to a genai.Schema. Only the
// subset the tool definitions use is handled: type, description, enum,
// properties, required, items.
func schemaFromMap(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}

	s := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		s.Type = schemaType(t)
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if enum, ok := m["enum"].([]any); ok {
		for _, e := range enum {
			if str, ok := e.(string); ok {
				s.Enum = append(s.Enum, str)
			}
		}
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if pm, ok := raw.(map[string]any); ok {
				s.Properties[name] = schemaFromMap(pm)
			}
		}
	}
	if req, ok := m["required"].([]any); ok {
		for _, r := range req {
			if str, ok := r.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = schemaFromMap(items)
	}
	return s
}

// schemaType maps JSON Schema type names to genai types.
func schemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
