package agent

import "context"

// ToolDefinition declares one tool to the model. InputSchema is a JSON
// Schema object.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolCall is a tool invocation requested by the model. ID is the
// provider-assigned call identifier; results must be returned under the same
// ID.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]any
}

// ToolResult carries the outcome of one tool call back to the model.
type ToolResult struct {
	ID      string
	Name    string
	Content string
}

// Request opens a conversation: a system prompt, the user's question, and
// the tool set the model may call.
type Request struct {
	System string
	Prompt string
	Tools  []ToolDefinition
}

// Response is one model turn: either final text, or one or more tool calls
// to satisfy before the model can continue.
type Response struct {
	Text      string
	ToolCalls []ToolCall
}

// LLMClient is a stateful conversation with a tool-calling model. Complete
// starts the conversation; Respond feeds tool results back and returns the
// next turn. Implementations keep the transcript internally.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Respond(ctx context.Context, results []ToolResult) (*Response, error)
}
