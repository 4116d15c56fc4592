package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hogdriver-ai/hogdriver/posthog"
)

// systemPrompt frames the model as an analytics assistant over the
// query_posthog tool.
const systemPrompt = `You are an analytics assistant with access to PostHog data
through the query_posthog tool. Use the tool to retrieve data before answering
questions about user behavior, product usage, or conversion metrics. Answer
concisely, citing the numbers the tool returned.`

// toolDescription is shown to the model for the query_posthog tool.
const toolDescription = `Query PostHog analytics data to answer questions about user behavior,
product usage, and conversion metrics. This tool can:

- Find top events and their frequencies
- Analyze user funnels and drop-off points
- Identify conversion drivers and patterns
- Segment users by activity level
- Track feature usage and adoption
- Analyze time-based patterns

The tool accepts natural language questions and automatically translates them
into HogQL queries to retrieve the relevant data.`

// maxTurns bounds the tool-call loop so a misbehaving model cannot spin
// forever.
const maxTurns = 8

// QueryRunner is the slice of the driver the agent needs. *posthog.Client
// satisfies it.
type QueryRunner interface {
	Query(ctx context.Context, hogql string) ([]posthog.Row, error)
}

// Agent answers analytics questions by looping an LLM over the query tool.
type Agent struct {
	llm    LLMClient
	driver QueryRunner
	logger *slog.Logger
}

// New creates an Agent. A nil logger falls back to slog.Default.
func New(llm LLMClient, driver QueryRunner, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{llm: llm, driver: driver, logger: logger}
}

// queryTool declares the query_posthog tool.
func queryTool() ToolDefinition {
	return ToolDefinition{
		Name:        "query_posthog",
		Description: toolDescription,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type": "string",
					"description": "The analytics question to answer (e.g., 'What are the top events " +
						"in the last 7 days?', 'Where do users drop off?', 'What drives conversion?')",
				},
				"time_period": map[string]any{
					"type":        "string",
					"enum":        []any{Period7Days, Period30Days, Period90Days},
					"description": "Time period for the analysis",
					"default":     Period30Days,
				},
			},
			"required": []any{"question"},
		},
	}
}

// Ask runs the tool-call loop for one question and returns the model's final
// text answer.
func (a *Agent) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.llm.Complete(ctx, Request{
		System: systemPrompt,
		Prompt: question,
		Tools:  []ToolDefinition{queryTool()},
	})
	if err != nil {
		return "", fmt.Errorf("starting conversation: %w", err)
	}

	for turn := 0; len(resp.ToolCalls) > 0; turn++ {
		if turn >= maxTurns {
			return "", fmt.Errorf("tool loop exceeded %d turns", maxTurns)
		}

		results := make([]ToolResult, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			a.logger.Debug("tool call", "name", call.Name, "id", call.ID)
			results = append(results, ToolResult{
				ID:      call.ID,
				Name:    call.Name,
				Content: a.runTool(ctx, call),
			})
		}

		resp, err = a.llm.Respond(ctx, results)
		if err != nil {
			return "", fmt.Errorf("returning tool results: %w", err)
		}
	}

	return resp.Text, nil
}

// runTool executes one tool call. Failures become text for the model rather
// than errors: the model should see what went wrong and react.
func (a *Agent) runTool(ctx context.Context, call ToolCall) string {
	if call.Name != "query_posthog" {
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}

	question, _ := call.Input["question"].(string)
	period, _ := call.Input["time_period"].(string)
	if period == "" {
		period = Period30Days
	}

	hogql := Route(question, period)
	rows, err := a.driver.Query(ctx, hogql)
	if err != nil {
		return fmt.Sprintf("Error querying PostHog: %v", err)
	}

	return FormatResults(rows, hogql)
}

// FormatResults renders query rows as numbered text for the model: at most
// ten rows, a remainder note, and a truncated echo of the executed query.
func FormatResults(rows []posthog.Row, hogql string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Query Results (%d rows):\n\n", len(rows))

	if len(rows) == 0 {
		out.WriteString("No results found")
	} else {
		shown := rows
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for i, row := range shown {
			fmt.Fprintf(&out, "%d. %s\n", i+1, formatRow(row))
		}
		if len(rows) > 10 {
			fmt.Fprintf(&out, "\n... and %d more results", len(rows)-10)
		}
	}

	echo := hogql
	if len(echo) > 200 {
		echo = echo[:200]
	}
	fmt.Fprintf(&out, "\n\nQuery executed: %s...", echo)
	return out.String()
}

// formatRow renders one row as "k: v" pairs. Keys are sorted so the output
// is stable.
func formatRow(row posthog.Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, row[k]))
	}
	return strings.Join(parts, ", ")
}
