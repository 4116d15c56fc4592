package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hogdriver-ai/hogdriver/posthog"
)

// scriptedLLM replays a fixed sequence of turns: the first from Complete,
// the rest from successive Respond calls. It records what it was fed.
type scriptedLLM struct {
	turns    []*Response
	pos      int
	req      Request
	received [][]ToolResult
}

func (s *scriptedLLM) Complete(_ context.Context, req Request) (*Response, error) {
	s.req = req
	return s.next()
}

func (s *scriptedLLM) Respond(_ context.Context, results []ToolResult) (*Response, error) {
	s.received = append(s.received, results)
	return s.next()
}

func (s *scriptedLLM) next() (*Response, error) {
	if s.pos >= len(s.turns) {
		return nil, errors.New("scripted conversation exhausted")
	}
	r := s.turns[s.pos]
	s.pos++
	return r, nil
}

// fakeRunner returns canned rows and records the HogQL it was asked to run.
type fakeRunner struct {
	rows    []posthog.Row
	err     error
	queries []string
}

func (f *fakeRunner) Query(_ context.Context, hogql string) ([]posthog.Row, error) {
	f.queries = append(f.queries, hogql)
	return f.rows, f.err
}

func TestAskWithoutToolCalls(t *testing.T) {
	llm := &scriptedLLM{turns: []*Response{{Text: "All quiet."}}}

	answer, err := New(llm, &fakeRunner{}, nil).Ask(context.Background(), "anything new?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "All quiet." {
		t.Errorf("answer = %q", answer)
	}
	if llm.req.System != systemPrompt {
		t.Errorf("system prompt not forwarded")
	}
	if len(llm.req.Tools) != 1 || llm.req.Tools[0].Name != "query_posthog" {
		t.Errorf("tools = %v, want query_posthog declared", llm.req.Tools)
	}
}

func TestAskRunsToolLoop(t *testing.T) {
	llm := &scriptedLLM{turns: []*Response{
		{ToolCalls: []ToolCall{{
			ID:    "call_1",
			Name:  "query_posthog",
			Input: map[string]any{"question": "top events", "time_period": Period7Days},
		}}},
		{Text: "pageview dominates."},
	}}
	runner := &fakeRunner{rows: []posthog.Row{
		{"event": "pageview", "total_events": 120},
	}}

	answer, err := New(llm, runner, nil).Ask(context.Background(), "What are the top events?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "pageview dominates." {
		t.Errorf("answer = %q", answer)
	}

	if len(runner.queries) != 1 || !strings.Contains(runner.queries[0], "INTERVAL 7 DAY") {
		t.Errorf("queries = %v, want routed 7-day query", runner.queries)
	}

	if len(llm.received) != 1 || len(llm.received[0]) != 1 {
		t.Fatalf("tool results = %v, want one batch of one", llm.received)
	}
	res := llm.received[0][0]
	if res.ID != "call_1" || res.Name != "query_posthog" {
		t.Errorf("result identity = %+v, want call ID and name echoed", res)
	}
	if !strings.Contains(res.Content, "Query Results (1 rows)") {
		t.Errorf("result content = %q, want formatted rows", res.Content)
	}
}

func TestAskDefaultsTimePeriod(t *testing.T) {
	llm := &scriptedLLM{turns: []*Response{
		{ToolCalls: []ToolCall{{
			ID:    "call_1",
			Name:  "query_posthog",
			Input: map[string]any{"question": "top events"},
		}}},
		{Text: "done"},
	}}
	runner := &fakeRunner{}

	if _, err := New(llm, runner, nil).Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if len(runner.queries) != 1 || !strings.Contains(runner.queries[0], "INTERVAL 30 DAY") {
		t.Errorf("queries = %v, want 30-day default", runner.queries)
	}
}

func TestAskFeedsQueryErrorsBackAsText(t *testing.T) {
	llm := &scriptedLLM{turns: []*Response{
		{ToolCalls: []ToolCall{{
			ID:    "call_1",
			Name:  "query_posthog",
			Input: map[string]any{"question": "top events"},
		}}},
		{Text: "could not fetch data"},
	}}
	runner := &fakeRunner{err: errors.New("connection refused")}

	answer, err := New(llm, runner, nil).Ask(context.Background(), "q")
	if err != nil {
		t.Fatalf("Ask: %v (tool failures must not abort the loop)", err)
	}
	if answer != "could not fetch data" {
		t.Errorf("answer = %q", answer)
	}

	content := llm.received[0][0].Content
	if !strings.Contains(content, "Error querying PostHog") || !strings.Contains(content, "connection refused") {
		t.Errorf("tool result = %q, want error text for the model", content)
	}
}

func TestAskRejectsUnknownTool(t *testing.T) {
	llm := &scriptedLLM{turns: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "delete_everything"}}},
		{Text: "ok"},
	}}

	if _, err := New(llm, &fakeRunner{}, nil).Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(llm.received[0][0].Content, "Unknown tool") {
		t.Errorf("tool result = %q, want unknown-tool message", llm.received[0][0].Content)
	}
}

func TestAskBoundsToolLoop(t *testing.T) {
	call := ToolCall{ID: "c", Name: "query_posthog", Input: map[string]any{"question": "q"}}
	var turns []*Response
	for i := 0; i < maxTurns+2; i++ {
		turns = append(turns, &Response{ToolCalls: []ToolCall{call}})
	}
	llm := &scriptedLLM{turns: turns}

	_, err := New(llm, &fakeRunner{}, nil).Ask(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "exceeded") {
		t.Errorf("err = %v, want loop bound error", err)
	}
}

// ---------------------------------------------------------------------------
// Result formatting
// ---------------------------------------------------------------------------

func TestFormatResultsEmpty(t *testing.T) {
	got := FormatResults(nil, "SELECT 1")
	if !strings.Contains(got, "Query Results (0 rows)") {
		t.Errorf("got %q, want row count header", got)
	}
	if !strings.Contains(got, "No results found") {
		t.Errorf("got %q, want empty marker", got)
	}
	if !strings.Contains(got, "Query executed: SELECT 1...") {
		t.Errorf("got %q, want query echo", got)
	}
}

func TestFormatResultsCapsAtTenRows(t *testing.T) {
	rows := make([]posthog.Row, 14)
	for i := range rows {
		rows[i] = posthog.Row{"n": i}
	}

	got := FormatResults(rows, "SELECT n FROM events")
	if !strings.Contains(got, "Query Results (14 rows)") {
		t.Errorf("got %q, want full count in header", got)
	}
	if !strings.Contains(got, "10. ") {
		t.Errorf("got %q, want tenth row shown", got)
	}
	if strings.Contains(got, "11. ") {
		t.Errorf("got %q, want no eleventh row", got)
	}
	if !strings.Contains(got, "... and 4 more results") {
		t.Errorf("got %q, want remainder note", got)
	}
}

func TestFormatResultsSortsRowKeys(t *testing.T) {
	rows := []posthog.Row{{"zeta": 1, "alpha": 2, "mid": 3}}
	got := FormatResults(rows, "q")
	if !strings.Contains(got, "1. alpha: 2, mid: 3, zeta: 1") {
		t.Errorf("got %q, want keys in sorted order", got)
	}
}

func TestFormatResultsTruncatesQueryEcho(t *testing.T) {
	long := strings.Repeat("SELECT ", 50) // well past 200 chars
	got := FormatResults(nil, long)

	idx := strings.Index(got, "Query executed: ")
	if idx < 0 {
		t.Fatalf("got %q, want query echo", got)
	}
	echo := strings.TrimSuffix(got[idx+len("Query executed: "):], "...")
	if len(echo) != 200 {
		t.Errorf("echo length = %d, want 200", len(echo))
	}
	if fmt.Sprintf("%.200s", long) != echo {
		t.Errorf("echo = %q, want query prefix", echo)
	}
}
