package posthog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Row is one result row of a HogQL query, keyed by column name. Positional
// rows from the API are zipped against the response's column list at the
// boundary so callers never see bare arrays.
type Row = map[string]any

// hogqlQuery is the wire shape of a HogQL query request.
type hogqlQuery struct {
	Kind  string `json:"kind"`
	Query string `json:"query"`
}

// queryRequest is the envelope POSTed to /api/projects/{id}/query/.
type queryRequest struct {
	Query hogqlQuery `json:"query"`
}

// Query executes a HogQL query and returns its rows. An empty or
// whitespace-only query fails with a validation error before any request is
// sent. Exactly one API call is made per invocation (plus the executor's
// retries); errors that are not already driver errors are wrapped as query
// failures.
func (c *Client) Query(ctx context.Context, hogql string) ([]Row, error) {
	if strings.TrimSpace(hogql) == "" {
		return nil, newError(KindValidation, "query cannot be empty")
	}

	out, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   c.projectPath("/query/"),
		body: queryRequest{
			Query: hogqlQuery{Kind: "HogQLQuery", Query: hogql},
		},
	})
	if err != nil {
		var pe *Error
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, wrapError(KindQuery, err, "query execution failed")
	}

	resp := asObject(out)
	results, _ := resp["results"].([]any)
	columns := columnNames(resp["columns"])
	return normalizeRows(results, columns), nil
}

// columnNames extracts the column list from a query response, tolerating
// absent or oddly typed values.
func columnNames(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		s, ok := c.(string)
		if !ok {
			s = fmt.Sprintf("%v", c)
		}
		out = append(out, s)
	}
	return out
}

// normalizeRows converts raw result rows into tagged rows. Map rows pass
// through; positional rows are zipped against columns, with col_<i> names
// filled in where the column list is short or missing. Anything else becomes
// a single-value row under "value".
func normalizeRows(results []any, columns []string) []Row {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		switch v := r.(type) {
		case map[string]any:
			rows = append(rows, v)
		case []any:
			row := make(Row, len(v))
			for i, cell := range v {
				name := fmt.Sprintf("col_%d", i)
				if i < len(columns) {
					name = columns[i]
				}
				row[name] = cell
			}
			rows = append(rows, row)
		default:
			rows = append(rows, Row{"value": v})
		}
	}
	return rows
}

// quoteHogQL escapes a string literal for inclusion in a HogQL query.
func quoteHogQL(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}
