package sandbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hogdriver-ai/hogdriver/posthog"
	"github.com/hogdriver-ai/hogdriver/templates"
)

// Credential placeholders that Executor resolves in script text before
// execution. Templates embed these so the raw template never contains a
// secret.
const (
	APIKeyPlaceholder        = "<api_key_placeholder>"
	ProjectIDPlaceholder     = "<project_id_placeholder>"
	ProjectAPIKeyPlaceholder = "<project_api_key_placeholder>"
	APIURLPlaceholder        = "<api_url_placeholder>"
)

// ExecutionResult is the outcome of one script run. Success mirrors only
// whether the sandbox reported an execution error; a script that exits
// cleanly after printing its own failure JSON still counts as successful
// here, and callers needing stronger semantics must inspect Output.
type ExecutionResult struct {
	Success     bool   `json:"success"`
	Output      string `json:"output"`
	Error       string `json:"error,omitempty"`
	Description string `json:"description"`
}

// Script pairs code with a human-readable description for batch runs.
type Script struct {
	Code        string
	Description string
}

// Executor runs PostHog scripts in a sandbox with driver credentials
// injected via both placeholder substitution and environment variables.
type Executor struct {
	runner Runner
	cfg    posthog.Config
	logger *slog.Logger
	runID  string
}

// NewExecutor creates an Executor over runner using cfg's credentials.
// A nil logger falls back to slog.Default.
func NewExecutor(runner Runner, cfg posthog.Config, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = posthog.DefaultAPIURL
	}
	return &Executor{
		runner: runner,
		cfg:    cfg,
		logger: logger,
		runID:  uuid.NewString(),
	}
}

// RunID identifies this executor's sandbox session in logs.
func (e *Executor) RunID() string { return e.runID }

// Setup provisions the sandbox, installs script dependencies, and writes the
// credentials file scripts load via dotenv. A non-zero exit from the install
// command is a setup failure.
func (e *Executor) Setup(ctx context.Context) error {
	if err := e.runner.Create(ctx); err != nil {
		return fmt.Errorf("creating sandbox: %w", err)
	}

	e.logger.Info("sandbox created", "run_id", e.runID)

	res, err := e.runner.RunCommand(ctx, "pip install requests python-dotenv")
	if err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to install dependencies: %s", res.Stderr)
	}

	if err := e.runner.WriteFile(ctx, "/home/user/.env", e.envFile()); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	return nil
}

// envFile renders the sandbox .env contents from the driver config.
func (e *Executor) envFile() string {
	return fmt.Sprintf(
		"POSTHOG_API_URL=%s\nPOSTHOG_PERSONAL_API_KEY=%s\nPOSTHOG_PROJECT_ID=%s\nPOSTHOG_PROJECT_API_KEY=%s\n",
		e.cfg.APIURL, e.cfg.APIKey, e.cfg.ProjectID, e.cfg.ProjectAPIKey,
	)
}

// Close destroys the sandbox.
func (e *Executor) Close(ctx context.Context) error {
	return e.runner.Destroy(ctx)
}

// resolvePlaceholders substitutes credential placeholders in script text.
func (e *Executor) resolvePlaceholders(script string) string {
	r := strings.NewReplacer(
		APIKeyPlaceholder, e.cfg.APIKey,
		ProjectIDPlaceholder, e.cfg.ProjectID,
		ProjectAPIKeyPlaceholder, e.cfg.ProjectAPIKey,
		APIURLPlaceholder, e.cfg.APIURL,
	)
	return r.Replace(script)
}

// ExecuteScript runs one script in the sandbox. The result is always
// non-nil; sandbox transport failures surface as an unsuccessful result, not
// an error, so batch runs degrade uniformly.
func (e *Executor) ExecuteScript(ctx context.Context, script, description string) ExecutionResult {
	script = e.resolvePlaceholders(script)

	res, err := e.runner.RunCode(ctx, script, map[string]string{
		"PYTHONPATH":               "/home/user",
		"POSTHOG_PERSONAL_API_KEY": e.cfg.APIKey,
		"POSTHOG_PROJECT_ID":       e.cfg.ProjectID,
		"POSTHOG_PROJECT_API_KEY":  e.cfg.ProjectAPIKey,
		"POSTHOG_API_URL":          e.cfg.APIURL,
	})
	if err != nil {
		e.logger.Error("sandbox execution failed", "run_id", e.runID, "err", err)
		return ExecutionResult{Success: false, Error: err.Error(), Description: description}
	}

	// Success tracks the sandbox-reported error only, never the script's
	// own output.
	if res.Err != nil {
		return ExecutionResult{
			Success:     false,
			Error:       res.Err.Error(),
			Description: description,
		}
	}
	return ExecutionResult{
		Success:     true,
		Output:      res.Stdout,
		Description: description,
	}
}

// ExecuteTemplate renders a registered template with vars and runs it.
// An unknown template name yields a failed result rather than an error.
func (e *Executor) ExecuteTemplate(ctx context.Context, name string, vars map[string]string) ExecutionResult {
	tmpl, err := templates.Get(name)
	if err != nil {
		return ExecutionResult{
			Success: false,
			Error:   fmt.Sprintf("unknown template: %s", name),
		}
	}

	script := templates.Render(tmpl, vars)
	return e.ExecuteScript(ctx, script, "Executing template: "+name)
}

// RunBatch executes scripts in order, stopping after the first failed
// result. The returned slice holds one result per executed script.
func (e *Executor) RunBatch(ctx context.Context, scripts []Script) []ExecutionResult {
	results := make([]ExecutionResult, 0, len(scripts))
	for _, s := range scripts {
		res := e.ExecuteScript(ctx, s.Code, s.Description)
		results = append(results, res)
		if !res.Success {
			break
		}
	}
	return results
}
