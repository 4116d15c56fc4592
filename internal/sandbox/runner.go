// Package sandbox runs analytics scripts in an isolated remote code
// execution environment. The environment itself sits behind the Runner
// interface; Executor adds credential injection, template execution, and
// batch runs on top of it.
package sandbox

import "context"

// CommandResult is the outcome of a shell command inside the sandbox.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CodeResult is the outcome of a code execution inside the sandbox. Err is
// the sandbox-reported execution error; a script that prints failures but
// exits cleanly has a nil Err.
type CodeResult struct {
	Stdout string
	Err    error
}

// Runner is the narrow contract for a remote code sandbox (E2B or
// compatible). Each RunCode call executes at most once; stdout, stderr, and
// exit status capture is deterministic.
type Runner interface {
	// Create provisions the sandbox instance.
	Create(ctx context.Context) error
	// WriteFile places content at path inside the sandbox.
	WriteFile(ctx context.Context, path, content string) error
	// RunCommand runs a shell command and returns its outcome.
	RunCommand(ctx context.Context, cmd string) (CommandResult, error)
	// RunCode executes a code snippet with the given environment.
	RunCode(ctx context.Context, code string, env map[string]string) (CodeResult, error)
	// Destroy tears the sandbox down. Safe to call more than once.
	Destroy(ctx context.Context) error
}
