package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/internal/cliconfig"
	"github.com/hogdriver-ai/hogdriver/posthog"
)

// rootOptions are the persistent flags shared by all subcommands.
type rootOptions struct {
	profile string
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hogdriver",
		Short:         "PostHog analytics driver CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "config profile to use")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newObjectsCmd(),
		newFieldsCmd(),
		newQueryCmd(opts),
		newCaptureCmd(opts),
		newTemplatesCmd(),
		newAgentCmd(opts),
		newMockCmd(),
	)
	return cmd
}

// newDriver builds a driver client from the selected profile, with env vars
// filling any gaps.
func (o *rootOptions) newDriver() (*posthog.Client, error) {
	cfg, err := cliconfig.Load()
	if err != nil {
		return nil, err
	}
	return posthog.NewClient(cfg.Profile(o.profile).DriverConfig())
}

// geminiSettings returns the profile's Gemini key and model, with env
// fallback for the key.
func (o *rootOptions) geminiSettings() (key, model string, err error) {
	cfg, err := cliconfig.Load()
	if err != nil {
		return "", "", err
	}
	p := cfg.Profile(o.profile)
	key = p.GeminiAPIKey
	if key == "" {
		key = os.Getenv("GEMINI_API_KEY")
	}
	return key, p.GeminiModel, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
