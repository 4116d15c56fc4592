package main

import (
	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/internal/mockhog"
)

func newMockCmd() *cobra.Command {
	var (
		port   int
		apiKey string
	)

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Run a local mock PostHog server",
		Long: `Run a local in-memory PostHog emulator for offline development and
testing. Serves the ingestion endpoints (capture, batch, flags), the HogQL
query endpoint, the project resource lists, and admin endpoints for seeding
state (/admin/feature-flags, /admin/query-results, /admin/resources/{name}).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return mockhog.New(mockhog.Config{
				Port:           port,
				PersonalAPIKey: apiKey,
				Verbose:        verbose,
			}).Serve()
		},
	}

	cmd.Flags().IntVar(&port, "port", 8010, "HTTP listen port")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "require this Bearer token on analytics API routes")
	return cmd
}
