package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/internal/agent"
)

func newAgentCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "agent <question>",
		Short: "Ask the analytics agent a natural-language question",
		Long: `Ask a natural-language question about PostHog analytics data. The agent
routes the question through a Gemini tool-call loop: the model calls the
query_posthog tool, the question is translated to a pre-authored HogQL
query, and the results feed the model's answer.

Requires a Gemini API key (profile gemini_api_key or GEMINI_API_KEY).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			client, err := opts.newDriver()
			if err != nil {
				return err
			}

			key, model, err := opts.geminiSettings()
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("Gemini API key required: set GEMINI_API_KEY or the profile's gemini_api_key")
			}

			llm, err := agent.NewGeminiClient(cmd.Context(), key, model)
			if err != nil {
				return err
			}

			answer, err := agent.New(llm, client, slog.Default()).Ask(cmd.Context(), question)
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		},
	}
}
