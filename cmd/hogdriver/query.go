package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/posthog"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <hogql>",
		Short: "Execute a HogQL query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newDriver()
			if err != nil {
				return err
			}
			rows, err := client.Query(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(rows)
		},
	}
}

func newCaptureCmd(opts *rootOptions) *cobra.Command {
	var (
		distinctID string
		properties string
	)

	cmd := &cobra.Command{
		Use:   "capture <event>",
		Short: "Capture a single analytics event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newDriver()
			if err != nil {
				return err
			}

			var props map[string]any
			if properties != "" {
				if err := json.Unmarshal([]byte(properties), &props); err != nil {
					return fmt.Errorf("parsing --properties: %w", err)
				}
			}

			out, err := client.CaptureEvent(cmd.Context(), posthog.Event{
				Event:      args[0],
				DistinctID: distinctID,
				Properties: props,
			})
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&distinctID, "distinct-id", "", "user identifier for the event")
	cmd.Flags().StringVar(&properties, "properties", "", "event properties as a JSON object")
	cmd.MarkFlagRequired("distinct-id")
	return cmd
}
