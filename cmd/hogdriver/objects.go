package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/posthog"
)

func newObjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "objects",
		Short: "List available PostHog entity types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range posthog.Objects() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <object>",
		Short: "Show the field schema for an entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			schema, err := posthog.Fields(args[0])
			if err != nil {
				return err
			}
			return printJSON(schema)
		},
	}
}
