package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hogdriver-ai/hogdriver/templates"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List available script templates",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			for _, name := range templates.List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	cmd.AddCommand(newTemplatesRenderCmd())
	return cmd
}

func newTemplatesRenderCmd() *cobra.Command {
	var vars []string

	cmd := &cobra.Command{
		Use:   "render <name>",
		Short: "Render a script template with variables",
		Long: `Render a script template with variables supplied as --var name=value.
Placeholders with no matching variable pass through unchanged; credential
placeholders are left for the sandbox executor to fill.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			tmpl, err := templates.Get(args[0])
			if err != nil {
				return err
			}

			varMap := make(map[string]string, len(vars))
			for _, v := range vars {
				name, value, ok := strings.Cut(v, "=")
				if !ok {
					return fmt.Errorf("invalid --var %q (expected name=value)", v)
				}
				varMap[name] = value
			}

			fmt.Print(templates.Render(tmpl, varMap))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&vars, "var", nil, "template variable as name=value (repeatable)")
	return cmd
}
