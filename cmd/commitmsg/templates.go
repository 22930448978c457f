package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/commitmsg/internal/prompt"
)

// newTemplatesCmd creates the templates command listing prompt templates.
func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available prompt templates",
		Long: `List the prompt templates --template can select.

Templates are resolved in order:
  1. .commitmsg/templates/<name>.md in the current directory
  2. templates/<name>.md in the config directory
  3. built-in templates

A template is markdown with optional YAML frontmatter (name, description,
version). {{diff}}, {{types}} and {{max_length}} are substituted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := a.printer(cmd)
			templates := prompt.ListTemplates()

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"templates": templates})
			}

			printer.Section("Prompt Templates")
			for _, tmpl := range templates {
				source := tmpl.Source
				if tmpl.Overrides != "" {
					source += ", overrides " + tmpl.Overrides
				}
				printer.Print("  %-14s %s (%s)\n", tmpl.Name, tmpl.Description, source)
			}
			return nil
		},
	}
}
