package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"promptkit/internal/prompt"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var library bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "render <template> [input...]",
		Short: "Fill a prompt template with positional inputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(cmd.Context(), library)
			defer closeStore()
			if err != nil {
				return err
			}
			template, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			inputs := args[1:]

			if !strict {
				fmt.Fprintln(cmd.OutOrStdout(), prompt.Render(template, inputs))
				return nil
			}
			rendered, err := prompt.RenderStrict(template, inputs)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&library, "library", false, "Read the template from the SQLite prompt library")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when placeholders and inputs do not line up")
	return cmd
}
