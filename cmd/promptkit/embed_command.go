package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newEmbedCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "embed [text...]",
		Short: "Print the embedding vector for a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.llmClient(cmd)
			if err != nil {
				return err
			}
			vector, err := client.Embed(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, vector)
			}
			preview := vector
			if len(preview) > 8 {
				preview = preview[:8]
			}
			parts := make([]string, len(preview))
			for i, v := range preview {
				parts[i] = fmt.Sprintf("%.6f", v)
			}
			suffix := ""
			if len(vector) > len(preview) {
				suffix = ", ..."
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dimensions: %d\n[%s%s]\n", len(vector), strings.Join(parts, ", "), suffix)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the full vector as JSON")
	return cmd
}
