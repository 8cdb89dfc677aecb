package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"promptkit/internal/services/llm"
)

func newCompleteCommand(ctx *commandContext) *cobra.Command {
	var input promptInput
	var tierFlag string
	var paramsPath string
	var safe bool

	cmd := &cobra.Command{
		Use:   "complete [prompt...]",
		Short: "Send one prompt and print the raw response",
		Long: "Send one prompt and print the raw response.\n\n" +
			"By default failures are returned as errors. With --safe the request never\n" +
			"fails and prints \"" + llm.ErrorSentinel + "\" instead. With --params the legacy\n" +
			"parameter set is sent and failures print \"" + llm.TokenLimitSentinel + "\".",
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := llm.ParseTier(tierFlag)
			if err != nil {
				return err
			}
			text, err := input.resolve(cmd.Context(), ctx, args)
			if err != nil {
				return err
			}
			client, err := ctx.llmClient(cmd)
			if err != nil {
				return err
			}

			var response string
			switch {
			case strings.TrimSpace(paramsPath) != "":
				params, err := llm.LoadParams(paramsPath)
				if err != nil {
					return err
				}
				response = client.ParamRequest(cmd.Context(), text, params)
			case safe && tier == llm.TierAdvanced:
				response = client.AdvancedRequest(cmd.Context(), text)
			case safe:
				response = client.ChatRequest(cmd.Context(), text)
			default:
				response, err = client.Complete(cmd.Context(), llm.Request{Prompt: text}, tier)
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), response)
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&tierFlag, "tier", "standard", "Model tier: standard or advanced")
	cmd.Flags().StringVar(&paramsPath, "params", "", "YAML parameter set (engine, temperature, max_tokens, top_p, penalties, stop)")
	cmd.Flags().BoolVar(&safe, "safe", false, "Print the error sentinel instead of failing")
	return cmd
}
