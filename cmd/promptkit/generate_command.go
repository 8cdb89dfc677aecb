package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promptkit/internal/generate"
	"promptkit/internal/services"
	"promptkit/internal/services/llm"
)

type generateOutput struct {
	RequestID string           `json:"request_id"`
	Value     string           `json:"value"`
	Succeeded bool             `json:"succeeded"`
	Attempts  []attemptSummary `json:"attempts"`
}

type attemptSummary struct {
	Index     int    `json:"index"`
	Stage     string `json:"stage"`
	Candidate string `json:"candidate,omitempty"`
	Error     string `json:"error,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var input promptInput
	var tierFlag string
	var example string
	var instruction string
	var attempts int
	var failSafe string
	var maxWords int
	var verbose bool
	var raw bool
	var paramsPath string
	var trace bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Run the validated generation loop and print the accepted value",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
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

			policy := generate.Policy[string]{MaxAttempts: cfg.Generation.MaxAttempts, FailSafe: cfg.Generation.FailSafe}
			if cmd.Flags().Changed("attempts") {
				policy.MaxAttempts = attempts
			}
			if cmd.Flags().Changed("fail-safe") {
				policy.FailSafe = failSafe
			}
			if err := policy.Validate(); err != nil {
				return err
			}

			var validator generate.Validator = generate.NonEmpty()
			if maxWords > 0 {
				validator = generate.All(generate.NonEmpty(), generate.MaxWords(maxWords))
			}

			job := generate.Job{
				Prompt:             text,
				ExampleOutput:      example,
				SpecialInstruction: instruction,
				Tier:               tier,
				Verbose:            verbose,
			}
			engine := generate.NewEngine(client, generate.WithLogger(ctx.logger(cmd)))

			var out generate.Outcome[string]
			if raw {
				if strings.TrimSpace(paramsPath) != "" {
					params, err := llm.LoadParams(paramsPath)
					if err != nil {
						return err
					}
					job.Params = &params
				}
				out = generate.RunRaw(cmd.Context(), engine, job, policy, validator, generate.TrimSpace())
			} else {
				out = generate.Run(cmd.Context(), engine, job, policy, validator, generate.TrimSpace())
			}

			if jsonOut {
				return writeJSON(cmd, summarizeOutcome(out))
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Value)
			if trace {
				fmt.Fprintln(cmd.ErrOrStderr(), renderAttempts(out.Attempts))
			}
			return nil
		},
	}

	input.register(cmd)
	cmd.Flags().StringVar(&tierFlag, "tier", "standard", "Model tier: standard or advanced")
	cmd.Flags().StringVar(&example, "example", "", "Example value shown in the JSON answer template")
	cmd.Flags().StringVar(&instruction, "instruction", "", "Extra instruction appended after the JSON request")
	cmd.Flags().IntVar(&attempts, "attempts", 0, "Maximum attempts (default from generation.max_attempts)")
	cmd.Flags().StringVar(&failSafe, "fail-safe", "", "Value printed when every attempt fails (default from generation.fail_safe)")
	cmd.Flags().IntVar(&maxWords, "max-words", 0, "Reject answers longer than this many words")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every attempt at info level")
	cmd.Flags().BoolVar(&raw, "raw", false, "Send the prompt unframed and validate the raw response")
	cmd.Flags().StringVar(&paramsPath, "params", "", "YAML parameter set used with --raw")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print an attempt table to stderr")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the outcome as JSON")
	return cmd
}

func summarizeOutcome(out generate.Outcome[string]) generateOutput {
	summary := generateOutput{
		RequestID: out.RequestID,
		Value:     out.Value,
		Succeeded: out.Succeeded,
		Attempts:  make([]attemptSummary, 0, len(out.Attempts)),
	}
	for _, a := range out.Attempts {
		s := attemptSummary{Index: a.Index, Stage: string(a.Stage), Candidate: a.Candidate}
		if a.Err != nil {
			s.Error = a.Err.Error()
			s.Kind = services.Classify(a.Err)
		}
		summary.Attempts = append(summary.Attempts, s)
	}
	return summary
}

func renderAttempts(attempts []generate.Attempt) string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		detail := ""
		if a.Err != nil {
			detail = a.Err.Error()
		}
		rows = append(rows, []string{strconv.Itoa(a.Index), string(a.Stage), a.Candidate, detail})
	}
	return renderTable([]column{right("#"), left("Stage"), left("Candidate").wrap(48), left("Detail").wrap(60)}, rows)
}
