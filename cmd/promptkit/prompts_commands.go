package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"promptkit/internal/promptstore"
)

func newPromptsCommand(ctx *commandContext) *cobra.Command {
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "Inspect and import prompt templates",
	}

	promptsCmd.AddCommand(newPromptsListCommand(ctx))
	promptsCmd.AddCommand(newPromptsShowCommand(ctx))
	promptsCmd.AddCommand(newPromptsImportCommand(ctx))

	return promptsCmd
}

func newPromptsListCommand(ctx *commandContext) *cobra.Command {
	var library bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(cmd.Context(), library)
			defer closeStore()
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				if entries == nil {
					entries = []promptstore.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No templates found")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, strconv.Itoa(e.Bytes), e.Source})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{left("Name"), right("Size"), left("Source").wrap(60)}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&library, "library", false, "List the SQLite prompt library instead of the directory")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON")
	return cmd
}

func newPromptsShowCommand(ctx *commandContext) *cobra.Command {
	var library bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a template's raw text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(cmd.Context(), library)
			defer closeStore()
			if err != nil {
				return err
			}
			text, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&library, "library", false, "Read from the SQLite prompt library")
	return cmd
}

func newPromptsImportCommand(ctx *commandContext) *cobra.Command {
	var sourceDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy directory templates into the SQLite prompt library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Prompts.Dir
			if sourceDir != "" {
				dir = sourceDir
			}
			store, closeStore, err := ctx.openStore(cmd.Context(), true)
			defer closeStore()
			if err != nil {
				return err
			}
			db, ok := store.(*promptstore.SQLite)
			if !ok {
				return fmt.Errorf("prompt library is not a SQLite store")
			}
			src := promptstore.NewDir(dir)
			count, err := db.Import(cmd.Context(), src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d templates from %s into %s\n", count, src.Root(), db.Path())
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceDir, "dir", "", "Template directory to import (default prompts.dir)")
	return cmd
}
