package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"promptkit/internal/config"
	"promptkit/internal/logging"
	"promptkit/internal/prompt"
	"promptkit/internal/promptstore"
	"promptkit/internal/services/llm"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cmd *cobra.Command) *slog.Logger {
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) llmClient(cmd *cobra.Command) (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if missing := cfg.MissingCredentials(); missing != "" {
		return nil, fmt.Errorf("%s; run `promptkit check` for details", missing)
	}
	return llm.NewClient(llm.ConfigFrom(cfg.GetLLM()), llm.WithLogger(c.logger(cmd))), nil
}

// openStore returns the prompt directory, or the SQLite library when library
// is set. The returned closer is always safe to call.
func (c *commandContext) openStore(ctx context.Context, library bool) (promptstore.Store, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, func() {}, err
	}
	if !library {
		return promptstore.NewDir(cfg.Prompts.Dir), func() {}, nil
	}
	if cfg.Prompts.DBPath == "" {
		return nil, func() {}, errors.New("prompts.db_path is not configured")
	}
	db, err := promptstore.OpenSQLite(ctx, cfg.Prompts.DBPath)
	if err != nil {
		return nil, func() {}, err
	}
	return db, func() { _ = db.Close() }, nil
}

// promptInput is the shared way commands obtain prompt text: either literal
// arguments or a named template plus positional inputs.
type promptInput struct {
	template string
	inputs   []string
	library  bool
}

func (p *promptInput) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.template, "template", "t", "", "Render the named prompt template instead of using arguments")
	cmd.Flags().StringArrayVarP(&p.inputs, "input", "i", nil, "Template input (repeat for !<INPUT 0>!, !<INPUT 1>!, ...)")
	cmd.Flags().BoolVar(&p.library, "library", false, "Read templates from the SQLite prompt library")
}

func (p *promptInput) resolve(ctx context.Context, c *commandContext, args []string) (string, error) {
	if strings.TrimSpace(p.template) == "" {
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return "", errors.New("prompt text or --template is required")
		}
		return text, nil
	}
	if len(args) > 0 {
		return "", errors.New("pass either prompt text or --template, not both")
	}
	store, closeStore, err := c.openStore(ctx, p.library)
	defer closeStore()
	if err != nil {
		return "", err
	}
	return prompt.RenderFile(ctx, store, p.template, p.inputs)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func writeLines(w io.Writer, lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
