package cli

import (
	"github.com/mrz1836/sboxforge/internal/analysis"
	"github.com/mrz1836/sboxforge/internal/config"
	"github.com/mrz1836/sboxforge/internal/output"
)

// CommandContext holds dependencies for CLI commands.
type CommandContext struct {
	Config *config.Config
	Logger *config.Logger
	Fmt    *output.Formatter
	Msg    *output.Messenger
	Scores *analysis.Cache
}

// NewCommandContext creates a context with the given dependencies.
func NewCommandContext(
	cfg *config.Config,
	logger *config.Logger,
	formatter *output.Formatter,
	messenger *output.Messenger,
) *CommandContext {
	return &CommandContext{
		Config: cfg,
		Logger: logger,
		Fmt:    formatter,
		Msg:    messenger,
	}
}

// WithScoreCache attaches a score memo shared by the command's evaluations.
func (c *CommandContext) WithScoreCache(scores *analysis.Cache) *CommandContext {
	c.Scores = scores
	return c
}

// currentContext builds a CommandContext from the globals set up by
// initGlobals.
func currentContext() *CommandContext {
	return NewCommandContext(cfg, logger, formatter, messenger)
}
