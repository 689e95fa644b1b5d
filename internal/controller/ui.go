// Package controller provides output adapters for displaying migration plans
// and results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeMigrate StartMode = iota
	ModeComponents
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode   StartMode
	dryRun bool
}

// WithMigrateMode sets the UI to display a migration run.
func WithMigrateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeMigrate
	}
}

// WithComponentsMode sets the UI to display the rule table.
func WithComponentsMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeComponents
	}
}

// WithDryRun marks the run as not writing any file.
func WithDryRun(dryRun bool) StartOption {
	return func(c *StartConfig) {
		c.dryRun = dryRun
	}
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying migration progress.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayPlan(ctx context.Context, files []m.File, components []string, threads int)
	DisplayFileResult(ctx context.Context, result m.FileResult)
	DisplaySummary(ctx context.Context, summary m.Summary) error
	DisplayComponents(ctx context.Context, table m.RuleTable) error
}

// NewUI returns the interactive TUI when requested and the command writes
// to a terminal, and the SimpleUI otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive && isTerminal(cmd.OutOrStdout()) {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
