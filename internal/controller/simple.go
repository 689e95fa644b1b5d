package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// SimpleUI implements UI using cobra Command's output. Display methods may
// be called from several workers; each call is written in one piece.
type SimpleUI struct {
	cmd    *cobra.Command
	config StartConfig

	mu sync.Mutex
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = newStartConfig(options)

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayPlan prints what is about to be migrated.
func (s *SimpleUI) DisplayPlan(ctx context.Context, files []m.File, components []string, threads int) {
	if ctx.Err() != nil {
		return
	}

	suffix := ""
	if s.config.dryRun {
		suffix = " (dry run)"
	}

	s.printf("Migrating %d file(s) for %s with %d worker(s)%s\n",
		len(files), strings.Join(components, ", "), threads, suffix)
}

// DisplayFileResult prints the outcome for one stylesheet. Unchanged files
// without warnings are not printed.
func (s *SimpleUI) DisplayFileResult(ctx context.Context, result m.FileResult) {
	if ctx.Err() != nil {
		return
	}

	var b strings.Builder

	switch {
	case result.Err != nil:
		fmt.Fprintf(&b, "error      %s: %v\n", result.Path, result.Err)
	case result.Changed:
		fmt.Fprintf(&b, "%-10s %s (%s)\n", s.changedLabel(), result.Path, formatStats(result.Stats))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "warning    %s:%d: %s\n", result.Path, warning.Line, warning.Message)
	}

	if result.Diff != "" {
		fmt.Fprintf(&b, "%s\n", result.Diff)
	}

	if b.Len() > 0 {
		s.printf("%s", b.String())
	}
}

func (s *SimpleUI) changedLabel() string {
	if s.config.dryRun {
		return "would fix"
	}

	return "migrated"
}

// DisplaySummary prints a per-file table with totals.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	return nil
}

// DisplayComponents prints the components of table with their rule counts.
func (s *SimpleUI) DisplayComponents(ctx context.Context, table m.RuleTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("Module: %s\n\n%s", table.Module, renderComponentsTable(table))

	return nil
}

func renderSummaryTable(summary m.Summary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Mixins", "Classes", "Comments", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_LEFT,
	})

	for _, file := range summary.Files {
		if !file.Changed && file.Err == nil && file.Error == "" && len(file.Warnings) == 0 {
			continue
		}

		table.Append([]string{
			string(file.Path),
			fmt.Sprintf("%d", file.Stats.Mixins),
			fmt.Sprintf("%d", file.Stats.Classes),
			fmt.Sprintf("%d", file.Stats.Comments),
			fileStatus(file),
		})
	}

	totals := summary.Totals()

	table.SetFooter([]string{
		fmt.Sprintf("%d/%d files changed", summary.ChangedFiles(), len(summary.Files)),
		fmt.Sprintf("%d", totals.Mixins),
		fmt.Sprintf("%d", totals.Classes),
		fmt.Sprintf("%d", totals.Comments),
		fmt.Sprintf("%d failed", summary.FailedFiles()),
	})

	table.Render()

	return tableBuffer.String()
}

func renderComponentsTable(rules m.RuleTable) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Component", "Mixins", "Classes", "Ambiguous"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, name := range rules.Names() {
		rule := rules.Components[name]

		table.Append([]string{
			name,
			fmt.Sprintf("%d", len(rule.Mixins)),
			fmt.Sprintf("%d", len(rule.Classes)),
			fmt.Sprintf("%d", len(rule.Ambiguous)+len(rule.AmbiguousPrefixes)),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Components %d", len(rules.Components)), "", "", ""})

	table.Render()

	return tableBuffer.String()
}

func fileStatus(file m.FileResult) string {
	switch {
	case file.Err != nil || file.Error != "":
		return "failed"
	case len(file.Warnings) > 0 && file.Changed:
		return "changed, warnings"
	case len(file.Warnings) > 0:
		return "warnings"
	default:
		return "changed"
	}
}

func formatStats(stats m.Stats) string {
	return fmt.Sprintf("mixins %d, classes %d, comments %d", stats.Mixins, stats.Classes, stats.Comments)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
