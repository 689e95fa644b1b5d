package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/adapter"
	"mdcmigrate.dev/pkg/mdcmigrate/internal/controller"
	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// ErrModifiedOnDisk is recorded for files that changed between discovery and
// write-back. Such files are left as they are.
var ErrModifiedOnDisk = errors.New("file changed on disk during migration")

// MigrateArgs contains the arguments for a migration run.
type MigrateArgs struct {
	Paths      []m.Path
	Components []string
	Rules      m.RuleTable
	Include    []string
	Exclude    []string
	Threads    uint
	DryRun     bool
	ShowDiff   bool
	Report     m.Path
}

// Workflow drives migrations over a file tree.
type Workflow interface {
	Migrate(ctx context.Context, args MigrateArgs) (m.Summary, error)
	Components(ctx context.Context, table m.RuleTable) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		ReportStore:     reportStore,
		UI:              ui,
	}
}

// Migrate rewrites every selected stylesheet for the requested components.
// Unknown components and per-file failures are aggregated into the returned
// error; everything else is still migrated.
func (w *workflow) Migrate(ctx context.Context, args MigrateArgs) (m.Summary, error) {
	rules, resolveErr := args.Rules.Resolve(args.Components)
	if len(rules) == 0 {
		if resolveErr == nil {
			resolveErr = errors.New("no components selected")
		}

		return m.Summary{}, resolveErr
	}

	components := make([]string, 0, len(rules))
	for _, rule := range rules {
		components = append(components, rule.Name)
	}

	if resolveErr != nil {
		slog.Warn("Skipping unknown components", "error", resolveErr)
	}

	files, err := w.collectFiles(args.Paths, args.Include, args.Exclude)
	if err != nil {
		return m.Summary{}, multierr.Append(resolveErr, fmt.Errorf("collect files: %w", err))
	}

	threads := int(args.Threads)
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	if err := w.Start(ctx, controller.WithMigrateMode(), controller.WithDryRun(args.DryRun)); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Summary{}, err
	}

	defer w.Close(ctx)

	w.DisplayPlan(ctx, files, components, threads)

	slog.Info("Migrating stylesheets", "files", len(files), "components", components, "threads", threads, "dryRun", args.DryRun)

	results, err := w.migrateFiles(ctx, NewMigrator(args.Rules), components, files, threads, args)
	summary := m.Summary{Components: components, DryRun: args.DryRun, Files: results}

	if err != nil {
		return summary, err
	}

	runErr := resolveErr

	for _, result := range results {
		if result.Err != nil {
			runErr = multierr.Append(runErr, fmt.Errorf("%s: %w", result.Path, result.Err))
		}
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return summary, fmt.Errorf("display: %w", err)
	}

	if args.Report != "" {
		if err := w.SaveReport(args.Report, summary); err != nil {
			runErr = multierr.Append(runErr, fmt.Errorf("save report: %w", err))
		} else {
			slog.Info("Saved migration report", "path", args.Report)
		}
	}

	// Wait for UI to be closed by user (press 'q')
	w.Wait(ctx)

	return summary, runErr
}

func (w *workflow) migrateFiles(
	ctx context.Context,
	migrator Migrator,
	components []string,
	files []m.File,
	threads int,
	args MigrateArgs,
) ([]m.FileResult, error) {
	results := make([]m.FileResult, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, file := range files {
		i, file := i, file
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i] = w.migrateFile(migrator, components, file, args)
			w.DisplayFileResult(groupCtx, results[i])

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	return results, nil
}

func (w *workflow) migrateFile(migrator Migrator, components []string, file m.File, args MigrateArgs) m.FileResult {
	result := m.FileResult{Path: file.Path}

	content, err := w.ReadFile(file.Path)
	if err != nil {
		return w.failed(result, fmt.Errorf("read: %w", err))
	}

	text := string(content)

	doc, err := migrator.MigrateDocument(components, text)
	if err != nil {
		return w.failed(result, err)
	}

	result.Stats = doc.Stats
	result.Warnings = doc.Warnings
	result.Changed = doc.Text != text

	for _, warning := range doc.Warnings {
		slog.Warn("Stylesheet copied verbatim past malformed input",
			"path", file.Path, "line", warning.Line, "kind", warning.Kind, "message", warning.Message)
	}

	if !result.Changed {
		slog.Debug("Stylesheet unchanged", "path", file.Path)
		return result
	}

	if args.ShowDiff {
		result.Diff, err = unifiedDiff(file.Path, text, doc.Text)
		if err != nil {
			return w.failed(result, fmt.Errorf("diff: %w", err))
		}
	}

	if args.DryRun {
		return result
	}

	if err := w.writeBack(file, []byte(doc.Text)); err != nil {
		return w.failed(result, err)
	}

	slog.Debug("Stylesheet migrated", "path", file.Path, "mixins", doc.Stats.Mixins,
		"classes", doc.Stats.Classes, "comments", doc.Stats.Comments)

	return result
}

func (w *workflow) writeBack(file m.File, content []byte) error {
	info, err := w.FileInfo(file.Path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	if file.Hash != "" {
		hash, err := w.HashFile(file.Path)
		if err != nil {
			return fmt.Errorf("hash: %w", err)
		}

		if hash != file.Hash {
			return ErrModifiedOnDisk
		}
	}

	if err := w.WriteFile(file.Path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	return nil
}

func (w *workflow) failed(result m.FileResult, err error) m.FileResult {
	slog.Error("Failed to migrate stylesheet", "path", result.Path, "error", err)

	result.Err = err
	result.Changed = false

	return result
}

// Components shows the components of table.
func (w *workflow) Components(ctx context.Context, table m.RuleTable) error {
	if err := w.Start(ctx, controller.WithComponentsMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return err
	}

	defer w.Close(ctx)

	if err := w.DisplayComponents(ctx, table); err != nil {
		slog.Error("Failed to display components", "error", err)
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}
