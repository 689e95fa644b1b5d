// Package domain contains the stylesheet migration pipeline and the project
// workflow that drives it.
package domain

import (
	"fmt"

	"go.uber.org/multierr"

	"mdcmigrate.dev/pkg/mdcmigrate/internal/domain/rewriters"
	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

// DocumentResult is the outcome of migrating one stylesheet.
type DocumentResult struct {
	Text     string
	Stats    m.Stats
	Warnings []m.Warning
}

// Migrator applies component rules to stylesheet text. It holds no mutable
// state and may be shared between goroutines.
type Migrator interface {
	MigrateDocument(components []string, text string) (DocumentResult, error)
}

type migrator struct {
	table m.RuleTable
}

// NewMigrator creates a Migrator backed by table.
func NewMigrator(table m.RuleTable) Migrator {
	return &migrator{table: table}
}

// Migrate rewrites text for the given components and returns the new text.
// Unknown components are reported through the error while the known ones are
// still applied.
func Migrate(components []string, text string, table m.RuleTable) (string, error) {
	result, err := NewMigrator(table).MigrateDocument(components, text)
	return result.Text, err
}

// MigrateDocument resolves the theming namespace once, renames mixins for
// every component in request order and then rewrites selectors for every
// component.
func (mg *migrator) MigrateDocument(components []string, text string) (DocumentResult, error) {
	result := DocumentResult{Text: text}

	if len(components) == 0 {
		return result, nil
	}

	rules, resolveErr := mg.table.Resolve(components)
	if len(rules) == 0 {
		return result, resolveErr
	}

	layout := rewriters.Scan(text)
	result.Warnings = layout.Warnings

	binding := rewriters.ResolveNamespace(layout, mg.module())
	current := text

	if binding.Found {
		for _, rule := range rules {
			next, stats, err := rewriters.RewriteMixins(current, binding, rule)
			if err != nil {
				return DocumentResult{Text: text}, multierr.Append(resolveErr, fmt.Errorf("%s mixins: %w", rule.Name, err))
			}

			current = next
			result.Stats = result.Stats.Add(stats)
		}
	}

	for _, rule := range rules {
		next, stats, err := rewriters.RewriteSelectors(current, rule)
		if err != nil {
			return DocumentResult{Text: text}, multierr.Append(resolveErr, fmt.Errorf("%s selectors: %w", rule.Name, err))
		}

		current = next
		result.Stats = result.Stats.Add(stats)
	}

	result.Text = current

	return result, resolveErr
}

func (mg *migrator) module() string {
	if mg.table.Module == "" {
		return m.DefaultModule
	}

	return mg.table.Module
}
