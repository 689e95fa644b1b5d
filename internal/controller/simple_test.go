package controller

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

func newBufferedUI(t *testing.T, options ...StartOption) (*SimpleUI, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	ui := NewSimpleUI(cmd)
	require.NoError(t, ui.Start(context.Background(), options...))

	return ui, &buf
}

func TestSimpleUI_DisplayPlan(t *testing.T) {
	ui, buf := newBufferedUI(t, WithMigrateMode(), WithDryRun(true))

	ui.DisplayPlan(context.Background(), []m.File{{Path: "a.scss"}, {Path: "b.scss"}}, []string{"radio", "button"}, 4)

	assert.Equal(t, "Migrating 2 file(s) for radio, button with 4 worker(s) (dry run)\n", buf.String())
}

func TestSimpleUI_DisplayFileResult(t *testing.T) {
	tests := []struct {
		name         string
		dryRun       bool
		result       m.FileResult
		wantContains []string
		wantEmpty    bool
	}{
		{
			name:         "changed file",
			result:       m.FileResult{Path: "src/app.scss", Changed: true, Stats: m.Stats{Mixins: 1, Classes: 2}},
			wantContains: []string{"migrated", "src/app.scss", "mixins 1, classes 2, comments 0"},
		},
		{
			name:         "dry run",
			dryRun:       true,
			result:       m.FileResult{Path: "src/app.scss", Changed: true, Diff: "--- a\n+++ b\n"},
			wantContains: []string{"would fix", "+++ b"},
		},
		{
			name: "warnings",
			result: m.FileResult{Path: "broken.scss", Warnings: []m.Warning{
				{Kind: m.WarningMalformedBlock, Line: 7, Message: "unexpected '}'"},
			}},
			wantContains: []string{"warning", "broken.scss:7: unexpected '}'"},
		},
		{
			name:         "error",
			result:       m.FileResult{Path: "locked.scss", Err: errors.New("permission denied")},
			wantContains: []string{"error", "locked.scss: permission denied"},
		},
		{
			name:      "unchanged file is silent",
			result:    m.FileResult{Path: "plain.scss"},
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui, buf := newBufferedUI(t, WithDryRun(tt.dryRun))

			ui.DisplayFileResult(context.Background(), tt.result)

			if tt.wantEmpty {
				assert.Empty(t, buf.String())
				return
			}

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, buf := newBufferedUI(t)

	summary := m.Summary{
		Components: []string{"radio"},
		Files: []m.FileResult{
			{Path: "a.scss", Changed: true, Stats: m.Stats{Mixins: 3, Classes: 1}},
			{Path: "b.scss"},
			{Path: "c.scss", Err: errors.New("boom")},
		},
	}

	require.NoError(t, ui.DisplaySummary(context.Background(), summary))

	out := buf.String()
	assert.Contains(t, out, "a.scss")
	assert.NotContains(t, out, "b.scss")
	assert.Contains(t, out, "c.scss")
	assert.Contains(t, out, "1/3 FILES CHANGED")
	assert.Contains(t, out, "1 FAILED")
}

func TestSimpleUI_DisplayComponents(t *testing.T) {
	ui, buf := newBufferedUI(t, WithComponentsMode())

	table := m.RuleTable{
		Module: m.DefaultModule,
		Components: map[string]m.ComponentRule{
			"radio":    {Classes: map[string]string{"a": "b"}, Ambiguous: []string{"c", "d"}},
			"checkbox": {AmbiguousPrefixes: []string{"mat-checkbox-"}},
		},
	}

	require.NoError(t, ui.DisplayComponents(context.Background(), table))

	out := buf.String()
	assert.Contains(t, out, "Module: @angular/material")
	assert.Contains(t, out, "radio")
	assert.Contains(t, out, "checkbox")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("checkbox")), bytes.Index(buf.Bytes(), []byte("radio")))
}

func TestSimpleUI_CanceledContext(t *testing.T) {
	ui, buf := newBufferedUI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayFileResult(ctx, m.FileResult{Path: "a.scss", Changed: true})
	require.ErrorIs(t, ui.DisplaySummary(ctx, m.Summary{}), context.Canceled)
	assert.Empty(t, buf.String())
}

func TestNewUI_NonTerminalFallsBackToSimple(t *testing.T) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	_, ok := NewUI(cmd, true).(*SimpleUI)
	assert.True(t, ok)
}
