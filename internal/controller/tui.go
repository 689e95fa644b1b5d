package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "mdcmigrate.dev/pkg/mdcmigrate/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	hunkStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	paneStyle     = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4B5563"))
)

const (
	listHeight     = 8
	reservedHeight = listHeight + 8
)

// TUI implements UI using Bubble Tea for interactive display. The program
// runs in its own goroutine between Start and Close; Display methods send
// messages to it.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newMigrationModel(newStartConfig(options)),
		tea.WithOutput(t.output),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, err := t.program.Run()

		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()

	return nil
}

// Close stops the program and restores the terminal.
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()

	select {
	case <-t.done:
	case <-ctx.Done():
	}
}

// Wait blocks until the user quits the program.
func (t *TUI) Wait(ctx context.Context) {
	if t.program == nil {
		return
	}

	select {
	case <-t.done:
	case <-ctx.Done():
	}
}

// Err returns the error the program exited with, if any.
func (t *TUI) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// DisplayPlan sends the run plan to the program.
func (t *TUI) DisplayPlan(_ context.Context, files []m.File, components []string, threads int) {
	t.send(planMsg{files: len(files), components: components, threads: threads})
}

// DisplayFileResult sends one file result to the program.
func (t *TUI) DisplayFileResult(_ context.Context, result m.FileResult) {
	t.send(fileResultMsg(result))
}

// DisplaySummary sends the final summary to the program.
func (t *TUI) DisplaySummary(ctx context.Context, summary m.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(summaryMsg(summary))

	return nil
}

// DisplayComponents sends the rule table to the program.
func (t *TUI) DisplayComponents(ctx context.Context, table m.RuleTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.send(componentsMsg(table))

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	if t.program != nil {
		t.program.Send(msg)
	}
}

type planMsg struct {
	files      int
	components []string
	threads    int
}

type fileResultMsg m.FileResult

type summaryMsg m.Summary

type componentsMsg m.RuleTable

// migrationModel lists processed files on top and shows the diff or
// warnings of the selected file in a scrollable pane below.
type migrationModel struct {
	config   StartConfig
	plan     planMsg
	results  []m.FileResult
	selected int
	summary  *m.Summary
	table    *m.RuleTable
	pane     viewport.Model
	width    int
	height   int
	quitting bool
}

func newMigrationModel(config StartConfig) migrationModel {
	return migrationModel{
		config: config,
		pane:   viewport.New(80, 10),
	}
}

func (mm migrationModel) Init() tea.Cmd {
	return nil
}

func (mm migrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		mm.width = msg.Width
		mm.height = msg.Height
		mm.pane.Width = max(msg.Width-2, 10)
		mm.pane.Height = max(msg.Height-reservedHeight, 3)

		return mm, nil

	case planMsg:
		mm.plan = msg
		return mm, nil

	case fileResultMsg:
		mm.results = append(mm.results, m.FileResult(msg))
		if len(mm.results) == 1 {
			mm.refreshPane()
		}

		return mm, nil

	case summaryMsg:
		summary := m.Summary(msg)
		mm.summary = &summary

		return mm, nil

	case componentsMsg:
		table := m.RuleTable(msg)
		mm.table = &table
		mm.pane.SetContent(renderComponentsTable(table))

		return mm, nil

	case tea.KeyMsg:
		return mm.handleKeyPress(msg)
	}

	return mm, nil
}

//nolint:exhaustive // Key handling only cares about a few keys
func (mm migrationModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		mm.quitting = true
		return mm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		mm.quitting = true
		return mm, tea.Quit

	case "down", "j":
		if mm.selected < len(mm.results)-1 {
			mm.selected++
			mm.refreshPane()
		}

		return mm, nil

	case "up", "k":
		if mm.selected > 0 {
			mm.selected--
			mm.refreshPane()
		}

		return mm, nil
	}

	var cmd tea.Cmd

	mm.pane, cmd = mm.pane.Update(msg)

	return mm, cmd
}

func (mm *migrationModel) refreshPane() {
	if mm.selected >= len(mm.results) {
		return
	}

	mm.pane.SetContent(renderFileDetail(mm.results[mm.selected]))
	mm.pane.GotoTop()
}

func (mm migrationModel) View() string {
	if mm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("mdcmigrate"))
	b.WriteString("\n\n")

	if mm.config.mode == ModeComponents {
		if mm.table != nil {
			b.WriteString(dimStyle.Render("Module: " + mm.table.Module))
			b.WriteString("\n")
		}

		b.WriteString(paneStyle.Render(mm.pane.View()))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("↑/↓ scroll • q quit"))

		return b.String()
	}

	mm.writePlan(&b)
	mm.writeFileList(&b)
	b.WriteString(paneStyle.Render(mm.pane.View()))
	b.WriteString("\n")
	mm.writeFooter(&b)

	return b.String()
}

func (mm migrationModel) writePlan(b *strings.Builder) {
	mode := "writing changes"
	if mm.config.dryRun {
		mode = "dry run"
	}

	fmt.Fprintf(b, "%s\n\n", dimStyle.Render(fmt.Sprintf("%d/%d file(s) • %s • %d worker(s) • %s",
		len(mm.results), mm.plan.files, strings.Join(mm.plan.components, ", "), mm.plan.threads, mode)))
}

func (mm migrationModel) writeFileList(b *strings.Builder) {
	start := 0
	if mm.selected >= listHeight {
		start = mm.selected - listHeight + 1
	}

	end := min(start+listHeight, len(mm.results))

	for i := start; i < end; i++ {
		line := fmt.Sprintf("%-40s %s", mm.results[i].Path, resultLabel(mm.results[i]))

		switch {
		case i == mm.selected:
			line = selectedStyle.Render("> " + line)
		case mm.results[i].Err != nil:
			line = errorStyle.Render("  " + line)
		default:
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	for i := end - start; i < listHeight; i++ {
		b.WriteString("\n")
	}
}

func (mm migrationModel) writeFooter(b *strings.Builder) {
	if mm.summary != nil {
		totals := mm.summary.Totals()
		fmt.Fprintf(b, "%s\n", titleStyle.Render(fmt.Sprintf("Done: %d/%d changed • %d failed • %s",
			mm.summary.ChangedFiles(), len(mm.summary.Files), mm.summary.FailedFiles(), formatStats(totals))))
	}

	b.WriteString(dimStyle.Render("j/k select file • pgup/pgdown scroll • q quit"))
}

func resultLabel(result m.FileResult) string {
	switch {
	case result.Err != nil:
		return "failed"
	case result.Changed:
		return formatStats(result.Stats)
	case len(result.Warnings) > 0:
		return fmt.Sprintf("%d warning(s)", len(result.Warnings))
	default:
		return "unchanged"
	}
}

func renderFileDetail(result m.FileResult) string {
	var b strings.Builder

	if result.Err != nil {
		b.WriteString(errorStyle.Render(result.Err.Error()))
		b.WriteString("\n")
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(&b, "line %d: %s\n", warning.Line, warning.Message)
	}

	if result.Diff == "" {
		if b.Len() == 0 {
			b.WriteString(dimStyle.Render("no diff"))
		}

		return b.String()
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			line = dimStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			line = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			line = removedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			line = hunkStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
