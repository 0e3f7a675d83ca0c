package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"wirotask/internal/task"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorError   = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	labelStyle   = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

func phaseStyle(p task.Phase) lipgloss.Style {
	switch p {
	case task.PhaseSucceeded:
		return successStyle
	case task.PhaseCancelled:
		return errorStyle
	case task.PhaseRunning:
		return labelStyle
	default:
		return warningStyle
	}
}

// field prints one "label: value" line.
func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), value)
}

// progressMu serializes progress lines from concurrent runs sharing a writer.
var progressMu sync.Mutex

// progress prints a line to w whenever a task's status changes.
type progress struct {
	w     io.Writer
	label string
	last  string
}

func newProgress(w io.Writer, label string) *progress {
	return &progress{w: w, label: label}
}

func (p *progress) hook(rec task.Record) {
	progressMu.Lock()
	defer progressMu.Unlock()
	if rec.Status == p.last {
		return
	}
	p.last = rec.Status

	status := rec.Status
	if status == "" {
		status = "(no status)"
	}
	if p.label != "" {
		fmt.Fprintf(p.w, "%s %s\n", mutedStyle.Render(p.label), phaseStyle(rec.Phase()).Render(status))
		return
	}
	fmt.Fprintln(p.w, phaseStyle(rec.Phase()).Render(status))
}

// renderMarkdown formats a text answer for the terminal.
func renderMarkdown(s string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(s)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
