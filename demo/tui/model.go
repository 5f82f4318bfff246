package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const maxLogLines = 8

// Model represents the TUI client state (thin client over the HTTP API)
type Model struct {
	Client *Client

	// Local UI state (synced from the server)
	Connected bool
	Running   bool
	Sources   map[string]bool
	Stats     *StatsResponse
	Logs      []string
	Err       error
}

// NewModel creates a new TUI model
func NewModel(serverURL string) Model {
	return Model{
		Client: NewClient(serverURL),
		Logs:   make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	// Start polling immediately
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}

// AddLog appends a timestamped line to the activity log
func (m Model) AddLog(message string) Model {
	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), message)
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogLines {
		m.Logs = m.Logs[len(m.Logs)-maxLogLines:]
	}
	return m
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	if !m.Connected {
		return ErrorStyle.Render("Not connected to the discovery server")
	}
	if m.Running {
		return StatusStyle.Render("Discovery run in progress...")
	}
	if m.Stats != nil && m.Stats.CompletedAt != "" {
		return HighlightStyle.Render("Last run complete") + "\n\n" +
			InfoStyle.Render("Press 'r' to start another run")
	}
	return HighlightStyle.Render("Ready") + "\n\n" +
		InfoStyle.Render("Press 'r' to start a discovery run")
}

// formatStats renders the last run's counters
func (m Model) formatStats() string {
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Last Run"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Saved: %s\n", StatusStyle.Render(fmt.Sprintf("%d", m.Stats.Saved))))
	b.WriteString(fmt.Sprintf("Duplicates: %d\n", m.Stats.Dupes))
	b.WriteString(fmt.Sprintf("Low quality: %d\n", m.Stats.LowQuality))
	if m.Stats.CompletedAt != "" {
		b.WriteString(fmt.Sprintf("\nCompleted: %s\n", m.Stats.CompletedAt))
	}

	return b.String()
}
