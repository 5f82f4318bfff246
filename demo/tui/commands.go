package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// pollStatus creates a command to poll server health and stats
func pollStatus(client *Client) tea.Cmd {
	return func() tea.Msg {
		health, err := client.Health()
		if err != nil {
			return StatusUpdateMsg{Err: err}
		}
		stats, err := client.Stats()
		return StatusUpdateMsg{
			Health: health,
			Stats:  stats,
			Err:    err,
		}
	}
}

// triggerRun creates a command to start a discovery run
func triggerRun(client *Client) tea.Cmd {
	return func() tea.Msg {
		busy, err := client.Run()
		return RunTriggeredMsg{Busy: busy, Err: err}
	}
}

// tickCmd creates a command that ticks every second for polling
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
