package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case RunTriggeredMsg:
		return m.handleRunTriggered(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		if m.Connected && !m.Running {
			m = m.AddLog("Triggering discovery run...")
			return m, triggerRun(m.Client)
		}
	}
	return m, nil
}

// handleStatusUpdate syncs local state from the server
func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if m.Connected {
			m = m.AddLog("Lost connection: " + msg.Err.Error())
		}
		m.Connected = false
		m.Err = msg.Err
		return m, nil
	}

	if !m.Connected {
		m = m.AddLog("Connected to discovery server")
	}
	m.Connected = true
	m.Err = nil
	m.Sources = msg.Health.Sources

	wasRunning := m.Running
	m.Running = msg.Stats.Running
	if wasRunning && !m.Running {
		m = m.AddLog("Discovery run finished")
	}
	m.Stats = msg.Stats

	return m, nil
}

// handleRunTriggered processes the run trigger result
func (m Model) handleRunTriggered(msg RunTriggeredMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		m = m.AddLog("Failed to trigger run: " + msg.Err.Error())
		return m, nil
	}
	if msg.Busy {
		m = m.AddLog("A run is already in progress")
		return m, nil
	}
	m.Running = true
	m = m.AddLog("Discovery run started")
	return m, nil
}
