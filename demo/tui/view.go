package tui

import (
	"fmt"
	"sort"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("OpsPilot Lead Discovery"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Source enablement
	if len(m.Sources) > 0 {
		names := make([]string, 0, len(m.Sources))
		for name := range m.Sources {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			state := "off"
			if m.Sources[name] {
				state = "on"
			}
			parts = append(parts, fmt.Sprintf("%s: %s", name, state))
		}
		b.WriteString(InfoStyle.Render("Sources: " + strings.Join(parts, " | ")))
		b.WriteString("\n\n")
	}

	// Last run results
	if m.Stats != nil && m.Stats.CompletedAt != "" {
		b.WriteString(BoxStyle.Render(m.formatStats()))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Help text
	if m.Connected && !m.Running {
		b.WriteString(InfoStyle.Render("Press 'r' to run discovery | Press 'q' or Ctrl+C to quit"))
	} else {
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}
