package tui

import "time"

// Messages for the tea program (polling-based)

// StatusUpdateMsg is sent when we receive health and stats from the server
type StatusUpdateMsg struct {
	Health *HealthResponse
	Stats  *StatsResponse
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// RunTriggeredMsg is sent after the user triggers a discovery run
type RunTriggeredMsg struct {
	Busy bool
	Err  error
}
