package sources

import (
	"context"
	"log"

	"opspilot/types"
)

// LinkedIn is a placeholder adapter. There is no stable public read endpoint
// for LinkedIn feed search; the unofficial voyager-based clients require
// session cookies and break often, so feed search is not wired up yet. The
// adapter still participates in the enablement surface so the pipeline and
// health endpoint treat it like any other source.
type LinkedIn struct {
	username string
	password string
}

// NewLinkedIn builds the LinkedIn source. Missing credentials disable it.
func NewLinkedIn(username, password string) *LinkedIn {
	return &LinkedIn{username: username, password: password}
}

func (l *LinkedIn) Name() string { return "linkedin" }

func (l *LinkedIn) Enabled() bool { return l.username != "" && l.password != "" }

// Fetch returns no leads. Kept as a stub until a workable feed-search client
// exists; returning an empty slice keeps the pipeline contract intact.
func (l *LinkedIn) Fetch(ctx context.Context, keywords []string, limit int) ([]*types.Lead, error) {
	if !l.Enabled() {
		return nil, nil
	}

	log.Printf("LinkedIn feed search is not available through a supported client; returning no leads")
	return []*types.Lead{}, nil
}
