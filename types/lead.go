package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Platform identifies the social network a lead was discovered on.
type Platform string

const (
	PlatformReddit   Platform = "Reddit"
	PlatformX        Platform = "X"
	PlatformLinkedIn Platform = "LinkedIn"
)

// MaxExcerptLength caps the stored post excerpt. Applied once at creation,
// never re-applied by later processing steps.
const MaxExcerptLength = 1000

// Lead represents a single discovered post and everything learned about it
// during one discovery run. A Lead is owned by the pipeline until it is
// handed to the lead store, after which it is never mutated.
type Lead struct {
	ID               string    `json:"lead_id"`
	DiscoveredAt     time.Time `json:"timestamp_utc"`
	Platform         Platform  `json:"platform"`
	AuthorHandle     string    `json:"author_handle"`
	AuthorProfileURL string    `json:"author_profile_url,omitempty"`
	PostURL          string    `json:"post_url"`
	PostExcerpt      string    `json:"post_excerpt"`
	HasPain          bool      `json:"has_pain"`
	PainCategory     string    `json:"pain_category,omitempty"`
	PainSummary      string    `json:"pain_summary,omitempty"`
	UrgencyScore     int       `json:"urgency_score"`
	OutreachMessage  string    `json:"suggested_outreach_message,omitempty"`
	Status           string    `json:"lead_status"`
	Notes            string    `json:"notes"`
	LastUpdatedAt    time.Time `json:"last_updated_utc"`
}

// PainAnalysis is the structured judgment returned by the pain classifier.
type PainAnalysis struct {
	HasPain      bool   `json:"has_pain"`
	PainCategory string `json:"pain_category"`
	PainSummary  string `json:"pain_summary"`
	UrgencyScore int    `json:"urgency_score"`
	Reasoning    string `json:"reasoning"`
}

// RunSummary reports the outcome counters of one discovery run.
type RunSummary struct {
	Saved      int `json:"saved"`
	Dupes      int `json:"dupes"`
	LowQuality int `json:"low_quality"`
}

// NewLead builds a Lead from raw platform data. The excerpt is truncated to
// MaxExcerptLength here and only here.
func NewLead(platform Platform, authorHandle, postURL, excerpt string) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:            uuid.NewString(),
		DiscoveredAt:  now,
		Platform:      platform,
		AuthorHandle:  authorHandle,
		PostURL:       postURL,
		PostExcerpt:   TruncateExcerpt(excerpt),
		Status:        "New",
		LastUpdatedAt: now,
	}
}

// TruncateExcerpt returns the first MaxExcerptLength characters of text.
func TruncateExcerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxExcerptLength {
		return text
	}
	return string(runes[:MaxExcerptLength])
}

// Validate checks the fields required before a lead may enter the pipeline.
func (l *Lead) Validate() error {
	switch l.Platform {
	case PlatformReddit, PlatformX, PlatformLinkedIn:
	default:
		return fmt.Errorf("unknown platform %q", l.Platform)
	}
	if l.AuthorHandle == "" {
		return fmt.Errorf("lead %s: author handle is required", l.ID)
	}
	if l.PostURL == "" {
		return fmt.Errorf("lead %s: post URL is required", l.ID)
	}
	return nil
}

// ApplyAnalysis records the classifier verdict on the lead. Category, summary,
// urgency and reasoning are only kept for leads that actually show pain.
func (l *Lead) ApplyAnalysis(a PainAnalysis) {
	l.HasPain = a.HasPain
	if a.HasPain {
		l.PainCategory = a.PainCategory
		l.PainSummary = a.PainSummary
		l.UrgencyScore = a.UrgencyScore
		l.Notes = a.Reasoning
	}
	l.Touch()
}

// SetOutreach records the drafted outreach message.
func (l *Lead) SetOutreach(message string) {
	l.OutreachMessage = message
	l.Touch()
}

// Touch refreshes the last-updated timestamp.
func (l *Lead) Touch() {
	l.LastUpdatedAt = time.Now().UTC()
}
