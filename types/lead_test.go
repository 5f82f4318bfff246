package types

import (
	"strings"
	"testing"
)

func TestNewLeadTruncatesExcerptOnce(t *testing.T) {
	raw := strings.Repeat("x", MaxExcerptLength+500)
	lead := NewLead(PlatformReddit, "someuser", "https://www.reddit.com/r/startups/comments/abc", raw)

	if got := len([]rune(lead.PostExcerpt)); got != MaxExcerptLength {
		t.Fatalf("expected excerpt of %d characters, got %d", MaxExcerptLength, got)
	}
	if lead.PostExcerpt != raw[:MaxExcerptLength] {
		t.Fatal("excerpt must be exactly the first 1000 characters")
	}

	// Later processing steps must never re-truncate or alter the excerpt.
	before := lead.PostExcerpt
	lead.ApplyAnalysis(PainAnalysis{HasPain: true, PainCategory: "Other", PainSummary: "s", UrgencyScore: 7})
	lead.SetOutreach("hey")
	if lead.PostExcerpt != before {
		t.Fatal("excerpt changed after enrichment")
	}
}

func TestNewLeadShortExcerptUnchanged(t *testing.T) {
	lead := NewLead(PlatformX, "user", "https://x.com/user/status/1", "short text")
	if lead.PostExcerpt != "short text" {
		t.Fatalf("unexpected excerpt %q", lead.PostExcerpt)
	}
}

func TestNewLeadDefaults(t *testing.T) {
	lead := NewLead(PlatformReddit, "user", "https://example.com/p", "text")

	if lead.ID == "" {
		t.Fatal("expected generated lead ID")
	}
	if lead.Status != "New" {
		t.Fatalf("expected status New, got %q", lead.Status)
	}
	if lead.HasPain {
		t.Fatal("expected has_pain to default to false")
	}
	if lead.UrgencyScore != 0 {
		t.Fatalf("expected urgency 0, got %d", lead.UrgencyScore)
	}
	if lead.DiscoveredAt.IsZero() || lead.LastUpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	other := NewLead(PlatformReddit, "user", "https://example.com/p", "text")
	if other.ID == lead.ID {
		t.Fatal("lead IDs must be unique")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		lead    *Lead
		wantErr bool
	}{
		{"valid", NewLead(PlatformReddit, "user", "https://example.com/p", "t"), false},
		{"missing author", NewLead(PlatformReddit, "", "https://example.com/p", "t"), true},
		{"missing url", NewLead(PlatformReddit, "user", "", "t"), true},
		{"unknown platform", NewLead(Platform("Mastodon"), "user", "https://example.com/p", "t"), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.lead.Validate()
			if c.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestApplyAnalysisOnlyKeepsPainFields(t *testing.T) {
	lead := NewLead(PlatformReddit, "user", "https://example.com/p", "t")
	lead.ApplyAnalysis(PainAnalysis{
		HasPain:      false,
		PainCategory: "Other",
		PainSummary:  "should be discarded",
		UrgencyScore: 9,
		Reasoning:    "should be discarded",
	})

	if lead.HasPain {
		t.Fatal("expected has_pain false")
	}
	if lead.PainCategory != "" || lead.PainSummary != "" || lead.UrgencyScore != 0 || lead.Notes != "" {
		t.Fatal("non-pain leads must not record analysis details")
	}

	lead.ApplyAnalysis(PainAnalysis{
		HasPain:      true,
		PainCategory: "Reporting delays",
		PainSummary:  "drowning in manual reports",
		UrgencyScore: 8,
		Reasoning:    "founder venting about weekly status decks",
	})

	if !lead.HasPain {
		t.Fatal("expected has_pain true")
	}
	if lead.PainCategory != "Reporting delays" || lead.UrgencyScore != 8 {
		t.Fatalf("analysis not recorded: %+v", lead)
	}
	if lead.Notes != "founder venting about weekly status decks" {
		t.Fatalf("expected reasoning in notes, got %q", lead.Notes)
	}
}
