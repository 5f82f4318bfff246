package sheets

import (
	"testing"
	"time"

	"opspilot/types"
)

func TestLeadRowMatchesHeaderOrder(t *testing.T) {
	lead := types.NewLead(types.PlatformReddit, "tiredfounder",
		"https://www.reddit.com/r/startups/comments/abc1/drowning/", "I am drowning in manual reports")
	lead.ApplyAnalysis(types.PainAnalysis{
		HasPain:      true,
		PainCategory: "Reporting delays",
		PainSummary:  "manual exec reporting every week",
		UrgencyScore: 8,
		Reasoning:    "explicit frustration",
	})
	lead.SetOutreach("same here, we fixed this by automating the Friday deck")

	row := leadRow(lead)
	if len(row) != len(Header) {
		t.Fatalf("expected %d columns, got %d", len(Header), len(row))
	}

	if row[0] != lead.ID {
		t.Fatalf("column 0 must be lead_id, got %v", row[0])
	}
	if _, err := time.Parse(time.RFC3339, row[1].(string)); err != nil {
		t.Fatalf("timestamp_utc must be RFC3339: %v", err)
	}
	if row[2] != "Reddit" || row[3] != "tiredfounder" {
		t.Fatalf("platform/author columns wrong: %v, %v", row[2], row[3])
	}
	if row[5] != lead.PostURL {
		t.Fatalf("post_url column wrong: %v", row[5])
	}
	if row[7] != "manual exec reporting every week" || row[8] != "Reporting delays" {
		t.Fatalf("pain columns wrong: %v, %v", row[7], row[8])
	}
	if row[9] != "8" {
		t.Fatalf("urgency_score column wrong: %v", row[9])
	}
	if row[11] != "New" {
		t.Fatalf("lead_status column wrong: %v", row[11])
	}
	if _, err := time.Parse(time.RFC3339, row[13].(string)); err != nil {
		t.Fatalf("last_updated_utc must be RFC3339: %v", err)
	}
}

func TestSnapshotFromRows(t *testing.T) {
	rows := [][]interface{}{
		{"id1", "2026-01-02T00:00:00Z", "Reddit", "tiredfounder", "", "https://www.reddit.com/r/startups/comments/abc1/"},
		{"id2", "2026-01-03T00:00:00Z", "X", "opsburned", "", "https://x.com/opsburned/status/1"},
		{"id3", "2026-01-04T00:00:00Z", "", "", "", ""}, // malformed row is skipped
		{"id4"}, // short row is skipped
	}

	snapshot := snapshotFromRows(rows)

	if len(snapshot.URLs) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(snapshot.URLs))
	}
	if len(snapshot.Authors) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(snapshot.Authors))
	}
	if snapshot.Authors[0].Platform != types.PlatformReddit || snapshot.Authors[0].Handle != "tiredfounder" {
		t.Fatalf("unexpected first author %+v", snapshot.Authors[0])
	}
}

func TestCredentialBytesRawJSON(t *testing.T) {
	raw := `{"type":"service_account","client_email":"x@y.iam.gserviceaccount.com"}`
	data, err := credentialBytes(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != raw {
		t.Fatal("raw JSON must pass through unchanged")
	}

	if _, err := credentialBytes(""); err == nil {
		t.Fatal("expected error for empty credentials")
	}
}
