package sheets

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"opspilot/dedupe"
	"opspilot/types"
)

// Header is the stable, order-significant column set of the lead sheet.
var Header = []string{
	"lead_id", "timestamp_utc", "platform", "author_handle",
	"author_profile_url", "post_url", "post_excerpt",
	"pain_summary", "pain_category", "urgency_score",
	"suggested_outreach_message", "lead_status", "notes", "last_updated_utc",
}

const dataRange = "A2:N"

// Config configures the Google Sheets lead store.
type Config struct {
	// CredentialsJSON is either a path to a service-account key file or the
	// raw JSON itself.
	CredentialsJSON string
	// SpreadsheetID selects an existing spreadsheet. When empty, a new one
	// named SpreadsheetName is created and its ID logged.
	SpreadsheetID   string
	SpreadsheetName string
}

// Store persists qualifying leads to a Google Sheet, append-only. It keeps
// its own identity cache so Append re-checks duplication at the store level
// regardless of what the pipeline's index believes.
type Store struct {
	svc           *gsheets.Service
	spreadsheetID string

	urls    map[string]struct{}
	authors map[dedupe.AuthorKey]struct{}
}

// NewStore authenticates with the service account and prepares the sheet.
// Credential parsing errors are fatal; network failures degrade the store
// (warn and start with an empty cache) rather than failing startup.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	data, err := credentialBytes(cfg.CredentialsJSON)
	if err != nil {
		return nil, err
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	store := &Store{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		urls:          make(map[string]struct{}),
		authors:       make(map[dedupe.AuthorKey]struct{}),
	}

	if store.spreadsheetID == "" {
		if err := store.createSpreadsheet(ctx, cfg.SpreadsheetName); err != nil {
			log.Printf("Warning: could not create spreadsheet %q: %v (persistence disabled until reachable)", cfg.SpreadsheetName, err)
			return store, nil
		}
	}

	if _, err := store.IdentityKeys(ctx); err != nil {
		log.Printf("Warning: could not preload lead cache: %v", err)
	}
	return store, nil
}

func credentialBytes(creds string) ([]byte, error) {
	if creds == "" {
		return nil, fmt.Errorf("service account credentials are required")
	}
	if _, err := os.Stat(creds); err == nil {
		return os.ReadFile(creds)
	}
	return []byte(creds), nil
}

func (s *Store) createSpreadsheet(ctx context.Context, name string) error {
	ss, err := s.svc.Spreadsheets.Create(&gsheets.Spreadsheet{
		Properties: &gsheets.SpreadsheetProperties{Title: name},
	}).Context(ctx).Do()
	if err != nil {
		return err
	}
	s.spreadsheetID = ss.SpreadsheetId
	log.Printf("Created spreadsheet %q (%s)", name, s.spreadsheetID)

	header := make([]interface{}, len(Header))
	for i, col := range Header {
		header[i] = col
	}
	return s.appendRow(ctx, header)
}

// IdentityKeys reads a full snapshot of persisted identity keys. It also
// refreshes the store's own duplicate cache.
func (s *Store) IdentityKeys(ctx context.Context) (dedupe.Snapshot, error) {
	if s.spreadsheetID == "" {
		return dedupe.Snapshot{}, fmt.Errorf("lead store has no spreadsheet")
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return dedupe.Snapshot{}, fmt.Errorf("failed to read lead sheet: %w", err)
	}

	snapshot := snapshotFromRows(resp.Values)

	s.urls = make(map[string]struct{}, len(snapshot.URLs))
	for _, u := range snapshot.URLs {
		s.urls[dedupe.NormalizeURL(u)] = struct{}{}
	}
	s.authors = make(map[dedupe.AuthorKey]struct{}, len(snapshot.Authors))
	for _, a := range snapshot.Authors {
		s.authors[normalizeAuthor(a)] = struct{}{}
	}

	return snapshot, nil
}

// Append writes the lead as a new row. It re-checks duplication against the
// store's own cache first (defense in depth) and returns false when the lead
// is rejected as a duplicate. Returns an error when the sheet is unreachable.
func (s *Store) Append(ctx context.Context, lead *types.Lead) (bool, error) {
	if s.spreadsheetID == "" {
		return false, fmt.Errorf("lead store has no spreadsheet")
	}

	if s.isDuplicate(lead) {
		log.Printf("Skipping duplicate at store level: %s - %s", lead.Platform, lead.AuthorHandle)
		return false, nil
	}

	if err := s.appendRow(ctx, leadRow(lead)); err != nil {
		return false, fmt.Errorf("failed to append lead row: %w", err)
	}

	s.urls[dedupe.NormalizeURL(lead.PostURL)] = struct{}{}
	s.authors[normalizeAuthor(dedupe.AuthorKey{Platform: lead.Platform, Handle: lead.AuthorHandle})] = struct{}{}
	return true, nil
}

func (s *Store) appendRow(ctx context.Context, row []interface{}) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, "A:N", &gsheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *Store) isDuplicate(lead *types.Lead) bool {
	if _, ok := s.urls[dedupe.NormalizeURL(lead.PostURL)]; ok {
		return true
	}
	key := normalizeAuthor(dedupe.AuthorKey{Platform: lead.Platform, Handle: lead.AuthorHandle})
	_, ok := s.authors[key]
	return ok
}

func normalizeAuthor(key dedupe.AuthorKey) dedupe.AuthorKey {
	key.Handle = strings.ToLower(strings.TrimSpace(key.Handle))
	return key
}

// leadRow maps a lead onto the sheet's column order.
func leadRow(lead *types.Lead) []interface{} {
	return []interface{}{
		lead.ID,
		lead.DiscoveredAt.UTC().Format(time.RFC3339),
		string(lead.Platform),
		lead.AuthorHandle,
		lead.AuthorProfileURL,
		lead.PostURL,
		lead.PostExcerpt,
		lead.PainSummary,
		lead.PainCategory,
		strconv.Itoa(lead.UrgencyScore),
		lead.OutreachMessage,
		lead.Status,
		lead.Notes,
		lead.LastUpdatedAt.UTC().Format(time.RFC3339),
	}
}

// snapshotFromRows extracts the identity keys from raw sheet rows.
func snapshotFromRows(rows [][]interface{}) dedupe.Snapshot {
	var snapshot dedupe.Snapshot
	for _, row := range rows {
		platform := cellString(row, 2)
		handle := cellString(row, 3)
		postURL := cellString(row, 5)

		if postURL != "" {
			snapshot.URLs = append(snapshot.URLs, postURL)
		}
		if platform != "" && handle != "" {
			snapshot.Authors = append(snapshot.Authors, dedupe.AuthorKey{
				Platform: types.Platform(platform),
				Handle:   handle,
			})
		}
	}
	return snapshot
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return strings.TrimSpace(s)
}
