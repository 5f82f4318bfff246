package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"path"
	"strings"

	"opspilot/types"
)

// Archiver keeps a JSON copy of every saved lead in an S3 bucket. The sheet
// stays the working surface for humans; the archive is the machine-readable
// record. Uploads are best-effort and never affect the run.
type Archiver struct {
	store  *S3
	bucket string
	prefix string
}

// NewArchiver wraps an S3 client for lead archival under bucket/prefix.
func NewArchiver(store *S3, bucket, prefix string) *Archiver {
	return &Archiver{store: store, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// LeadSaved uploads the persisted lead as JSON, keyed by platform and lead ID.
func (a *Archiver) LeadSaved(ctx context.Context, lead *types.Lead) {
	payload, err := json.MarshalIndent(lead, "", "  ")
	if err != nil {
		log.Printf("Warning: failed to marshal lead %s for archive: %v", lead.ID, err)
		return
	}

	key := a.keyFor(lead)
	if err := a.store.Put(ctx, a.bucket, key, bytes.NewReader(payload), "application/json"); err != nil {
		log.Printf("Warning: failed to archive lead %s to s3://%s/%s: %v", lead.ID, a.bucket, key, err)
		return
	}
	log.Printf("Archived lead %s to s3://%s/%s", lead.ID, a.bucket, key)
}

func (a *Archiver) keyFor(lead *types.Lead) string {
	platform := strings.ToLower(string(lead.Platform))
	return path.Join(a.prefix, platform, lead.ID+".json")
}
