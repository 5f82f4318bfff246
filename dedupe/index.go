package dedupe

import (
	"context"
	"log"

	"opspilot/types"
)

// AuthorKey identifies an author on one platform. A saved lead suppresses
// all future leads from the same author, even for different posts.
type AuthorKey struct {
	Platform types.Platform
	Handle   string
}

// Snapshot holds the persisted identity keys read from the lead store at the
// start of a run.
type Snapshot struct {
	URLs    []string
	Authors []AuthorKey
}

// Loader supplies the identity-key snapshot, typically the lead store.
type Loader interface {
	IdentityKeys(ctx context.Context) (Snapshot, error)
}

// Index answers "have we already recorded this identity?" in O(1). It is a
// cost-saving pre-filter only; the lead store's own duplicate check at write
// time remains authoritative. Mutated only from the pipeline's sequential
// processing loop, so no locking.
type Index struct {
	urls    map[string]struct{}
	authors map[AuthorKey]struct{}
	bloom   *RedisBloom // optional cross-run fast path
}

// NewIndex builds an empty index. bloom may be nil.
func NewIndex(bloom *RedisBloom) *Index {
	return &Index{
		urls:    make(map[string]struct{}),
		authors: make(map[AuthorKey]struct{}),
		bloom:   bloom,
	}
}

// Load replaces the in-memory sets with a full snapshot from the loader.
// On failure the index stays empty and the pipeline proceeds in degraded
// mode: duplicate writes become possible but the run is not aborted.
func (i *Index) Load(ctx context.Context, loader Loader) error {
	snapshot, err := loader.IdentityKeys(ctx)
	if err != nil {
		return err
	}

	i.urls = make(map[string]struct{}, len(snapshot.URLs))
	for _, u := range snapshot.URLs {
		i.urls[NormalizeURL(u)] = struct{}{}
	}

	i.authors = make(map[AuthorKey]struct{}, len(snapshot.Authors))
	for _, a := range snapshot.Authors {
		i.authors[normalizeAuthor(a)] = struct{}{}
	}

	log.Printf("Loaded deduplication index: %d URLs, %d authors", len(i.urls), len(i.authors))
	return nil
}

// IsDuplicate reports whether the lead matches a previously saved post URL or
// a previously saved (platform, author) pair. Pure, no side effects on the
// in-memory sets; the optional bloom filter is consulted as an extra guard
// because it survives across runs even when the snapshot load failed.
func (i *Index) IsDuplicate(lead *types.Lead) bool {
	if _, ok := i.urls[NormalizeURL(lead.PostURL)]; ok {
		return true
	}
	key := normalizeAuthor(AuthorKey{Platform: lead.Platform, Handle: lead.AuthorHandle})
	if _, ok := i.authors[key]; ok {
		return true
	}

	if i.bloom != nil {
		for _, hash := range IdentityHashes(lead) {
			exists, err := i.bloom.Exists(hash)
			if err != nil {
				log.Printf("Warning: bloom check failed: %v", err)
				return false
			}
			if exists {
				return true
			}
		}
	}
	return false
}

// MarkSeen records both identity keys. Called only after the lead store
// confirmed the write; the index must never claim a duplicate that was not
// actually saved.
func (i *Index) MarkSeen(lead *types.Lead) {
	i.urls[NormalizeURL(lead.PostURL)] = struct{}{}
	key := normalizeAuthor(AuthorKey{Platform: lead.Platform, Handle: lead.AuthorHandle})
	i.authors[key] = struct{}{}

	if i.bloom != nil {
		for _, hash := range IdentityHashes(lead) {
			if err := i.bloom.Add(hash); err != nil {
				log.Printf("Warning: failed to add lead to bloom filter: %v", err)
			}
		}
	}
}

// Size returns the number of URL and author keys currently held.
func (i *Index) Size() (urls, authors int) {
	return len(i.urls), len(i.authors)
}
