package pipeline

import (
	"context"
	"log"
	"sync"

	"opspilot/dedupe"
	"opspilot/sources"
	"opspilot/types"
)

// Classifier judges post text for operational pain.
type Classifier interface {
	Classify(ctx context.Context, text string) (types.PainAnalysis, error)
}

// Drafter writes a short outreach message for a qualified lead.
type Drafter interface {
	Draft(ctx context.Context, lead *types.Lead) (string, error)
}

// LeadStore is the durable, append-only record of qualifying leads. Append
// re-checks duplication at the store level and returns false on rejection;
// the store's check is authoritative, the dedup index is an optimization.
type LeadStore interface {
	IdentityKeys(ctx context.Context) (dedupe.Snapshot, error)
	Append(ctx context.Context, lead *types.Lead) (bool, error)
}

// SavedListener is notified after a lead has been persisted. Listeners are
// best-effort side channels (event stream, archive); their failures are their
// own to log and never affect the run.
type SavedListener interface {
	LeadSaved(ctx context.Context, lead *types.Lead)
}

// Deps wires the pipeline's collaborators.
type Deps struct {
	Sources    []sources.Source
	Classifier Classifier
	Drafter    Drafter
	Store      LeadStore
	// Bloom optionally backs the dedup index across runs. May be nil.
	Bloom     *dedupe.RedisBloom
	Listeners []SavedListener

	Keywords []string
	// Limits maps source name to its fetch limit.
	Limits map[string]int
	// UrgencyThreshold is the inclusive minimum score for qualification.
	UrgencyThreshold int
}

// Pipeline orchestrates one discovery run: fetch from every enabled source,
// dedup, classify, draft, persist.
type Pipeline struct {
	deps Deps
}

// New constructs the pipeline.
func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Run executes one full discovery cycle and returns its counters. A run
// always completes: failures are isolated at the smallest unit that can fail
// (one source, one candidate) and surface only in logs.
func (p *Pipeline) Run(ctx context.Context) types.RunSummary {
	log.Println("Starting discovery cycle...")

	index := dedupe.NewIndex(p.deps.Bloom)
	if err := index.Load(ctx, p.deps.Store); err != nil {
		log.Printf("Warning: dedup snapshot unavailable, continuing with empty index (duplicate writes possible): %v", err)
	}

	leads := p.fetchAll(ctx)
	log.Printf("Total raw leads fetched: %d", len(leads))

	var summary types.RunSummary
	for _, lead := range leads {
		switch p.processLead(ctx, index, lead) {
		case outcomeSaved:
			summary.Saved++
		case outcomeDuplicate:
			summary.Dupes++
		case outcomeLowQuality:
			summary.LowQuality++
		}
	}

	log.Printf("Discovery cycle complete. Saved: %d, Dupes: %d, Low Quality: %d",
		summary.Saved, summary.Dupes, summary.LowQuality)
	return summary
}

// fetchAll queries every enabled source concurrently. Results keep adapter
// order (then within-adapter order) so runs are deterministic to observe. A
// failing source is logged and skipped; the others still contribute.
func (p *Pipeline) fetchAll(ctx context.Context) []*types.Lead {
	results := make([][]*types.Lead, len(p.deps.Sources))

	var wg sync.WaitGroup
	for i, src := range p.deps.Sources {
		if !src.Enabled() {
			log.Printf("Source %s disabled, skipping", src.Name())
			continue
		}

		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			fetched, err := src.Fetch(ctx, p.deps.Keywords, p.limitFor(src))
			if err != nil {
				log.Printf("Warning: source %s unavailable: %v", src.Name(), err)
				return
			}
			results[i] = fetched
		}(i, src)
	}
	wg.Wait()

	var leads []*types.Lead
	for _, batch := range results {
		leads = append(leads, batch...)
	}
	return leads
}

func (p *Pipeline) limitFor(src sources.Source) int {
	if limit, ok := p.deps.Limits[src.Name()]; ok && limit > 0 {
		return limit
	}
	return 20
}

type outcome int

const (
	outcomeDropped outcome = iota // persistence error or invalid candidate; not counted
	outcomeSaved
	outcomeDuplicate
	outcomeLowQuality
)

// processLead walks one candidate through the state machine:
// dedup check → classify → qualify → draft → persist → mark seen.
// Cheap checks short-circuit before the expensive classifier and drafter
// calls. A panic while processing one candidate is contained here.
func (p *Pipeline) processLead(ctx context.Context, index *dedupe.Index, lead *types.Lead) (result outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: panic while processing lead %s: %v", lead.PostURL, r)
			result = outcomeDropped
		}
	}()

	if err := lead.Validate(); err != nil {
		log.Printf("Warning: dropping invalid candidate: %v", err)
		return outcomeDropped
	}

	if index.IsDuplicate(lead) {
		return outcomeDuplicate
	}

	analysis, err := p.deps.Classifier.Classify(ctx, lead.PostExcerpt)
	if err != nil {
		// Treated as non-pain: the candidate fails qualification below.
		log.Printf("Warning: classification failed for %s: %v", lead.PostURL, err)
	} else {
		lead.ApplyAnalysis(analysis)
	}

	if !lead.HasPain || lead.UrgencyScore < p.deps.UrgencyThreshold {
		return outcomeLowQuality
	}

	message, err := p.deps.Drafter.Draft(ctx, lead)
	if err != nil {
		// A missing draft is not a reason to drop a qualified lead.
		log.Printf("Warning: draft failed for %s: %v", lead.PostURL, err)
	} else {
		lead.SetOutreach(message)
	}

	saved, err := p.deps.Store.Append(ctx, lead)
	if err != nil {
		log.Printf("Warning: failed to persist lead %s: %v", lead.PostURL, err)
		return outcomeDropped
	}
	if !saved {
		return outcomeDuplicate
	}

	index.MarkSeen(lead)
	log.Printf("Saved lead: %s - %s", lead.Platform, lead.AuthorHandle)

	for _, listener := range p.deps.Listeners {
		listener.LeadSaved(ctx, lead)
	}
	return outcomeSaved
}
