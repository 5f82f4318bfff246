package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"opspilot/types"
)

const (
	defaultRedditBaseURL = "https://www.reddit.com"

	// The public JSON endpoint is unauthenticated; stay well under its limits.
	redditRateLimitDelay = 1 * time.Second
	redditRequestTimeout = 10 * time.Second

	// Timeout for fetching the target page of a link post.
	linkExtractTimeout = 15 * time.Second
)

// RedditConfig configures the read-only Reddit source.
type RedditConfig struct {
	// BaseURL overrides the Reddit endpoint, mainly for tests.
	BaseURL    string
	UserAgent  string
	Subreddits []string
	// ExtractLinks enables readability extraction of link-post targets so
	// posts without selftext still get a classifiable excerpt.
	ExtractLinks bool
}

// Reddit scans the /new listing of each configured subreddit through Reddit's
// public JSON endpoint. No authentication is required.
type Reddit struct {
	baseURL      string
	userAgent    string
	subreddits   []string
	extractLinks bool
	httpClient   *http.Client
	lastRequest  time.Time
}

// NewReddit builds the Reddit source.
func NewReddit(cfg RedditConfig) *Reddit {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultRedditBaseURL
	}
	return &Reddit{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    cfg.UserAgent,
		subreddits:   cfg.Subreddits,
		extractLinks: cfg.ExtractLinks,
		httpClient:   &http.Client{Timeout: redditRequestTimeout},
	}
}

func (r *Reddit) Name() string { return "reddit" }

// Enabled is always true: the public endpoint needs no credentials.
func (r *Reddit) Enabled() bool { return true }

// Fetch scans every configured subreddit. A failure on one subreddit is
// logged and the remaining subreddits are still scanned.
func (r *Reddit) Fetch(ctx context.Context, keywords []string, limit int) ([]*types.Lead, error) {
	var leads []*types.Lead

	for _, subreddit := range r.subreddits {
		log.Printf("Scanning subreddit: r/%s", subreddit)

		listing, err := r.fetchListing(ctx, subreddit, limit)
		if err != nil {
			if ctx.Err() != nil {
				return leads, ctx.Err()
			}
			log.Printf("Warning: failed to fetch r/%s: %v", subreddit, err)
			continue
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			body := r.postBody(post)

			if !MatchesKeywords(post.Title+" "+body, keywords) {
				continue
			}
			leads = append(leads, r.postToLead(post, body))
		}
	}

	log.Printf("Found %d potential leads from Reddit", len(leads))
	return leads, nil
}

func (r *Reddit) fetchListing(ctx context.Context, subreddit string, limit int) (*redditListing, error) {
	r.throttle()

	url := fmt.Sprintf("%s/r/%s/new.json?limit=%d", r.baseURL, subreddit, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	r.lastRequest = time.Now()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited by Reddit (HTTP 429)")
	default:
		return nil, fmt.Errorf("reddit returned HTTP %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return &listing, nil
}

// throttle enforces a minimum delay between requests to the public endpoint.
func (r *Reddit) throttle() {
	if r.lastRequest.IsZero() {
		return
	}
	if elapsed := time.Since(r.lastRequest); elapsed < redditRateLimitDelay {
		time.Sleep(redditRateLimitDelay - elapsed)
	}
}

// postBody returns the classifiable body text of a post. Link posts carry no
// selftext, so when enabled we pull readable text out of the target page.
func (r *Reddit) postBody(post redditPost) string {
	if post.Selftext != "" || post.IsSelf {
		return post.Selftext
	}
	if !r.extractLinks || post.URL == "" {
		return ""
	}

	article, err := readability.FromURL(post.URL, linkExtractTimeout)
	if err != nil {
		log.Printf("Warning: could not extract link post %s: %v", post.URL, err)
		return ""
	}
	return article.TextContent
}

func (r *Reddit) postToLead(post redditPost, body string) *types.Lead {
	author := post.Author
	if author == "" {
		author = "[deleted]"
	}

	lead := types.NewLead(
		types.PlatformReddit,
		author,
		defaultRedditBaseURL+post.Permalink,
		post.Title+"\n\n"+body,
	)
	if author != "[deleted]" {
		lead.AuthorProfileURL = defaultRedditBaseURL + "/user/" + author
	}
	return lead
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title     string `json:"title"`
	Selftext  string `json:"selftext"`
	Author    string `json:"author"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
	IsSelf    bool   `json:"is_self"`
}
