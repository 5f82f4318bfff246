package sources

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"opspilot/types"
)

// maxXQueryKeywords caps the OR query so the search stays within what the
// upstream search syntax handles reliably.
const maxXQueryKeywords = 5

// X fetches recent posts from X through the search RSS feed of a Nitter
// instance. Nitter is an unofficial frontend; instances come and go, so this
// adapter is strictly best-effort and disabled unless an instance is
// configured.
type X struct {
	nitterURL string
	parser    *gofeed.Parser
}

// NewX builds the X source. An empty nitterURL disables the adapter.
func NewX(nitterURL string) *X {
	return &X{
		nitterURL: strings.TrimRight(nitterURL, "/"),
		parser:    gofeed.NewParser(),
	}
}

func (x *X) Name() string { return "x" }

func (x *X) Enabled() bool { return x.nitterURL != "" }

// Fetch runs one keyword search against the configured Nitter instance.
func (x *X) Fetch(ctx context.Context, keywords []string, limit int) ([]*types.Lead, error) {
	if !x.Enabled() {
		return nil, nil
	}

	query := BuildXQuery(keywords)
	feedURL := fmt.Sprintf("%s/search/rss?f=tweets&q=%s", x.nitterURL, url.QueryEscape(query))
	log.Printf("Searching X for: %s", query)

	feed, err := x.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch X search feed: %w", err)
	}

	count := min(len(feed.Items), limit)
	leads := make([]*types.Lead, 0, count)

	for _, item := range feed.Items[:count] {
		handle, statusID, ok := parseStatusLink(item.Link)
		if !ok {
			continue
		}

		text := item.Title
		if text == "" {
			text = item.Description
		}

		lead := types.NewLead(
			types.PlatformX,
			handle,
			fmt.Sprintf("https://x.com/%s/status/%s", handle, statusID),
			text,
		)
		lead.AuthorProfileURL = "https://x.com/" + handle
		leads = append(leads, lead)
	}

	return leads, nil
}

// BuildXQuery joins the first few keywords into an OR search query and
// excludes retweets.
func BuildXQuery(keywords []string) string {
	n := min(len(keywords), maxXQueryKeywords)
	return "(" + strings.Join(keywords[:n], " OR ") + ") -filter:retweets"
}

// parseStatusLink extracts the author handle and status ID from a Nitter item
// link, e.g. https://nitter.example.net/someuser/status/123456789#m.
func parseStatusLink(link string) (handle, statusID string, ok bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 3 || parts[1] != "status" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}
