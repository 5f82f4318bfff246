package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opspilot/types"
)

const redditFixture = `{
  "data": {
    "children": [
      {"data": {
        "title": "Drowning in manual reports",
        "selftext": "I spend every Friday building excel sheets for the exec team.",
        "author": "tiredfounder",
        "permalink": "/r/startups/comments/abc1/drowning/",
        "is_self": true
      }},
      {"data": {
        "title": "Check out my new keyboard",
        "selftext": "It clicks nicely.",
        "author": "keebfan",
        "permalink": "/r/startups/comments/abc2/keyboard/",
        "is_self": true
      }},
      {"data": {
        "title": "Our ops dashboard broke again",
        "selftext": "",
        "author": "[deleted]",
        "permalink": "/r/startups/comments/abc3/dashboard/",
        "is_self": true
      }}
    ]
  }
}`

func newRedditTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/new.json") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("expected custom user agent, got %q", ua)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func TestRedditFetchFiltersByKeyword(t *testing.T) {
	srv := newRedditTestServer(t, http.StatusOK, redditFixture)
	defer srv.Close()

	reddit := NewReddit(RedditConfig{
		BaseURL:    srv.URL,
		UserAgent:  "test-agent",
		Subreddits: []string{"startups"},
	})

	leads, err := reddit.Fetch(context.Background(), []string{"excel", "dashboard"}, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 keyword matches, got %d", len(leads))
	}

	first := leads[0]
	if first.Platform != types.PlatformReddit {
		t.Fatalf("expected Reddit platform, got %s", first.Platform)
	}
	if first.AuthorHandle != "tiredfounder" {
		t.Fatalf("unexpected author %q", first.AuthorHandle)
	}
	if first.PostURL != "https://www.reddit.com/r/startups/comments/abc1/drowning/" {
		t.Fatalf("unexpected post URL %q", first.PostURL)
	}
	if first.AuthorProfileURL != "https://www.reddit.com/user/tiredfounder" {
		t.Fatalf("unexpected profile URL %q", first.AuthorProfileURL)
	}
	if !strings.Contains(first.PostExcerpt, "excel sheets") {
		t.Fatalf("excerpt should contain post body, got %q", first.PostExcerpt)
	}

	deleted := leads[1]
	if deleted.AuthorHandle != "[deleted]" {
		t.Fatalf("expected [deleted] author, got %q", deleted.AuthorHandle)
	}
	if deleted.AuthorProfileURL != "" {
		t.Fatal("deleted authors must not get a profile URL")
	}
}

func TestRedditFetchContinuesPastFailingSubreddit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if strings.Contains(r.URL.Path, "/r/broken/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, redditFixture)
	}))
	defer srv.Close()

	reddit := NewReddit(RedditConfig{
		BaseURL:    srv.URL,
		UserAgent:  "test-agent",
		Subreddits: []string{"broken", "startups"},
	})

	leads, err := reddit.Fetch(context.Background(), []string{"excel"}, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected both subreddits fetched, got %d calls", calls)
	}
	if len(leads) != 1 {
		t.Fatalf("expected leads from the healthy subreddit, got %d", len(leads))
	}
}

func TestRedditFetchRateLimited(t *testing.T) {
	srv := newRedditTestServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	reddit := NewReddit(RedditConfig{
		BaseURL:    srv.URL,
		UserAgent:  "test-agent",
		Subreddits: []string{"startups"},
	})

	leads, err := reddit.Fetch(context.Background(), []string{"excel"}, 25)
	if err != nil {
		t.Fatalf("rate limit on one subreddit must not fail the fetch: %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("expected no leads, got %d", len(leads))
	}
}

func TestMatchesKeywords(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		keywords []string
		want     bool
	}{
		{"match lowercase", "we need better reporting", []string{"reporting"}, true},
		{"match mixed case", "Manual REPORTING everywhere", []string{"reporting"}, true},
		{"substring match", "ops-heavy org", []string{"ops"}, true},
		{"no match", "buy my crypto", []string{"reporting", "excel"}, false},
		{"empty keywords", "anything", nil, false},
		{"blank keyword skipped", "anything", []string{""}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := MatchesKeywords(c.text, c.keywords); got != c.want {
				t.Fatalf("MatchesKeywords(%q, %v) = %v; want %v", c.text, c.keywords, got, c.want)
			}
		})
	}
}
