// Package feed fetches and paginates Hacker News top stories.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the public Hacker News Firebase API.
const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// Article is one story from the feed.
type Article struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	By    string `json:"by"`
	Time  int64  `json:"time"`
	URL   string `json:"url"`
}

// Link returns the article's external URL, falling back to the Hacker News
// discussion page for text-only posts.
func (a Article) Link() string {
	if a.URL != "" {
		return a.URL
	}
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", a.ID)
}

// Posted returns the story's submission time.
func (a Article) Posted() time.Time {
	return time.Unix(a.Time, 0)
}

// Client talks to the Hacker News API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Client against the public API with a sane timeout.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// TopStories returns the full ordered list of top story ids.
func (c *Client) TopStories(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.BaseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("feed: top stories: %w", err)
	}
	return ids, nil
}

// Item returns the story with the given id.
func (c *Client) Item(ctx context.Context, id int64) (Article, error) {
	var a Article
	if err := c.getJSON(ctx, fmt.Sprintf("%s/item/%d.json", c.BaseURL, id), &a); err != nil {
		return Article{}, fmt.Errorf("feed: item %d: %w", id, err)
	}
	return a, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
