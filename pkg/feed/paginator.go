package feed

import (
	"context"
	"errors"
	"sync"
)

// PageSize is the number of stories loaded per page.
const PageSize = 20

// Paginator accumulates top stories one page at a time. A failed page is
// aborted wholesale and leaves the state untouched, so the same page can be
// retried. The id list is re-fetched on every page load, accepting that the
// feed may shift between pages.
type Paginator struct {
	mu sync.Mutex

	client   *Client
	articles []Article
	page     int
	hasMore  bool
	loaded   bool
}

// NewPaginator creates a Paginator over the given client.
func NewPaginator(client *Client) *Paginator {
	return &Paginator{client: client, hasMore: true}
}

// Articles returns a snapshot of everything loaded so far.
func (p *Paginator) Articles() []Article {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Article, len(p.articles))
	copy(out, p.articles)
	return out
}

// HasMore reports whether another page may be available.
func (p *Paginator) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loaded reports whether at least one page load has completed.
func (p *Paginator) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// LoadNextPage fetches the next page of stories and appends it. Calling it
// when the feed is exhausted is a no-op. Any fetch failure aborts the whole
// page: nothing is appended and the page counter does not advance.
func (p *Paginator) LoadNextPage(ctx context.Context) error {
	p.mu.Lock()
	if !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	page := p.page
	p.mu.Unlock()

	ids, err := p.client.TopStories(ctx)
	if err != nil {
		return err
	}

	start := page * PageSize
	if start >= len(ids) {
		p.mu.Lock()
		p.hasMore = false
		p.loaded = true
		p.mu.Unlock()
		return nil
	}
	end := start + PageSize
	if end > len(ids) {
		end = len(ids)
	}
	pageIDs := ids[start:end]

	articles := make([]Article, len(pageIDs))
	errs := make([]error, len(pageIDs))
	var wg sync.WaitGroup
	for i, id := range pageIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			articles[i], errs[i] = p.client.Item(ctx, id)
		}(i, id)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return err
	}

	p.mu.Lock()
	p.articles = append(p.articles, articles...)
	p.page = page + 1
	p.hasMore = end < len(ids)
	p.loaded = true
	p.mu.Unlock()
	return nil
}
