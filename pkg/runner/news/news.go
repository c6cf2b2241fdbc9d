// Package news provides the CLI runner for the Hacker News feed.
package news

import (
	"context"
	"fmt"

	"tableflip.dev/shelf/pkg/feed"
	"tableflip.dev/shelf/pkg/printers"
)

// News loads and prints pages of top stories.
type News struct {
	Pages  int
	Client *feed.Client
}

func (n *News) Do(ctx context.Context) error {
	client := n.Client
	if client == nil {
		client = feed.NewClient()
	}
	pages := n.Pages
	if pages < 1 {
		pages = 1
	}

	p := feed.NewPaginator(client)
	for i := 0; i < pages && p.HasMore(); i++ {
		if err := p.LoadNextPage(ctx); err != nil {
			return err
		}
	}

	pp := printers.PrettyPrint{}
	fmt.Println("")
	pp.TitleWithCount("Top Stories", len(p.Articles()))
	pp.Articles(p.Articles()...)
	return nil
}
