package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/runner/news"
)

func addNews(topLevel *cobra.Command) {
	pages := 1

	cmd := &cobra.Command{
		Use:   "news",
		Short: "show top stories from Hacker News",
		Example: `
shelf news
shelf news --pages 3
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := news.News{
				Pages: pages,
			}
			err := s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "Number of 20-story pages to load.")

	topLevel.AddCommand(cmd)
}
