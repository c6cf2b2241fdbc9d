package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/runner/tag"
	"tableflip.dev/shelf/pkg/store"
)

func addTag(topLevel *cobra.Command) {
	var t item.Tag

	cmd := &cobra.Command{
		Use:   "tag <tag> <id>",
		Short: "toggle a status flag on an item",
		Long:  "Toggle one of favorite, needToRead, or finished on an item. Tags are independent; toggling one never disturbs the others.",
		Example: `
shelf tag favorite 171dff69-f8b9-9dca-0000-000000000000
shelf tag finished 171dff69-f8b9-9dca-0000-000000000000
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return err
			}
			var err error
			t, err = item.ParseTag(args[0])
			return err
		},
		ValidArgs: []string{"favorite", "needToRead", "finished"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := tag.Tag{
				ID:          args[1],
				Tag:         t,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
