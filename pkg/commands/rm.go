package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/rm"
	"tableflip.dev/shelf/pkg/store"
)

func addRm(topLevel *cobra.Command) {
	ko := &options.KindOptions{}

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "remove an item from the library",
		Long:    "Remove an item, its stored record, and its binary. Removing an id that does not exist is a no-op.",
		Example: `
shelf rm 171dff69-f8b9-9dca-0000-000000000000
shelf rm --audio 171dff69-f8b9-9dca-0000-000000000000
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := rm.Remove{
				ID:          args[0],
				Kind:        ko.Kind(),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddKindArgs(cmd, ko)

	topLevel.AddCommand(cmd)
}
