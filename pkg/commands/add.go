package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/add"
	"tableflip.dev/shelf/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	ko := &options.KindOptions{}

	cmd := &cobra.Command{
		Use:   "add <file>...",
		Short: "add files to the library",
		Long:  "Add one or more files to the library as a single batch. Books get a rendered cover; a file that fails does not stop its siblings.",
		Example: `
shelf add book.pdf
shelf add one.pdf two.pdf three.pdf
shelf add --audio chapter1.mp3
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires at least one file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := add.Add{
				Paths:       args,
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
