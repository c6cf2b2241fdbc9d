package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/runner/get"
	"tableflip.dev/shelf/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	ko := &options.KindOptions{}
	io := &options.IDOptions{}
	so := &options.SearchOptions{}

	long := strings.Builder{}
	long.WriteString("Get all or a filtered view of the library.\n\n")
	long.WriteString("Tag and aliases:\n")
	for _, tag := range item.AllTags() {
		long.WriteString(fmt.Sprintf("%s\n", tag))
	}

	var tag item.Tag

	cmd := &cobra.Command{
		Use:   "get [tag]",
		Short: "get the library, optionally narrowed by tag",
		Long:  long.String(),
		Example: `
shelf get
shelf get favorite
shelf get needToRead --audio
shelf get finished --search moby
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				tag = ""
				return nil
			}
			var err error
			tag, err = item.ParseTag(args[0])
			return err
		},
		ValidArgs: []string{"favorite", "needToRead", "finished"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := get.Get{
				ShowID:      io.ShowID,
				Kind:        ko.Kind(),
				Tag:         tag,
				Search:      so.Search,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddKindArgs(cmd, ko)
	options.AddSearchArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
