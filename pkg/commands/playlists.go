package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/playlists"
	"tableflip.dev/shelf/pkg/store"
)

func addPlaylists(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "playlists",
		Aliases: []string{"playlist", "pl"},
		Short:   "list playlists and their members",
		Example: `
shelf playlists
shelf playlists --show-id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := playlists.List{
				ShowID:      io.ShowID,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)

	addPlaylistsCreate(cmd)
	addPlaylistsSet(cmd)

	topLevel.AddCommand(cmd)
}

func addPlaylistsCreate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "create a new empty playlist",
		Example: `
shelf playlists create "summer reading"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := playlists.Create{
				Name:        strings.Join(args, " "),
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func addPlaylistsSet(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "set <playlist-id> [book-id]...",
		Short: "replace a playlist's membership",
		Long:  "Replace a playlist's membership with the given book ids. Passing no book ids empties the playlist.",
		Example: `
shelf playlists set 171dff69-f8b9-9dca-0000-000000000000 b1 b2 b3
shelf playlists set 171dff69-f8b9-9dca-0000-000000000000
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := playlists.SetMembers{
				ID:          args[0],
				MemberIDs:   args[1:],
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
