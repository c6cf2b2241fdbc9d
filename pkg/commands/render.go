package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/render"
	"tableflip.dev/shelf/pkg/store"
)

func addRender(topLevel *cobra.Command) {
	ro := &options.RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "rasterize a page of a stored book to PNG",
		Example: `
shelf render 171dff69-f8b9-9dca-0000-000000000000
shelf render 171dff69-f8b9-9dca-0000-000000000000 --page 12 --out page.png
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			s := render.Render{
				ID:          args[0],
				Page:        ro.Page,
				Scale:       ro.Scale,
				Out:         ro.Out,
				Persistence: p,
			}
			err = s.Do(context.Background())
			return oo.HandleError(err)
		},
	}

	options.AddRenderArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}
