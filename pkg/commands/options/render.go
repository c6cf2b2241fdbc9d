package options

import (
	"github.com/spf13/cobra"
)

// RenderOptions
type RenderOptions struct {
	Page  int
	Scale float64
	Out   string
}

func AddRenderArgs(cmd *cobra.Command, o *RenderOptions) {
	cmd.Flags().IntVarP(&o.Page, "page", "p", 1,
		"Page number to render, starting at 1.")
	cmd.Flags().Float64Var(&o.Scale, "scale", 1.5,
		"Rasterization scale; 1.0 renders at 72 DPI.")
	cmd.Flags().StringVarP(&o.Out, "out", "o", "",
		"Output PNG path. Defaults next to the current directory.")
}
