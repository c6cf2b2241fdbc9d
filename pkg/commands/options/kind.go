package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/item"
)

// KindOptions selects between the book and audio collections.
type KindOptions struct {
	Audio bool
}

func AddKindArgs(cmd *cobra.Command, o *KindOptions) {
	cmd.Flags().BoolVarP(&o.Audio, "audio", "a", false,
		"Operate on the audio collection instead of books.")
}

// Kind resolves the selected collection.
func (o *KindOptions) Kind() item.Kind {
	if o.Audio {
		return item.KindAudio
	}
	return item.KindBook
}
