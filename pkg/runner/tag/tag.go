// Package tag provides the CLI runner that toggles item status flags.
package tag

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/store"
)

// Tag toggles a single status flag on a single item.
type Tag struct {
	ID          string
	Tag         item.Tag
	Persistence store.Persistence
}

func (t *Tag) Do(ctx context.Context) error {
	if t.Persistence == nil {
		return errors.New("can not tag, no persistence")
	}
	if t.ID == "" {
		return errors.New("can not tag, no id given")
	}

	s := library.NewService(t.Persistence, nil)
	if err := s.Load(ctx); err != nil {
		return err
	}

	if !s.ToggleTag(ctx, t.ID, t.Tag) {
		fmt.Printf("nothing to do for %s\n", t.ID)
		return nil
	}
	fmt.Printf("toggled %s on %s\n", t.Tag, t.ID)
	return nil
}
