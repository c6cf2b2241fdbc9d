// Package rm provides the CLI runner that removes items from the library.
package rm

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/store"
)

// Remove deletes an item, its stored record, and its binary.
type Remove struct {
	ID          string
	Kind        item.Kind
	Persistence store.Persistence
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not remove, no persistence")
	}
	if r.ID == "" {
		return errors.New("can not remove, no id given")
	}

	s := library.NewService(r.Persistence, nil)
	if err := s.Load(ctx); err != nil {
		return err
	}

	if !s.Delete(ctx, r.ID, r.Kind) {
		fmt.Printf("nothing to do for %s\n", r.ID)
		return nil
	}
	fmt.Printf("removed %s\n", r.ID)
	return nil
}
