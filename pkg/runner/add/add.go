// Package add provides the CLI runner that ingests files into the library.
package add

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/cover"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/store"
)

// Add uploads one or more files into the library as a single batch.
type Add struct {
	Paths       []string
	Kind        item.Kind
	Persistence store.Persistence
}

func (a *Add) Do(ctx context.Context) error {
	if a.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	if len(a.Paths) == 0 {
		return errors.New("can not add, no files given")
	}

	s := library.NewService(a.Persistence, cover.Generate)
	if err := s.Load(ctx); err != nil {
		return err
	}

	added, err := s.Upload(ctx, a.Paths, a.Kind)
	if added > 0 {
		fmt.Printf("added %d of %d\n", added, len(a.Paths))
	}
	return err
}
