// Package get provides the CLI runner that lists library collections.
package get

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/printers"
	"tableflip.dev/shelf/pkg/store"
)

// Get lists books or audio items, optionally narrowed by tag and search.
type Get struct {
	ShowID      bool
	Kind        item.Kind
	Tag         item.Tag
	Search      string
	Persistence store.Persistence
}

func (g *Get) Do(ctx context.Context) error {
	if g.Persistence == nil {
		return errors.New("can not get, no persistence")
	}

	s := library.NewService(g.Persistence, nil)
	if err := s.Load(ctx); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: g.ShowID}
	fmt.Println("")

	switch g.Kind {
	case item.KindAudio:
		items := s.FilterAudio(g.Tag, g.Search)
		pp.TitleWithCount(titleFor(g.Kind, g.Tag), len(items))
		pp.Audio(items...)
	default:
		books := s.Filter(g.Tag, g.Search)
		pp.TitleWithCount(titleFor(item.KindBook, g.Tag), len(books))
		pp.Library(books...)
	}
	return nil
}

func titleFor(kind item.Kind, tag item.Tag) string {
	base := "Books"
	if kind == item.KindAudio {
		base = "Audio"
	}
	switch tag {
	case item.TagFavorite:
		return "Favorite " + base
	case item.TagNeedToRead:
		return base + " To Read"
	case item.TagFinished:
		return "Finished " + base
	}
	return base
}
