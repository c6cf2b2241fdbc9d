// Package playlists provides the CLI runners for playlist management.
package playlists

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/playlist"
	"tableflip.dev/shelf/pkg/printers"
	"tableflip.dev/shelf/pkg/store"
)

// List prints every playlist with its resolved members.
type List struct {
	ShowID      bool
	Persistence store.Persistence
}

func (l *List) Do(ctx context.Context) error {
	if l.Persistence == nil {
		return errors.New("can not list playlists, no persistence")
	}

	s := library.NewService(l.Persistence, nil)
	if err := s.Load(ctx); err != nil {
		return err
	}
	m := playlist.NewManager(l.Persistence)
	if err := m.Load(ctx); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: l.ShowID}
	fmt.Println("")
	pp.Playlists(m.All(), s.Books())
	return nil
}

// Create adds a new empty playlist.
type Create struct {
	Name        string
	Persistence store.Persistence
}

func (c *Create) Do(ctx context.Context) error {
	if c.Persistence == nil {
		return errors.New("can not create playlist, no persistence")
	}

	m := playlist.NewManager(c.Persistence)
	if err := m.Load(ctx); err != nil {
		return err
	}

	pl, ok := m.Create(ctx, c.Name)
	if !ok {
		fmt.Println("nothing to do, playlist name is empty")
		return nil
	}
	fmt.Printf("created %q (%s)\n", pl.Name, pl.ID)
	return nil
}

// SetMembers replaces a playlist's membership with the given book ids.
type SetMembers struct {
	ID          string
	MemberIDs   []string
	Persistence store.Persistence
}

func (s *SetMembers) Do(ctx context.Context) error {
	if s.Persistence == nil {
		return errors.New("can not update playlist, no persistence")
	}
	if s.ID == "" {
		return errors.New("can not update playlist, no id given")
	}

	m := playlist.NewManager(s.Persistence)
	if err := m.Load(ctx); err != nil {
		return err
	}

	if !m.SetMembers(ctx, s.ID, s.MemberIDs) {
		fmt.Printf("nothing to do for %s\n", s.ID)
		return nil
	}
	fmt.Printf("updated %s with %d members\n", s.ID, len(s.MemberIDs))
	return nil
}
