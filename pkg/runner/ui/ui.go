// Package ui provides the CLI runner that launches the interactive UI.
package ui

import (
	"context"
	"errors"

	"tableflip.dev/shelf/pkg/cover"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/playlist"
	teaui "tableflip.dev/shelf/pkg/runner/tea"
	"tableflip.dev/shelf/pkg/store"
)

type UI struct {
	Persistence store.Persistence
}

func (u *UI) Do(ctx context.Context) error {
	if u.Persistence == nil {
		return errors.New("can not open ui, no persistence")
	}

	svc := library.NewService(u.Persistence, cover.Generate)
	if err := svc.Load(ctx); err != nil {
		return err
	}
	pls := playlist.NewManager(u.Persistence)
	if err := pls.Load(ctx); err != nil {
		return err
	}

	return teaui.Run(svc, pls, u.Persistence)
}
