// Package render provides the CLI runner that rasterizes book pages.
package render

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"

	"tableflip.dev/shelf/pkg/cover"
	"tableflip.dev/shelf/pkg/doc"
	"tableflip.dev/shelf/pkg/item"
	"tableflip.dev/shelf/pkg/library"
	"tableflip.dev/shelf/pkg/store"
)

// Render rasterizes one page of a stored book to a PNG file.
type Render struct {
	ID          string
	Page        int
	Scale       float64
	Out         string
	Persistence store.Persistence
}

func (r *Render) Do(ctx context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not render, no persistence")
	}
	if r.ID == "" {
		return errors.New("can not render, no id given")
	}

	s := library.NewService(r.Persistence, nil)
	if err := s.Load(ctx); err != nil {
		return err
	}
	b, ok := s.Book(r.ID)
	if !ok {
		return fmt.Errorf("no book with id %s", r.ID)
	}
	if b.Example {
		return errors.New("example books have no stored binary")
	}

	d, err := doc.Open(b.Path)
	if err != nil {
		return err
	}
	defer d.Close()

	page := r.Page
	if page < 1 {
		page = 1
	}
	if page > d.PageCount() {
		page = d.PageCount()
	}
	scale := r.Scale
	if scale <= 0 {
		scale = cover.RenderScale
	}

	img, err := d.RenderPage(page, scale)
	if err != nil {
		return err
	}

	out := r.Out
	if out == "" {
		out = fmt.Sprintf("%s-p%d.png", item.KindBook.KeyPrefix()+b.ID, page)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote page %d of %s to %s\n", page, b.Title, out)
	return nil
}
