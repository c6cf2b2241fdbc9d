// Package doc opens PDF documents and renders pages to images.
package doc

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// Document is an open, page-addressable document. Pages are 1-based.
type Document interface {
	PageCount() int
	RenderPage(page int, scale float64) (image.Image, error)
	Close() error
}

// Open opens the PDF at path.
func Open(path string) (Document, error) {
	d, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("doc: open %s: %w", path, err)
	}
	return &fitzDocument{d: d}, nil
}

type fitzDocument struct {
	d *fitz.Document
}

func (f *fitzDocument) PageCount() int {
	return f.d.NumPage()
}

// RenderPage rasterizes the given 1-based page. scale 1.0 renders at 72 DPI.
func (f *fitzDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > f.d.NumPage() {
		return nil, fmt.Errorf("doc: page %d out of range [1, %d]", page, f.d.NumPage())
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := f.d.ImageDPI(page-1, scale*72)
	if err != nil {
		return nil, fmt.Errorf("doc: render page %d: %w", page, err)
	}
	return img, nil
}

func (f *fitzDocument) Close() error {
	return f.d.Close()
}
